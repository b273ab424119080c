package symspell

import "errors"

// Errors returned by Lookup, LookupCompound and WordSegmentation for an
// out-of-range edit distance. The core never errors on ordinary query input;
// only out-of-range parameters at construction (reported by NewSymSpell with
// its own errors) or at query time raise.
var (
	// ErrNegativeEditDistance is returned when Lookup is called with a
	// negative maxEditDistance.
	ErrNegativeEditDistance = errors.New("symspell: maxEditDistance must be >= 0")

	// ErrMaxEditDistanceExceeded is returned when Lookup is called with a
	// maxEditDistance greater than the dictionary's maxDictionaryEditDistance.
	ErrMaxEditDistanceExceeded = errors.New("symspell: maxEditDistance exceeds maxDictionaryEditDistance")
)
