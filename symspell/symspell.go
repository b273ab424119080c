// Package symspell implements the Symmetric Delete spelling-correction
// algorithm: a delete-prefix index over a frequency-weighted vocabulary,
// together with single-term lookup, multi-term compound correction, and
// word segmentation built on top of it.
package symspell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Verbosity controls the quantity/closeness of the returned spelling suggestions.
type Verbosity int

const (
	// Top is the suggestion with the highest term frequency of the suggestions of smallest edit distance found.
	Top Verbosity = iota
	// Closest is all suggestions of smallest edit distance found, ordered by term frequency.
	Closest
	// All is every suggestion within maxEditDistance, ordered by edit distance, then by term frequency
	// (slower, no early termination).
	All
)

const (
	defaultMaxEditDistance = 2
	defaultPrefixLength    = 7
	defaultCountThreshold  = 1
	defaultInitialCapacity = 16
	defaultCompactLevel    = 5

	// defaultN is the assumed total token count of the training corpus,
	// the denominator used to turn counts into probabilities.
	defaultN = 1024908267229.0
)

// SymSpell is the main struct for the SymSpell spelling correction algorithm.
// A SymSpell instance must not be mutated (CreateDictionaryEntry,
// LoadDictionary, ...) concurrently with reads (Lookup, LookupCompound,
// WordSegmentation); concurrent readers are safe once loading has finished.
type SymSpell struct {
	initialCapacity           int
	maxDictionaryEditDistance int
	prefixLength              int
	countThreshold            int64
	compactMask               uint32
	maxDictionaryWordLength   int

	deletes             map[int]map[string]struct{}
	words               map[string]int64
	belowThresholdWords map[string]int64

	bigrams        map[string]int64
	bigramCountMin int64
	n              float64
}

// NewSymSpell creates a new instance of SymSpell.
func NewSymSpell(initialCapacity int, maxDictionaryEditDistance int, prefixLength int, countThreshold int64, compactLevel uint8) (*SymSpell, error) {
	if initialCapacity < 0 {
		return nil, errors.New("initialCapacity must be >= 0")
	}
	if maxDictionaryEditDistance < 0 {
		return nil, errors.New("maxDictionaryEditDistance must be >= 0")
	}
	if prefixLength < 1 || prefixLength <= maxDictionaryEditDistance {
		return nil, errors.New("prefixLength must be >= 1 and > maxDictionaryEditDistance")
	}
	if countThreshold < 0 {
		return nil, errors.New("countThreshold must be >= 0")
	}
	if compactLevel > 16 {
		return nil, errors.New("compactLevel must be <= 16")
	}
	compactMask := uint32(math.MaxUint32>>(3+compactLevel)) << 2
	symSpell := &SymSpell{
		initialCapacity:           initialCapacity,
		maxDictionaryEditDistance: maxDictionaryEditDistance,
		prefixLength:              prefixLength,
		countThreshold:            countThreshold,
		compactMask:               compactMask,
		deletes:                   make(map[int]map[string]struct{}),
		words:                     make(map[string]int64, initialCapacity),
		belowThresholdWords:       make(map[string]int64),
		bigrams:                   make(map[string]int64),
		bigramCountMin:            math.MaxInt64,
		n:                         defaultN,
	}
	return symSpell, nil
}

// SetN overrides the probability-normalization constant N (default
// 1,024,908,267,229, the token count of the reference training corpus).
func (s *SymSpell) SetN(n float64) {
	if n > 0 {
		s.n = n
	}
}

// WordCount returns the number of terms accepted into the vocabulary.
func (s *SymSpell) WordCount() int {
	return len(s.words)
}

// MaxLength returns the length, in bytes, of the longest accepted term.
func (s *SymSpell) MaxLength() int {
	return s.maxDictionaryWordLength
}

// Count returns the frequency of term, and whether it is present in the
// accepted vocabulary (below-threshold terms are not reported).
func (s *SymSpell) Count(term string) (int64, bool) {
	c, ok := s.words[term]
	return c, ok
}

// CreateDictionaryEntry creates or updates an entry in the dictionary. It
// returns true iff this call first promoted term into the accepted
// vocabulary (crossing countThreshold for the first time), which is the
// only case in which the delete index is expanded.
func (s *SymSpell) CreateDictionaryEntry(key string, count int64, staging *SuggestionStage) bool {
	if count <= 0 {
		if s.countThreshold > 0 {
			return false
		}
		count = 0
	}
	var countPrevious int64

	if s.countThreshold > 1 {
		if c, found := s.belowThresholdWords[key]; found {
			countPrevious = c
			if math.MaxInt64-countPrevious > count {
				count += countPrevious
			} else {
				count = math.MaxInt64
			}
			if count >= s.countThreshold {
				delete(s.belowThresholdWords, key)
			} else {
				s.belowThresholdWords[key] = count
				return false
			}
		} else if c, found := s.words[key]; found {
			countPrevious = c
			if math.MaxInt64-countPrevious > count {
				count += countPrevious
			} else {
				count = math.MaxInt64
			}
			s.words[key] = count
			return false
		} else if count < s.countThreshold {
			s.belowThresholdWords[key] = count
			return false
		}
	} else {
		if c, found := s.words[key]; found {
			countPrevious = c
			if math.MaxInt64-countPrevious > count {
				count += countPrevious
			} else {
				count = math.MaxInt64
			}
			s.words[key] = count
			return false
		} else if count < s.countThreshold {
			s.belowThresholdWords[key] = count
			return false
		}
	}

	s.words[key] = count

	if len(key) > s.maxDictionaryWordLength {
		s.maxDictionaryWordLength = len(key)
	}

	edits := s.EditsPrefix(key)

	if staging != nil {
		for deleteStr := range edits {
			staging.Add(s.GetStringHash(deleteStr), key)
		}
	} else {
		for deleteStr := range edits {
			deleteHash := s.GetStringHash(deleteStr)
			if s.deletes[deleteHash] == nil {
				s.deletes[deleteHash] = make(map[string]struct{})
			}
			s.deletes[deleteHash][key] = struct{}{}
		}
	}
	return true
}

// PurgeBelowThreshold discards the below-threshold holding area, freeing
// the memory held by terms that never reached countThreshold. It has no
// effect on the accepted vocabulary or the delete index.
func (s *SymSpell) PurgeBelowThreshold() {
	s.belowThresholdWords = make(map[string]int64)
}

// EditsPrefix generates all possible deletes for a word up to maxEditDistance.
func (s *SymSpell) EditsPrefix(key string) map[string]struct{} {
	hashSet := make(map[string]struct{})
	if len(key) <= s.maxDictionaryEditDistance {
		hashSet[""] = struct{}{}
	}
	if len(key) > s.prefixLength {
		key = key[:s.prefixLength]
	}
	hashSet[key] = struct{}{}
	s.Edits(key, 0, hashSet)
	return hashSet
}

// Edits recursively generates all possible deletes for a word.
func (s *SymSpell) Edits(word string, editDistance int, deleteWords map[string]struct{}) {
	editDistance++
	if len(word) > 1 {
		for i := 0; i < len(word); i++ {
			deleteStr := word[:i] + word[i+1:]
			if _, exists := deleteWords[deleteStr]; !exists {
				deleteWords[deleteStr] = struct{}{}
				if editDistance < s.maxDictionaryEditDistance {
					s.Edits(deleteStr, editDistance, deleteWords)
				}
			}
		}
	}
}

// GetStringHash computes the 32-bit delete-bucket hash for a string: an
// FNV-1a scramble masked by compactMask to 29-compactLevel bits (bits 2 and
// up), with the low 2 bits carrying a length class (min(len,3)).
func (s *SymSpell) GetStringHash(str string) int {
	lenRunes := 0
	for range str {
		lenRunes++
	}
	lenMask := lenRunes
	if lenMask > 3 {
		lenMask = 3
	}

	var hash uint32 = 2166136261
	for _, r := range str {
		hash ^= uint32(r)
		hash *= 16777619
	}

	hash &= s.compactMask
	hash |= uint32(lenMask)
	return int(hash)
}

// CommitStaged commits staged dictionary additions.
func (s *SymSpell) CommitStaged(staging *SuggestionStage) {
	staging.CommitTo(s.deletes)
}

// LoadDictionary loads dictionary entries from a file of word/frequency
// count pairs. path may be a plain file path or a doublestar glob pattern
// (e.g. "dicts/*.txt"); every matching file is loaded, in sorted path order.
func (s *SymSpell) LoadDictionary(path string, termIndex int, countIndex int, separatorChars string) (bool, error) {
	matches, err := globOrSelf(path)
	if err != nil {
		return false, err
	}
	for _, match := range matches {
		if err := s.loadDictionaryFile(match, termIndex, countIndex, separatorChars); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *SymSpell) loadDictionaryFile(path string, termIndex int, countIndex int, separatorChars string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = s.LoadDictionaryFromReader(file, termIndex, countIndex, separatorChars)
	return err
}

// LoadDictionaryFromReader loads dictionary entries from an io.Reader.
// Records with fewer than two fields, or an unparseable count, are skipped
// silently (dictionaries routinely contain malformed rows).
func (s *SymSpell) LoadDictionaryFromReader(reader io.Reader, termIndex int, countIndex int, separatorChars string) (bool, error) {
	staging := NewSuggestionStage(16384)
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()
		var lineParts []string
		if separatorChars == "" {
			lineParts = strings.Fields(line)
		} else {
			lineParts = strings.Split(line, separatorChars)
		}
		if len(lineParts) >= 2 && termIndex < len(lineParts) && countIndex < len(lineParts) {
			key := lineParts[termIndex]
			count, err := strconv.ParseInt(lineParts[countIndex], 10, 64)
			if err == nil {
				s.CreateDictionaryEntry(key, count, staging)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return false, err
	}
	s.CommitStaged(staging)
	return true, nil
}

// CreateDictionary tokenizes one or more plain-text corpus files (path may
// be a doublestar glob) using the Unicode word regex, after lower-casing,
// and inserts each token with count 1 (accumulated via the normal
// saturating-add path). It returns the number of files loaded.
func (s *SymSpell) CreateDictionary(path string) (int, error) {
	matches, err := globOrSelf(path)
	if err != nil {
		return 0, err
	}
	staging := NewSuggestionStage(16384)
	for _, match := range matches {
		if err := s.createDictionaryFile(match, staging); err != nil {
			return 0, err
		}
	}
	s.CommitStaged(staging)
	return len(matches), nil
}

func (s *SymSpell) createDictionaryFile(path string, staging *SuggestionStage) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, token := range parseWords(scanner.Text()) {
			s.CreateDictionaryEntry(token, 1, staging)
		}
	}
	return scanner.Err()
}

// globOrSelf expands pattern as a doublestar glob; if it matches nothing,
// the pattern is returned as a single-element result so a plain,
// non-matching path still surfaces a normal "file not found" error from the
// subsequent os.Open rather than silently loading zero files.
func globOrSelf(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return []string{pattern}, nil
	}
	sort.Strings(matches)
	return matches, nil
}

// Lookup returns spelling suggestions for input under the given verbosity
// policy. maxEditDistance must be in [0, maxDictionaryEditDistance] (the
// bound fixed at construction); ErrNegativeEditDistance or
// ErrMaxEditDistanceExceeded is returned otherwise. An empty result with a
// nil error means "no suggestion within bound"; with includeUnknown set, a
// sentinel (input, maxEditDistance+1, 0) is returned instead so callers
// always have a token to render.
func (s *SymSpell) Lookup(input string, verbosity Verbosity, maxEditDistance int, includeUnknown bool) (SuggestItems, error) {
	if maxEditDistance < 0 {
		return nil, ErrNegativeEditDistance
	}
	if maxEditDistance > s.maxDictionaryEditDistance {
		return nil, ErrMaxEditDistanceExceeded
	}

	suggestions := SuggestItems{}
	inputLen := len(input)
	var suggestionCount int64
	var ok bool

	// deletes we've considered already
	hashset1 := make(map[string]struct{})
	// suggestions we've considered already
	hashset2 := make(map[string]struct{})

	maxEditDistance2 := maxEditDistance
	candidatePointer := 0
	candidates := []string{}

	inputPrefixLen := inputLen

	distanceComparer := NewDistanceComparer()

	// early exit - word is too big to possibly match any words
	if inputLen-maxEditDistance > s.maxDictionaryWordLength {
		goto end
	}

	if suggestionCount, ok = s.words[input]; ok {
		suggestions = append(suggestions, SuggestItem{term: input, distance: 0, count: suggestionCount})
		// early exit - return exact match, unless caller wants all matches
		if verbosity != All {
			goto end
		}
	}

	// early termination, if we only want to check if word in dictionary or get its frequency e.g. for word segmentation
	if maxEditDistance == 0 {
		goto end
	}

	// we considered the input already in the word lookup above
	hashset2[input] = struct{}{}

	if inputPrefixLen > s.prefixLength {
		inputPrefixLen = s.prefixLength
		candidates = append(candidates, input[:inputPrefixLen])
	} else {
		candidates = append(candidates, input)
	}

	for candidatePointer < len(candidates) {
		candidate := candidates[candidatePointer]
		candidatePointer++
		candidateLen := len(candidate)
		lengthDiff := inputPrefixLen - candidateLen

		// save some time - early termination
		// if candidate distance is already higher than suggestion distance, then there are no better suggestions to be expected
		if lengthDiff > maxEditDistance2 {
			// skip to next candidate if VerbosityAll, look no further if VerbosityTop or Closest
			// (candidates are ordered by delete distance, so none are closer than current)
			if verbosity == All {
				continue
			}
			break
		}

		if dictSuggestions, found := s.deletes[s.GetStringHash(candidate)]; found {
			for suggestion := range dictSuggestions {
				suggestionLen := len(suggestion)
				if suggestion == input {
					continue
				}
				if abs(suggestionLen-inputLen) > maxEditDistance2 ||
					suggestionLen < candidateLen ||
					(suggestionLen == candidateLen && suggestion != candidate) {
					continue
				}
				suggPrefixLen := min(suggestionLen, s.prefixLength)
				if suggPrefixLen > inputPrefixLen && (suggPrefixLen-candidateLen) > maxEditDistance2 {
					continue
				}

				distance := 0
				minLen := 0
				if candidateLen == 0 {
					// suggestions which have no common chars with input (inputLen<=maxEditDistance && suggestionLen<=maxEditDistance)
					distance = max(inputLen, suggestionLen)
					if distance > maxEditDistance2 || !addToSet(hashset2, suggestion) {
						continue
					}
				} else if suggestionLen == 1 {
					if !strings.ContainsRune(input, rune(suggestion[0])) {
						distance = inputLen
					} else {
						distance = inputLen - 1
					}
					if distance > maxEditDistance2 || !addToSet(hashset2, suggestion) {
						continue
					}
				} else {
					if (s.prefixLength - maxEditDistance) == candidateLen {
						minLen = min(inputLen, suggestionLen) - s.prefixLength
						if (minLen > 1 && input[inputLen-minLen:] != suggestion[suggestionLen-minLen:]) ||
							(minLen > 0 &&
								input[inputLen-minLen] != suggestion[suggestionLen-minLen] &&
								(input[inputLen-minLen-1] != suggestion[suggestionLen-minLen] ||
									input[inputLen-minLen] != suggestion[suggestionLen-minLen-1])) {
							continue
						}
					}
					if (verbosity != All && !s.deleteInSuggestionPrefix(candidate, candidateLen, suggestion, suggestionLen)) ||
						!addToSet(hashset2, suggestion) {
						continue
					}
					distance = distanceComparer.Compare(input, suggestion, maxEditDistance2)
					if distance < 0 {
						continue
					}
				}

				// save some time
				// do not process higher distances than those already found, if verbosity<All (maxEditDistance2 will always equal maxEditDistance when VerbosityAll)
				if distance <= maxEditDistance2 {
					suggestionCount = s.words[suggestion]
					si := SuggestItem{term: suggestion, distance: distance, count: suggestionCount}
					if len(suggestions) > 0 {
						switch verbosity {
						case Closest:
							// we will calculate distance only to the smallest found distance so far
							if distance < maxEditDistance2 {
								suggestions = suggestions[:0]
							}
						case Top:
							if distance < maxEditDistance2 || suggestionCount > suggestions[0].count {
								maxEditDistance2 = distance
								suggestions[0] = si
							}
							continue
						}
					}
					if verbosity != All {
						maxEditDistance2 = distance
					}
					suggestions = append(suggestions, si)
				}
			}
		}

		// add edits
		// derive edits (deletes) from candidate (input) and add them to candidates list
		// this is a recursive process until the maximum edit distance has been reached
		if lengthDiff < maxEditDistance && candidateLen <= s.prefixLength {
			// save some time
			// do not create edits with edit distance bigger than suggestions already found
			if verbosity != All && lengthDiff >= maxEditDistance2 {
				continue
			}

			for i := 0; i < candidateLen; i++ {
				del := candidate[:i] + candidate[i+1:]

				if _, found := hashset1[del]; !found {
					hashset1[del] = struct{}{}
					candidates = append(candidates, del)
				}
			}
		}
	}

	// sort by ascending edit distance, then by descending word frequency
	if len(suggestions) > 1 {
		sort.Sort(suggestions)

		uniqueSuggestions := make(SuggestItems, 0, len(suggestions))
		seen := make(map[string]struct{}, len(suggestions))
		for _, suggestion := range suggestions {
			if _, found := seen[suggestion.term]; found {
				continue
			}
			uniqueSuggestions = append(uniqueSuggestions, suggestion)
			seen[suggestion.term] = struct{}{}
		}
		suggestions = uniqueSuggestions
	}
end:
	if includeUnknown && len(suggestions) == 0 {
		suggestions = append(suggestions, SuggestItem{term: input, distance: maxEditDistance + 1, count: 0})
	}
	return suggestions, nil
}

func (s *SymSpell) deleteInSuggestionPrefix(deleteStr string, deleteLen int, suggestion string, suggestionLen int) bool {
	if deleteLen == 0 {
		return true
	}
	if s.prefixLength < suggestionLen {
		suggestionLen = s.prefixLength
	}
	j := 0
	for i := 0; i < deleteLen; i++ {
		delChar := deleteStr[i]
		for j < suggestionLen && delChar != suggestion[j] {
			j++
		}
		if j == suggestionLen {
			return false
		}
	}
	return true
}
