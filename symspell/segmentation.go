package symspell

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SegmentationResult is the outcome of WordSegmentation.
type SegmentationResult struct {
	// Segmented is the original text with spaces inserted at word
	// boundaries, without any spelling correction applied.
	Segmented string
	// Corrected is Segmented with each part additionally spell-corrected.
	Corrected string
	// DistanceSum is the total edit cost (one per space removed from inside
	// a part, plus per-part lookup distance, plus one per inserted
	// separator) accumulated across all parts.
	DistanceSum int
	// LogProbSum is the sum of log10 word-occurrence probabilities across
	// all parts, usable to rank alternative segmentations.
	LogProbSum float64
}

// composition is one candidate partial segmentation ending at a given
// input position, kept in a ring buffer of length arraySize so memory stays
// O(maxSegmentWordLen) regardless of input length.
type composition struct {
	segmented   string
	corrected   string
	distanceSum int
	logProbSum  float64
}

// WordSegmentation inserts missing spaces into an unsegmented string (e.g.
// "thequickbrownfox") using a triangular-matrix dynamic program evaluated
// in a ring buffer of length min(maxSegmentWordLen, len(input)), so the
// whole pass runs in O(n*maxSegmentWordLen) time and O(maxSegmentWordLen)
// memory. Input is NFKC-normalized and has ASCII hyphens stripped (an
// artefact of syllabified source text) before segmentation begins.
func (s *SymSpell) WordSegmentation(input string, maxEditDistance int, maxSegmentationWordLength int) (SegmentationResult, error) {
	if maxEditDistance < 0 {
		return SegmentationResult{}, ErrNegativeEditDistance
	}
	if maxEditDistance > s.maxDictionaryEditDistance {
		return SegmentationResult{}, ErrMaxEditDistanceExceeded
	}

	input = norm.NFKC.String(input)
	input = strings.ReplaceAll(input, "-", "")

	runes := []rune(input)
	inputLen := len(runes)
	if inputLen == 0 {
		return SegmentationResult{}, nil
	}

	arraySize := maxSegmentationWordLength
	if inputLen < arraySize {
		arraySize = inputLen
	}
	if arraySize <= 0 {
		arraySize = 1
	}

	compositions := make([]composition, arraySize)
	circular := -1

	for j := 0; j < inputLen; j++ {
		maxPartLen := inputLen - j
		if maxPartLen > maxSegmentationWordLength {
			maxPartLen = maxSegmentationWordLength
		}

		for i := 1; i <= maxPartLen; i++ {
			part := string(runes[j : j+i])

			separatorLength := 0
			topEd := 0
			if len(part) > 0 && unicode.IsSpace([]rune(part)[0]) {
				part = part[len(string([]rune(part)[0])):]
			} else {
				separatorLength = 1
			}

			partRuneLen := len([]rune(part))
			noSpacePart := strings.ReplaceAll(part, " ", "")
			topEd += partRuneLen - len([]rune(noSpacePart))
			part = noSpacePart

			topResult, topDistance, topLogProb, err := s.segmentBestForPart(part, maxEditDistance)
			if err != nil {
				return SegmentationResult{}, err
			}
			topEd += topDistance

			destination := (i + circular) % arraySize

			if j == 0 {
				compositions[destination] = composition{
					segmented:   part,
					corrected:   topResult,
					distanceSum: topEd,
					logProbSum:  topLogProb,
				}
				continue
			}

			prev := compositions[circular]
			candidateDistance := prev.distanceSum + separatorLength + topEd
			tie := prev.distanceSum+topEd == compositions[destination].distanceSum ||
				candidateDistance == compositions[destination].distanceSum

			if i == maxSegmentationWordLength ||
				(tie && prev.logProbSum+topLogProb > compositions[destination].logProbSum) ||
				candidateDistance < compositions[destination].distanceSum {
				compositions[destination] = composition{
					segmented:   joinPart(prev.segmented, part),
					corrected:   joinPart(prev.corrected, topResult),
					distanceSum: candidateDistance,
					logProbSum:  prev.logProbSum + topLogProb,
				}
			}
		}

		circular++
		if circular == arraySize {
			circular = 0
		}
	}

	final := compositions[circular]
	return SegmentationResult{
		Segmented:   final.segmented,
		Corrected:   final.corrected,
		DistanceSum: final.distanceSum,
		LogProbSum:  final.logProbSum,
	}, nil
}

// segmentBestForPart looks up the best single-term correction for a part,
// falling back to the unknown-word probability estimate when no
// suggestion is found, and preserves the leading-letter case of part in
// the correction.
func (s *SymSpell) segmentBestForPart(part string, maxEditDistance int) (term string, distance int, logProb float64, err error) {
	if part == "" {
		return "", 0, 0, nil
	}

	suggestions, err := s.Lookup(strings.ToLower(part), Top, maxEditDistance, false)
	if err != nil {
		return "", 0, 0, err
	}

	if len(suggestions) == 0 {
		partLen := float64(len([]rune(part)))
		return part, len([]rune(part)), math.Log10(10.0 / (s.n * math.Pow(10.0, partLen))), nil
	}

	best := suggestions[0]
	return preserveLeadingCase(part, best.term), best.distance, math.Log10(float64(best.count) / s.n), nil
}

// preserveLeadingCase applies the case of original's first rune to
// corrected's first rune, leaving the rest of corrected untouched.
func preserveLeadingCase(original, corrected string) string {
	oRunes := []rune(original)
	cRunes := []rune(corrected)
	if len(oRunes) == 0 || len(cRunes) == 0 {
		return corrected
	}
	if unicode.IsUpper(oRunes[0]) {
		cRunes[0] = unicode.ToUpper(cRunes[0])
	}
	return string(cRunes)
}

// joinPart glues part onto prev without a space when part opens with
// punctuation or an apostrophe (e.g. trailing "'s" or a comma), and with a
// single space otherwise.
func joinPart(prev, part string) string {
	if prev == "" {
		return part
	}
	if part == "" {
		return prev
	}
	r := []rune(part)[0]
	if r == '\'' || r == '’' || (unicode.IsPunct(r) && r != '\'') {
		return prev + part
	}
	return prev + " " + part
}
