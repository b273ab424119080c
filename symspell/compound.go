package symspell

import (
	"math"
	"strings"
)

// LookupCompound splits input into tokens with the word regex and corrects
// them left to right, checking for an adjacent-pair merge before accepting
// a single-token correction, and falling back to an intra-token split when
// neither the original token nor its best single-term correction is exact.
// It always returns exactly one SuggestItem: the concatenation of the
// corrected parts, with an aggregate Naive-Bayes count and an edit distance
// measured against the original input.
func (s *SymSpell) LookupCompound(input string, editDistanceMax int) (SuggestItems, error) {
	tokens := parseWords(input)

	corrected := make(SuggestItems, 0, len(tokens))
	dc := NewDistanceComparer()

	justMerged := false
	for i, token := range tokens {
		single, err := s.Lookup(token, Top, editDistanceMax, false)
		if err != nil {
			return nil, err
		}

		if i > 0 && !justMerged {
			merged, accepted, err := s.tryMergePair(tokens[i-1], token, corrected[len(corrected)-1], single, editDistanceMax)
			if err != nil {
				return nil, err
			}
			if accepted {
				corrected[len(corrected)-1] = merged
				justMerged = true
				continue
			}
		}
		justMerged = false

		// Always split terms without suggestion / never split terms with suggestion ed=0 / never split single char terms
		if len(single) > 0 && (single[0].distance == 0 || len(token) == 1) {
			corrected = append(corrected, single[0])
			continue
		}

		best, err := s.bestSplit(token, single, editDistanceMax, dc)
		if err != nil {
			return nil, err
		}
		corrected = append(corrected, best)
	}

	return SuggestItems{s.joinParts(input, corrected, dc)}, nil
}

// tryMergePair looks up the combined form of two adjacent tokens and
// decides whether replacing prevBest (the already-accepted correction for
// the preceding token) with it beats keeping the two corrected separately,
// per the Naive-Bayes tie-break of spec §4.G.
func (s *SymSpell) tryMergePair(prevToken, token string, prevBest SuggestItem, single SuggestItems, editDistanceMax int) (SuggestItem, bool, error) {
	mergedCandidates, err := s.Lookup(prevToken+token, Top, editDistanceMax, false)
	if err != nil {
		return SuggestItem{}, false, err
	}
	if len(mergedCandidates) == 0 {
		return SuggestItem{}, false, nil
	}

	var curBest SuggestItem
	if len(single) > 0 {
		curBest = single[0]
	} else {
		curBest = unknownSuggestItem(token, editDistanceMax)
	}

	// separateDistance is the edit distance if the two tokens stay split and
	// are each corrected on their own.
	separateDistance := prevBest.distance + curBest.distance
	merged := mergedCandidates[0]
	beatsSeparate := separateDistance >= 0 && ((merged.distance+1 < separateDistance) ||
		(merged.distance+1 == separateDistance && float64(merged.count) > float64(prevBest.count)/s.n*float64(curBest.count)))
	if !beatsSeparate {
		return SuggestItem{}, false, nil
	}
	merged.distance++
	return merged, true, nil
}

// bestSplit finds the best intra-token split of token into two
// dictionary-known halves, scored by bigram count (boosted when the split
// reconstructs token verbatim or echoes the single-term suggestion) or by
// Naive-Bayes when no bigram entry exists. Falls back to the unscored
// single-term suggestion, or an unknown-word placeholder if there is none.
func (s *SymSpell) bestSplit(token string, single SuggestItems, editDistanceMax int, dc *comparer) (SuggestItem, error) {
	var best *SuggestItem
	if len(single) > 0 {
		tmp := single[0]
		best = &tmp
	}

	if len(token) <= 1 {
		if best != nil {
			return *best, nil
		}
		return unknownSuggestItem(token, editDistanceMax), nil
	}

	for j := 1; j < len(token); j++ {
		left, right := token[:j], token[j:]

		leftSuggestions, err := s.Lookup(left, Top, editDistanceMax, false)
		if err != nil {
			return SuggestItem{}, err
		}
		if len(leftSuggestions) == 0 {
			continue
		}
		rightSuggestions, err := s.Lookup(right, Top, editDistanceMax, false)
		if err != nil {
			return SuggestItem{}, err
		}
		if len(rightSuggestions) == 0 {
			continue
		}

		candidate := SuggestItem{term: leftSuggestions[0].term + " " + rightSuggestions[0].term}

		candidateDistance := dc.Compare(token, candidate.term, editDistanceMax)
		if candidateDistance < 0 {
			candidateDistance = editDistanceMax + 1
		}

		if best != nil {
			if candidateDistance > best.distance {
				continue
			}
			if candidateDistance < best.distance {
				best = nil
			}
		}

		candidate.distance = candidateDistance
		candidate.count = s.scoreSplit(token, leftSuggestions[0], rightSuggestions[0], single)

		if best == nil || candidate.count > best.count {
			tmp := candidate
			best = &tmp
		}
	}

	if best != nil {
		return *best, nil
	}
	return unknownSuggestItem(token, editDistanceMax), nil
}

// scoreSplit assigns a frequency count to the two-word split "left right":
// the bigram-dictionary count when the phrase is known (boosted past the
// single-term correction's count when the split exactly reconstructs the
// original token, or shares a term with it), else a Naive-Bayes estimate
// P(left)*P(right), capped at the lowest bigram count ever observed.
func (s *SymSpell) scoreSplit(token string, left, right SuggestItem, single SuggestItems) int64 {
	reconstructs := left.term+right.term == token

	if bigramCount, ok := s.bigrams[left.term+" "+right.term]; ok {
		switch {
		case len(single) > 0 && reconstructs:
			return maxInt64(bigramCount, single[0].count+2)
		case len(single) > 0 && (left.term == single[0].term || right.term == single[0].term):
			return maxInt64(bigramCount, single[0].count+1)
		case len(single) == 0 && reconstructs:
			return maxInt64(bigramCount, maxInt64(left.count, right.count)+2)
		default:
			return bigramCount
		}
	}

	return minInt64(s.bigramCountMin, int64(float64(left.count)/s.n*float64(right.count)))
}

// joinParts concatenates the corrected parts with single spaces and derives
// the aggregate Naive-Bayes count (N * product of per-part probabilities)
// and the edit distance of the whole correction against the original input.
func (s *SymSpell) joinParts(input string, parts SuggestItems, dc *comparer) SuggestItem {
	count := s.n
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.term)
		sb.WriteString(" ")
		count *= float64(part.count) / s.n
	}

	term := strings.TrimSpace(sb.String())
	return SuggestItem{
		term:     term,
		count:    int64(count),
		distance: dc.Compare(input, term, math.MaxInt32),
	}
}

func unknownSuggestItem(term string, editDistanceMax int) SuggestItem {
	return SuggestItem{
		term:     term,
		count:    int64(10 / math.Pow(10, float64(len(term)))),
		distance: editDistanceMax + 1,
	}
}
