package symspell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_WordsWithSharedPrefixShouldRetainCounts(t *testing.T) {
	symSpell, err := NewSymSpell(16, 1, 3, 1, 5)
	require.NoError(t, err)

	symSpell.CreateDictionaryEntry("pipe", 5, nil)
	symSpell.CreateDictionaryEntry("pips", 10, nil)

	{
		result, err := symSpell.Lookup("pip", All, 1, false)
		require.NoError(t, err)
		require.Len(t, result, 2)
		require.Equal(t, "pips", result[0].term)
		require.EqualValues(t, 10, result[0].count)
		require.Equal(t, "pipe", result[1].term)
		require.EqualValues(t, 5, result[1].count)
	}

	{
		result, err := symSpell.Lookup("pipe", All, 1, false)
		require.NoError(t, err)
		require.Len(t, result, 2)
		require.Equal(t, "pipe", result[0].term)
		require.EqualValues(t, 5, result[0].count)
		require.Equal(t, 0, result[0].distance)
		require.Equal(t, "pips", result[1].term)
		require.EqualValues(t, 10, result[1].count)
	}

	{
		result, err := symSpell.Lookup("pips", All, 1, false)
		require.NoError(t, err)
		require.Len(t, result, 2)
		require.Equal(t, "pips", result[0].term)
		require.EqualValues(t, 10, result[0].count)
		require.Equal(t, "pipe", result[1].term)
		require.EqualValues(t, 5, result[1].count)
	}
}

func Test_VerbosityShouldControlLookupResults(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 3, 1, 5)
	require.NoError(t, err)

	symSpell.CreateDictionaryEntry("steam", 1, nil)
	symSpell.CreateDictionaryEntry("steams", 2, nil)
	symSpell.CreateDictionaryEntry("steem", 3, nil)

	{
		result, err := symSpell.Lookup("steems", Top, 2, false)
		require.NoError(t, err)
		require.Len(t, result, 1)
	}
	{
		result, err := symSpell.Lookup("steems", Closest, 2, false)
		require.NoError(t, err)
		require.Len(t, result, 2)
	}
	{
		result, err := symSpell.Lookup("steems", All, 2, false)
		require.NoError(t, err)
		require.Len(t, result, 3)
	}
}

func Test_LookupShouldReturnMostFrequent(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 3, 1, 5)
	require.NoError(t, err)

	symSpell.CreateDictionaryEntry("steama", 4, nil)
	symSpell.CreateDictionaryEntry("steamb", 6, nil)
	symSpell.CreateDictionaryEntry("steamc", 2, nil)

	result, err := symSpell.Lookup("steam", Top, 2, false)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "steamb", result[0].term)
	require.EqualValues(t, 6, result[0].count)
}

func Test_LookupShouldFindExactMatch(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 3, 1, 5)
	require.NoError(t, err)

	symSpell.CreateDictionaryEntry("steama", 4, nil)
	symSpell.CreateDictionaryEntry("steamb", 6, nil)
	symSpell.CreateDictionaryEntry("steamc", 2, nil)

	result, err := symSpell.Lookup("steama", Top, 2, false)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "steama", result[0].term)
}

func Test_LookupShouldNotReturnNonWordDelete(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)

	symSpell.CreateDictionaryEntry("pawn", 10, nil)

	{
		result, err := symSpell.Lookup("paw", Top, 0, false)
		require.NoError(t, err)
		require.Empty(t, result)
	}

	{
		result, err := symSpell.Lookup("awn", Top, 0, false)
		require.NoError(t, err)
		require.Empty(t, result)
	}
}

func Test_LookupShouldNotReturnLowCountWord(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 10, 5)
	require.NoError(t, err)

	symSpell.CreateDictionaryEntry("pawn", 1, nil)

	result, err := symSpell.Lookup("pawn", Top, 0, false)
	require.NoError(t, err)
	require.Empty(t, result)
}

func Test_LookupShouldNotReturnLowCountWordThatsAlsoDeleteWord(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 10, 5)
	require.NoError(t, err)

	symSpell.CreateDictionaryEntry("flame", 20, nil)
	symSpell.CreateDictionaryEntry("flam", 1, nil)

	result, err := symSpell.Lookup("flam", Top, 0, false)
	require.NoError(t, err)
	require.Empty(t, result)
}

func Test_LookupRejectsOutOfRangeEditDistance(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)
	symSpell.CreateDictionaryEntry("pawn", 10, nil)

	_, err = symSpell.Lookup("pawn", Top, -1, false)
	require.ErrorIs(t, err, ErrNegativeEditDistance)

	_, err = symSpell.Lookup("pawn", Top, 3, false)
	require.ErrorIs(t, err, ErrMaxEditDistanceExceeded)
}

func Test_LookupIncludeUnknownReturnsSentinel(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)
	symSpell.CreateDictionaryEntry("pawn", 10, nil)

	result, err := symSpell.Lookup("zzzzzzzzzzzz", Top, 2, true)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "zzzzzzzzzzzz", result[0].term)
	require.Equal(t, 3, result[0].distance)
}

func Test_PurgeBelowThresholdDropsHoldingArea(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 10, 5)
	require.NoError(t, err)

	symSpell.CreateDictionaryEntry("pawn", 1, nil)
	require.Len(t, symSpell.belowThresholdWords, 1)

	symSpell.PurgeBelowThreshold()
	require.Empty(t, symSpell.belowThresholdWords)

	result, err := symSpell.Lookup("pawn", Top, 0, false)
	require.NoError(t, err)
	require.Empty(t, result, "purging below-threshold holding area must not touch the accepted vocabulary")
}

func Test_LoadDictionaryExpandsGlobPattern(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("pawn 10\nflame 20\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("steam 5\n"), 0o644))

	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)

	ok, err := symSpell.LoadDictionary(filepath.Join(dir, "*.txt"), 0, 1, "")
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, 3, symSpell.WordCount())
	count, found := symSpell.Count("flame")
	require.True(t, found)
	require.EqualValues(t, 20, count)
}

func Test_CreateDictionaryTokenizesCorpus(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corpus.txt"), []byte("The quick brown fox. The fox ran."), 0o644))

	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)

	n, err := symSpell.CreateDictionary(filepath.Join(dir, "corpus.txt"))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	count, found := symSpell.Count("the")
	require.True(t, found)
	require.EqualValues(t, 2, count)
	count, found = symSpell.Count("fox")
	require.True(t, found)
	require.EqualValues(t, 2, count)
}

func Test_LoadBigramDictionaryAccumulatesCounts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bigrams.txt"), []byte("abandoned the 100\nabandon ship 50\nabandon ship 25\n"), 0o644))

	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)

	ok, err := symSpell.LoadBigramDictionary(filepath.Join(dir, "bigrams.txt"), 0, 2, "")
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, int64(100), symSpell.bigrams["abandoned the"])
	require.Equal(t, int64(75), symSpell.bigrams["abandon ship"])
	require.Equal(t, int64(50), symSpell.bigramCountMin)
}

func Test_LookupCompoundSplitsRunTogetherWord(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)

	for _, w := range []string{"the", "quick", "brown", "fox"} {
		symSpell.CreateDictionaryEntry(w, 1000, nil)
	}

	result, err := symSpell.LookupCompound("thequick brown fox", 2)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "the quick brown fox", result[0].term)
}

func Test_WordSegmentationSplitsRunTogetherWords(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)

	for _, w := range []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog"} {
		symSpell.CreateDictionaryEntry(w, 1000, nil)
	}

	result, err := symSpell.WordSegmentation("thequickbrownfoxjumpsoverthelazydog", 0, 11)
	require.NoError(t, err)
	require.Equal(t, "the quick brown fox jumps over the lazy dog", result.Segmented)
}

func Test_WordSegmentationIsIdempotentOnAlreadySegmentedInput(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)

	for _, w := range []string{"the", "quick", "brown", "fox"} {
		symSpell.CreateDictionaryEntry(w, 1000, nil)
	}

	result, err := symSpell.WordSegmentation("the quick brown fox", 0, 11)
	require.NoError(t, err)
	require.Equal(t, "the quick brown fox", result.Segmented)
}

func Test_WordSegmentationRejectsOutOfRangeEditDistance(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)

	_, err = symSpell.WordSegmentation("test", -1, 11)
	require.ErrorIs(t, err, ErrNegativeEditDistance)
}

func Test_ParseWordsKeepsApostrophesButSplitsOnUnderscore(t *testing.T) {
	words := parseWords("Don't use under_scores, it's fine.")
	require.Equal(t, []string{"don't", "use", "under", "scores", "it's", "fine"}, words)
}

func Test_GetStringHashIsStableAndBucketsByLengthClass(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)

	h1 := symSpell.GetStringHash("cat")
	h2 := symSpell.GetStringHash("cat")
	require.Equal(t, h1, h2)

	h3 := symSpell.GetStringHash("dog")
	require.NotEqual(t, h1, h3, "distinct strings should very rarely collide in this small test")

	require.Equal(t, 3, h1&3)
	require.Equal(t, 2, symSpell.GetStringHash("ab")&3)
}

func Test_LoadDictionaryMissingFileReturnsError(t *testing.T) {
	symSpell, err := NewSymSpell(16, 2, 7, 1, 5)
	require.NoError(t, err)

	_, err = symSpell.LoadDictionary(filepath.Join(t.TempDir(), "does-not-exist.txt"), 0, 1, "")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "no such file") || os.IsNotExist(err))
}
