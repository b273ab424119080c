package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/symspell-go/symspell-go/internal/applog"
	"github.com/symspell-go/symspell-go/internal/config"
	"github.com/symspell-go/symspell-go/symspell"
)

var (
	// Global engine and logger, built once in the root command's
	// PersistentPreRunE and shared by every subcommand.
	engine *symspell.SymSpell
	logger *zap.Logger

	cfgPath               string
	dictionaryPaths       []string
	corpusPaths           []string
	bigramDictionaryPaths []string
	maxEditDistance       int
	prefixLength          int
	countThreshold        int64
	compactLevel          uint8
	logLevel              string
	devLog                bool

	// effectiveMaxEditDistance is the engine's configured maximum, resolved
	// in buildEngine from config plus flag overrides; subcommands fall back
	// to it when a per-call --edit-distance flag is left at zero.
	effectiveMaxEditDistance int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "symspell",
		Short: "Symmetric Delete spelling correction",
		Long:  `symspell loads a frequency dictionary and offers single-word lookup, compound correction, and word segmentation over it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return buildEngine()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringArrayVar(&dictionaryPaths, "dictionary", nil, "word/frequency dictionary file or glob (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&corpusPaths, "corpus", nil, "plain-text corpus file or glob to tokenize (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&bigramDictionaryPaths, "bigram-dictionary", nil, "bigram frequency dictionary file or glob (repeatable)")
	rootCmd.PersistentFlags().IntVar(&maxEditDistance, "max-edit-distance", 0, "maximum dictionary edit distance (default 2, or config)")
	rootCmd.PersistentFlags().IntVar(&prefixLength, "prefix-length", 0, "delete-index prefix length (default 7, or config)")
	rootCmd.PersistentFlags().Int64Var(&countThreshold, "count-threshold", 0, "minimum frequency to enter the vocabulary (default 1, or config)")
	rootCmd.PersistentFlags().Uint8Var(&compactLevel, "compact-level", 0, "delete-index compaction level 0-16 (default 5, or config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn, or error")
	rootCmd.PersistentFlags().BoolVar(&devLog, "dev-log", false, "use human-readable console logging instead of JSON")

	rootCmd.AddCommand(createLookupCmd())
	rootCmd.AddCommand(createCompoundCmd())
	rootCmd.AddCommand(createSegmentCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildEngine loads config, merges in any flag overrides, constructs the
// logger, and loads every configured dictionary/corpus/bigram source into
// a single shared SymSpell instance.
func buildEngine() error {
	fileCfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	fileCfg = mergeFlags(fileCfg).WithDefaults()

	logger, err = applog.New(fileCfg.Logging.Level, fileCfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	engine, err = symspell.NewSymSpell(
		fileCfg.InitialCapacity,
		fileCfg.MaxEditDistance,
		fileCfg.PrefixLength,
		fileCfg.CountThreshold,
		fileCfg.CompactLevel,
	)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	engine.SetN(fileCfg.CorpusN)
	effectiveMaxEditDistance = fileCfg.MaxEditDistance

	for _, pattern := range fileCfg.DictionaryPaths {
		if _, err := engine.LoadDictionary(pattern, 0, 1, ""); err != nil {
			return fmt.Errorf("load dictionary %s: %w", pattern, err)
		}
		logger.Info("loaded dictionary", zap.String("pattern", pattern), zap.Int("words", engine.WordCount()))
	}
	for _, pattern := range fileCfg.CorpusPaths {
		n, err := engine.CreateDictionary(pattern)
		if err != nil {
			return fmt.Errorf("load corpus %s: %w", pattern, err)
		}
		logger.Info("tokenized corpus", zap.String("pattern", pattern), zap.Int("files", n), zap.Int("words", engine.WordCount()))
	}
	for _, pattern := range fileCfg.BigramDictionaryPaths {
		if _, err := engine.LoadBigramDictionary(pattern, 0, 2, ""); err != nil {
			return fmt.Errorf("load bigram dictionary %s: %w", pattern, err)
		}
		logger.Info("loaded bigram dictionary", zap.String("pattern", pattern))
	}
	return nil
}

func mergeFlags(c config.Config) config.Config {
	if len(dictionaryPaths) > 0 {
		c.DictionaryPaths = dictionaryPaths
	}
	if len(corpusPaths) > 0 {
		c.CorpusPaths = corpusPaths
	}
	if len(bigramDictionaryPaths) > 0 {
		c.BigramDictionaryPaths = bigramDictionaryPaths
	}
	if maxEditDistance != 0 {
		c.MaxEditDistance = maxEditDistance
	}
	if prefixLength != 0 {
		c.PrefixLength = prefixLength
	}
	if countThreshold != 0 {
		c.CountThreshold = countThreshold
	}
	if compactLevel != 0 {
		c.CompactLevel = compactLevel
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if devLog {
		c.Logging.Development = true
	}
	return c
}

func parseVerbosity(s string) (symspell.Verbosity, error) {
	switch strings.ToLower(s) {
	case "", "top":
		return symspell.Top, nil
	case "closest":
		return symspell.Closest, nil
	case "all":
		return symspell.All, nil
	default:
		return symspell.Top, fmt.Errorf("unknown verbosity %q (want top, closest, or all)", s)
	}
}

func createLookupCmd() *cobra.Command {
	var verbosity string
	var includeUnknown bool
	var editDistance int

	cmd := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Suggest corrections for a single word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVerbosity(verbosity)
			if err != nil {
				return err
			}
			results, err := engine.Lookup(args[0], v, editDistanceOrDefault(editDistance), includeUnknown)
			if err != nil {
				return err
			}
			printSuggestions(results)
			return nil
		},
	}
	cmd.Flags().StringVar(&verbosity, "verbosity", "top", "top, closest, or all")
	cmd.Flags().BoolVar(&includeUnknown, "include-unknown", false, "return the input itself when no suggestion is found")
	cmd.Flags().IntVar(&editDistance, "edit-distance", 0, "maximum edit distance for this lookup (default: engine's configured maximum)")
	return cmd
}

func createCompoundCmd() *cobra.Command {
	var editDistance int

	cmd := &cobra.Command{
		Use:   "compound <text...>",
		Short: "Correct a phrase, merging and splitting words as needed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := engine.LookupCompound(strings.Join(args, " "), editDistanceOrDefault(editDistance))
			if err != nil {
				return err
			}
			printSuggestions(results)
			return nil
		},
	}
	cmd.Flags().IntVar(&editDistance, "edit-distance", 0, "maximum edit distance per token (default: engine's configured maximum)")
	return cmd
}

func createSegmentCmd() *cobra.Command {
	var editDistance int
	var maxSegmentWordLength int

	cmd := &cobra.Command{
		Use:   "segment <text>",
		Short: "Insert spaces into run-together text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxSegmentWordLength <= 0 {
				maxSegmentWordLength = 11
			}
			result, err := engine.WordSegmentation(args[0], editDistanceOrDefault(editDistance), maxSegmentWordLength)
			if err != nil {
				return err
			}
			fmt.Printf("segmented: %s\n", result.Segmented)
			fmt.Printf("corrected: %s\n", result.Corrected)
			fmt.Printf("distance:  %d\n", result.DistanceSum)
			return nil
		},
	}
	cmd.Flags().IntVar(&editDistance, "edit-distance", 0, "maximum edit distance per segment (default: engine's configured maximum)")
	cmd.Flags().IntVar(&maxSegmentWordLength, "max-segment-word-length", 11, "longest word length the segmenter will consider")
	return cmd
}

func editDistanceOrDefault(requested int) int {
	if requested > 0 {
		return requested
	}
	return effectiveMaxEditDistance
}

func printSuggestions(results symspell.SuggestItems) {
	if len(results) == 0 {
		fmt.Println("(no suggestions)")
		return
	}
	for _, s := range results {
		fmt.Printf("%s\tdistance=%d\tcount=%d\n", s.Term(), s.Distance(), s.Count())
	}
}
