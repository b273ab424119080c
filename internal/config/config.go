// Package config loads the YAML construction parameters for a SymSpell
// instance: the dictionary edit distance bound, prefix length, count
// threshold, compact level, and the paths to the dictionary/bigram/corpus
// files to load at startup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the arguments to symspell.NewSymSpell plus the input
// sources the CLI loads on startup. Zero values are replaced by
// WithDefaults with the package's documented defaults.
type Config struct {
	InitialCapacity    int     `yaml:"initialCapacity"`
	MaxEditDistance    int     `yaml:"maxEditDistance"`
	PrefixLength       int     `yaml:"prefixLength"`
	CountThreshold     int64   `yaml:"countThreshold"`
	CompactLevel       uint8   `yaml:"compactLevel"`
	CorpusN            float64 `yaml:"corpusN"`

	// DictionaryPaths are word/frequency files or doublestar globs loaded
	// with symspell.LoadDictionary (termIndex 0, countIndex 1, whitespace
	// separated).
	DictionaryPaths []string `yaml:"dictionaries"`
	// CorpusPaths are plain-text files or globs tokenized with
	// symspell.CreateDictionary.
	CorpusPaths []string `yaml:"corpora"`
	// BigramDictionaryPaths are two-word/frequency files loaded with
	// symspell.LoadBigramDictionary.
	BigramDictionaryPaths []string `yaml:"bigramDictionaries"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the applog zap wrapper.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string `yaml:"level"`
	// Development enables human-friendly console output instead of JSON.
	Development bool `yaml:"development"`
}

// DefaultConfig returns the teacher's historical construction defaults:
// maxEditDistance=2, prefixLength=7, countThreshold=1, initialCapacity=16,
// compactLevel=5, and the reference corpus's N.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: 16,
		MaxEditDistance: 2,
		PrefixLength:    7,
		CountThreshold:  1,
		CompactLevel:    5,
		CorpusN:         1024908267229.0,
		Logging:         LoggingConfig{Level: "info"},
	}
}

// WithDefaults returns a copy of c with zero-valued fields replaced by
// DefaultConfig's values, leaving every explicitly-set field untouched.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.InitialCapacity == 0 {
		c.InitialCapacity = d.InitialCapacity
	}
	if c.MaxEditDistance == 0 {
		c.MaxEditDistance = d.MaxEditDistance
	}
	if c.PrefixLength == 0 {
		c.PrefixLength = d.PrefixLength
	}
	if c.CountThreshold == 0 {
		c.CountThreshold = d.CountThreshold
	}
	if c.CompactLevel == 0 {
		c.CompactLevel = d.CompactLevel
	}
	if c.CorpusN == 0 {
		c.CorpusN = d.CorpusN
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	return c
}

// Load reads and parses a YAML config file. A missing path is not an
// error: an empty Config (to be filled in by WithDefaults and flags) is
// returned instead, since every field also has a command-line override.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}
