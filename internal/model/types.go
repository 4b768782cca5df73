// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// LengthMode selects whether a test is bounded by words or by time.
type LengthMode string

// Length modes.
const (
	LengthWords LengthMode = "words"
	LengthTime  LengthMode = "time"
)

// TextMode selects generated words or a verbatim quote.
type TextMode string

// Text modes.
const (
	TextWords  TextMode = "words"
	TextQuotes TextMode = "quotes"
)

// DefaultWordCount is the baseline number of words per test.
const DefaultWordCount = 25

// Config defines practice settings.
type Config struct {
	WordCount          int        `json:"wordCount"`
	TimeLimit          int        `json:"timeLimit,omitempty"`
	LengthMode         LengthMode `json:"lengthMode"`
	TextMode           TextMode   `json:"textMode"`
	IncludeNumbers     bool       `json:"includeNumbers"`
	IncludePunctuation bool       `json:"includePunctuation"`
	IncludeCapitals    bool       `json:"includeCapitals"`
	RemoveProperNouns  bool       `json:"removeProperNouns"`
	ExpandedWordList   bool       `json:"expandedWordList"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		WordCount:  DefaultWordCount,
		LengthMode: LengthWords,
		TextMode:   TextWords,
	}
}

// Timed reports whether the test ends on a time limit.
func (c Config) Timed() bool {
	return c.LengthMode == LengthTime && c.TimeLimit > 0
}

// TimeLimitDuration returns the configured time limit, or zero when untimed.
func (c Config) TimeLimitDuration() time.Duration {
	if !c.Timed() {
		return 0
	}
	return time.Duration(c.TimeLimit) * time.Second
}

// Validate checks the configuration for values the core cannot use.
func (c Config) Validate() error {
	if c.TimeLimit < 0 {
		return fmt.Errorf("time limit must be >= 0")
	}
	switch c.LengthMode {
	case LengthWords:
		if c.WordCount <= 0 {
			return fmt.Errorf("word count must be > 0")
		}
	case LengthTime:
		if c.TimeLimit <= 0 {
			return fmt.Errorf("time limit must be > 0 in time mode")
		}
	default:
		return fmt.Errorf("unknown length mode %q", c.LengthMode)
	}
	switch c.TextMode {
	case TextWords, TextQuotes:
	default:
		return fmt.Errorf("unknown text mode %q", c.TextMode)
	}
	return nil
}

// PartialConfig carries optional overrides merged on top of a Config.
type PartialConfig struct {
	WordCount          *int        `json:"wordCount,omitempty" toml:"words"`
	TimeLimit          *int        `json:"timeLimit,omitempty" toml:"time"`
	LengthMode         *LengthMode `json:"lengthMode,omitempty" toml:"length-mode"`
	TextMode           *TextMode   `json:"textMode,omitempty" toml:"text-mode"`
	IncludeNumbers     *bool       `json:"includeNumbers,omitempty" toml:"numbers"`
	IncludePunctuation *bool       `json:"includePunctuation,omitempty" toml:"punctuation"`
	IncludeCapitals    *bool       `json:"includeCapitals,omitempty" toml:"capitals"`
	RemoveProperNouns  *bool       `json:"removeProperNouns,omitempty" toml:"remove-proper-nouns"`
	ExpandedWordList   *bool       `json:"expandedWordList,omitempty" toml:"expanded"`
}

// Apply merges the set fields of p over base.
func (p PartialConfig) Apply(base Config) Config {
	if p.WordCount != nil {
		base.WordCount = *p.WordCount
	}
	if p.TimeLimit != nil {
		base.TimeLimit = *p.TimeLimit
	}
	if p.LengthMode != nil {
		base.LengthMode = *p.LengthMode
	}
	if p.TextMode != nil {
		base.TextMode = *p.TextMode
	}
	if p.IncludeNumbers != nil {
		base.IncludeNumbers = *p.IncludeNumbers
	}
	if p.IncludePunctuation != nil {
		base.IncludePunctuation = *p.IncludePunctuation
	}
	if p.IncludeCapitals != nil {
		base.IncludeCapitals = *p.IncludeCapitals
	}
	if p.RemoveProperNouns != nil {
		base.RemoveProperNouns = *p.RemoveProperNouns
	}
	if p.ExpandedWordList != nil {
		base.ExpandedWordList = *p.ExpandedWordList
	}
	return base
}

// Keystroke records the live entry for one character position.
type Keystroke struct {
	Timestamp time.Time
	Char      rune
	Correct   bool
	Corrected bool
	Skipped   bool
}

// TypingStats summarizes a completed test.
type TypingStats struct {
	WPM            int
	RawWPM         int
	Accuracy       float64
	CorrectChars   int
	IncorrectChars int
	TotalChars     int
	TimeElapsed    float64
}

// WpmSample is one point of the WPM-over-time series.
type WpmSample struct {
	Time float64
	WPM  int
}
