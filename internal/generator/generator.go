// Package generator builds typing text sequences.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/pbardea/monkeydo/internal/model"
	"github.com/pbardea/monkeydo/internal/wordlist"
)

const (
	numberChance      = 0.15
	finalPeriodChance = 0.5
	punctChance       = 0.3
	maxNumberDigits   = 4
	timeWordsPerSec   = 4
)

var punctuationMarks = []rune{'.', ',', '!', '?', ';', ':'}

// excludedProperNouns are dropped from the pool when proper nouns are removed.
var excludedProperNouns = toSet(
	"january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
	"pm", "am", "uk", "us", "usa",
)

// capitalizedNouns always start with a capital letter when capitals are on.
var capitalizedNouns = toSet(
	"i", "january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
	"america", "england", "france", "germany", "spain", "italy", "japan", "china",
	"london", "paris", "chicago", "boston",
	"john", "mary", "james", "robert", "michael", "william", "david", "richard",
	"google", "apple", "microsoft", "amazon", "facebook", "twitter",
)

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// TimeModeWords is the number of words drawn for a time-limited test.
func TimeModeWords(timeLimit int) int {
	n := timeLimit * timeWordsPerSec
	if n < model.DefaultWordCount {
		return model.DefaultWordCount
	}
	return n
}

// Generate builds the text to type for cfg from pool.
func (g *Generator) Generate(cfg model.Config, pool []string) string {
	if cfg.TextMode == model.TextQuotes {
		quotes := wordlist.Quotes()
		return quotes[g.rnd.Intn(len(quotes))]
	}

	words := pool
	if cfg.RemoveProperNouns {
		words = RemoveProperNouns(pool)
	}
	if len(words) == 0 {
		return ""
	}

	count := cfg.WordCount
	if cfg.LengthMode == model.LengthTime {
		count = TimeModeWords(cfg.TimeLimit)
	}
	picked := make([]string, 0, count)
	for i := 0; i < count; i++ {
		picked = append(picked, words[g.rnd.Intn(len(words))])
	}
	text := strings.Join(picked, " ")

	if cfg.IncludeNumbers {
		text = g.addNumbers(text)
	}
	if cfg.IncludePunctuation {
		text = g.addPunctuation(text)
	}
	if cfg.IncludeCapitals {
		text = addCapitals(text)
	}
	return text
}

// RemoveProperNouns drops calendar terms and abbreviations from words.
func RemoveProperNouns(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := excludedProperNouns[strings.ToLower(w)]; ok {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (g *Generator) addNumbers(text string) string {
	words := strings.Split(text, " ")
	out := make([]string, 0, len(words)+len(words)/4)
	for i, word := range words {
		out = append(out, word)
		if i < len(words)-1 && g.rnd.Float64() < numberChance {
			digits := g.rnd.Intn(maxNumberDigits) + 1
			var b strings.Builder
			for d := 0; d < digits; d++ {
				b.WriteByte(byte('0' + g.rnd.Intn(10)))
			}
			out = append(out, b.String())
		}
	}
	return strings.Join(out, " ")
}

func (g *Generator) addPunctuation(text string) string {
	words := strings.Split(text, " ")
	for i, word := range words {
		if i == len(words)-1 && g.rnd.Float64() < finalPeriodChance {
			word += "."
		}
		if g.rnd.Float64() < punctChance {
			word += string(punctuationMarks[g.rnd.Intn(len(punctuationMarks))])
		}
		words[i] = word
	}
	return strings.Join(words, " ")
}

func addCapitals(text string) string {
	words := strings.Split(text, " ")
	out := make([]string, len(words))
	for i, word := range words {
		_, proper := capitalizedNouns[strings.ToLower(word)]
		sentenceStart := i > 0 && endsSentence(words[i-1])
		if i == 0 || sentenceStart || proper {
			out[i] = capitalize(word)
			continue
		}
		out[i] = word
	}
	return strings.Join(out, " ")
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
