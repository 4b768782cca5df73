package generator

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbardea/monkeydo/internal/model"
	"github.com/pbardea/monkeydo/internal/wordlist"
)

var testPool = []string{"alpha", "beta", "gamma", "delta", "may", "monday", "us", "john", "i"}

func newTestGenerator(seed int64) *Generator {
	return NewWithSource(rand.NewSource(seed))
}

func TestGenerateWordsPlain(t *testing.T) {
	g := newTestGenerator(1)
	cfg := model.DefaultConfig()
	for i := 0; i < 50; i++ {
		text := g.Generate(cfg, testPool)
		words := strings.Split(text, " ")
		require.Len(t, words, cfg.WordCount)
		for _, w := range words {
			assert.Contains(t, testPool, w)
		}
	}
}

func TestGenerateRemoveProperNouns(t *testing.T) {
	g := newTestGenerator(2)
	cfg := model.DefaultConfig()
	cfg.WordCount = 200
	cfg.RemoveProperNouns = true
	text := g.Generate(cfg, append(testPool, "January", "USA"))
	for _, w := range strings.Split(text, " ") {
		_, excluded := excludedProperNouns[strings.ToLower(w)]
		assert.False(t, excluded, "unexpected excluded word %q", w)
	}
}

func TestRemoveProperNounsIsCaseInsensitive(t *testing.T) {
	got := RemoveProperNouns([]string{"Monday", "DEC", "tree", "pm"})
	assert.Equal(t, []string{"tree"}, got)
}

func TestGenerateQuote(t *testing.T) {
	g := newTestGenerator(3)
	cfg := model.DefaultConfig()
	cfg.TextMode = model.TextQuotes
	cfg.IncludeCapitals = true
	cfg.IncludeNumbers = true
	text := g.Generate(cfg, nil)
	assert.Contains(t, wordlist.Quotes(), text)
}

func TestGenerateQuoteDeterministicForSeed(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.TextMode = model.TextQuotes
	a := newTestGenerator(42).Generate(cfg, nil)
	b := newTestGenerator(42).Generate(cfg, nil)
	assert.Equal(t, a, b)
}

func TestGenerateEmptyPool(t *testing.T) {
	assert.Equal(t, "", newTestGenerator(4).Generate(model.DefaultConfig(), nil))
}

func TestGenerateNumbersInsertsStandaloneTokens(t *testing.T) {
	g := newTestGenerator(5)
	cfg := model.DefaultConfig()
	cfg.WordCount = 400
	cfg.IncludeNumbers = true
	words := strings.Split(g.Generate(cfg, []string{"word"}), " ")

	digits := regexp.MustCompile(`^[0-9]{1,4}$`)
	numbers := 0
	for i, w := range words {
		if w == "word" {
			continue
		}
		require.Regexp(t, digits, w)
		assert.NotZero(t, i, "number cannot lead the text")
		assert.NotEqual(t, len(words)-1, i, "number cannot trail the text")
		numbers++
	}
	assert.Equal(t, cfg.WordCount, len(words)-numbers)
	// 399 gaps at 0.15 is about 60; keep the bounds loose.
	assert.Greater(t, numbers, 20)
	assert.Less(t, numbers, 120)
}

func TestGeneratePunctuationMarks(t *testing.T) {
	g := newTestGenerator(6)
	cfg := model.DefaultConfig()
	cfg.WordCount = 300
	cfg.IncludePunctuation = true
	words := strings.Split(g.Generate(cfg, []string{"word"}), " ")
	require.Len(t, words, cfg.WordCount)

	shape := regexp.MustCompile(`^word\.?[.,!?;:]?$`)
	marked := 0
	for i, w := range words {
		require.Regexp(t, shape, w)
		if i < len(words)-1 {
			assert.LessOrEqual(t, len(w), len("word")+1, "only the final word may carry two marks")
		}
		if w != "word" {
			marked++
		}
	}
	assert.Greater(t, marked, 40)
	assert.Less(t, marked, 150)
}

func TestGenerateCapitals(t *testing.T) {
	g := newTestGenerator(7)
	cfg := model.DefaultConfig()
	cfg.WordCount = 200
	cfg.IncludeCapitals = true
	cfg.IncludePunctuation = true
	words := strings.Split(g.Generate(cfg, []string{"word", "john", "i"}), " ")

	assert.True(t, startsUpper(words[0]), "first word must be capitalized")
	for i := 1; i < len(words); i++ {
		lower := strings.ToLower(words[i])
		switch {
		case endsSentence(words[i-1]), lower == "john", lower == "i":
			assert.True(t, startsUpper(words[i]), "expected capital at %d: %q", i, words[i])
		default:
			assert.False(t, startsUpper(words[i]), "unexpected capital at %d: %q", i, words[i])
		}
	}
}

func TestAddCapitalsKeepsCase(t *testing.T) {
	assert.Equal(t, "Hello WORLD. Foo bar? Baz", addCapitals("hello WORLD. foo bar? baz"))
}

func TestGenerateTimeModeWordCount(t *testing.T) {
	g := newTestGenerator(8)
	cfg := model.DefaultConfig()
	cfg.LengthMode = model.LengthTime
	cfg.TimeLimit = 60
	words := strings.Split(g.Generate(cfg, testPool), " ")
	assert.Len(t, words, TimeModeWords(60))
	assert.Equal(t, 240, TimeModeWords(60))
	assert.Equal(t, model.DefaultWordCount, TimeModeWords(5))
}

func startsUpper(w string) bool {
	return w != "" && strings.ToUpper(w[:1]) == w[:1] && strings.ToLower(w[:1]) != w[:1]
}
