package wordlist

var quotes = []string{
	"The quick brown fox jumps over the lazy dog.",
	"To be or not to be, that is the question.",
	"In the beginning was the Word, and the Word was with God.",
	"It was the best of times, it was the worst of times.",
	"Call me Ishmael. Some years ago, never mind how long precisely, having little or no money in my purse.",
	"It is a truth universally acknowledged, that a single man in possession of a good fortune, must be in want of a wife.",
	"All happy families are alike; each unhappy family is unhappy in its own way.",
	"The sun was shining on the sea, shining with all his might.",
	"Once upon a time in a galaxy far, far away.",
	"The only way out of the labyrinth of suffering is to forgive.",
}

// Quotes returns the curated quote set.
func Quotes() []string {
	out := make([]string, len(quotes))
	copy(out, quotes)
	return out
}
