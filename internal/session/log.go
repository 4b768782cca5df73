package session

import "github.com/pbardea/monkeydo/internal/model"

// Log holds at most one live keystroke per text position.
type Log struct {
	slots []model.Keystroke
	set   []bool
}

// NewLog returns an empty log for a text of n runes.
func NewLog(n int) *Log {
	return &Log{
		slots: make([]model.Keystroke, n),
		set:   make([]bool, n),
	}
}

// Len returns the number of positions, recorded or not.
func (l *Log) Len() int {
	return len(l.slots)
}

// Set overwrites the record at position i.
func (l *Log) Set(i int, k model.Keystroke) {
	l.slots[i] = k
	l.set[i] = true
}

// At returns the record at position i, if any.
func (l *Log) At(i int) (model.Keystroke, bool) {
	if i < 0 || i >= len(l.slots) || !l.set[i] {
		return model.Keystroke{}, false
	}
	return l.slots[i], true
}

// MarkCorrected flags the record at i as revisited by backspace.
// It reports whether a record existed.
func (l *Log) MarkCorrected(i int) bool {
	if i < 0 || i >= len(l.slots) || !l.set[i] {
		return false
	}
	l.slots[i].Corrected = true
	return true
}

// Count returns the number of recorded positions.
func (l *Log) Count() int {
	n := 0
	for _, ok := range l.set {
		if ok {
			n++
		}
	}
	return n
}

// Records returns the recorded keystrokes in position order.
func (l *Log) Records() []model.Keystroke {
	out := make([]model.Keystroke, 0, len(l.slots))
	for i, ok := range l.set {
		if ok {
			out = append(out, l.slots[i])
		}
	}
	return out
}

// Clone returns an independent copy.
func (l *Log) Clone() *Log {
	c := &Log{
		slots: make([]model.Keystroke, len(l.slots)),
		set:   make([]bool, len(l.set)),
	}
	copy(c.slots, l.slots)
	copy(c.set, l.set)
	return c
}
