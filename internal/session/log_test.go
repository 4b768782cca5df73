package session

import (
	"testing"

	"github.com/pbardea/monkeydo/internal/model"
)

func TestLogOverwriteKeepsOnePerPosition(t *testing.T) {
	l := NewLog(3)
	l.Set(1, model.Keystroke{Char: 'x'})
	l.Set(1, model.Keystroke{Char: 'y', Correct: true})
	if l.Count() != 1 {
		t.Fatalf("expected 1 record, got %d", l.Count())
	}
	k, ok := l.At(1)
	if !ok || k.Char != 'y' || !k.Correct {
		t.Fatalf("unexpected record %+v", k)
	}
}

func TestLogMarkCorrected(t *testing.T) {
	l := NewLog(2)
	if l.MarkCorrected(0) {
		t.Fatalf("expected no record at 0")
	}
	if l.MarkCorrected(5) {
		t.Fatalf("expected out of range to be ignored")
	}
	l.Set(0, model.Keystroke{Char: 'a'})
	if !l.MarkCorrected(0) {
		t.Fatalf("expected record at 0")
	}
	if k, _ := l.At(0); !k.Corrected {
		t.Fatalf("expected corrected flag")
	}
}

func TestLogRecordsInPositionOrder(t *testing.T) {
	l := NewLog(4)
	l.Set(3, model.Keystroke{Char: 'd'})
	l.Set(0, model.Keystroke{Char: 'a'})
	l.Set(2, model.Keystroke{Char: 'c'})
	got := l.Records()
	want := []rune{'a', 'c', 'd'}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Char != want[i] {
			t.Fatalf("expected %q at %d, got %q", want[i], i, got[i].Char)
		}
	}
}

func TestLogCloneIsIndependent(t *testing.T) {
	l := NewLog(2)
	l.Set(0, model.Keystroke{Char: 'a'})
	c := l.Clone()
	l.Set(1, model.Keystroke{Char: 'b'})
	l.MarkCorrected(0)
	if c.Count() != 1 {
		t.Fatalf("expected clone to keep 1 record, got %d", c.Count())
	}
	if k, _ := c.At(0); k.Corrected {
		t.Fatalf("expected clone unaffected by later edits")
	}
}
