package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/pbardea/monkeydo/internal/model"
)

var epoch = time.Unix(1_700_000_000, 0)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func TestCalculateFourCorrectChars(t *testing.T) {
	keys := []model.Keystroke{
		{Timestamp: at(0), Char: 't', Correct: true},
		{Timestamp: at(400), Char: 'e', Correct: true},
		{Timestamp: at(800), Char: 's', Correct: true},
		{Timestamp: at(1200), Char: 't', Correct: true},
	}
	got := Calculate(keys, at(0), at(1200))
	want := model.TypingStats{
		WPM:          40,
		RawWPM:       40,
		Accuracy:     100,
		CorrectChars: 4,
		TotalChars:   4,
		TimeElapsed:  1.2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateCountsSkippedAsIncorrect(t *testing.T) {
	keys := []model.Keystroke{
		{Timestamp: at(0), Char: 'c', Correct: true},
		{Timestamp: at(500), Char: 'a', Skipped: true},
		{Timestamp: at(500), Char: 't', Skipped: true},
		{Timestamp: at(500), Char: ' ', Correct: true},
		{Timestamp: at(3000), Char: 'x'},
		{Timestamp: at(6000), Char: 'o', Correct: true},
	}
	got := Calculate(keys, at(0), at(6000))
	assert.Equal(t, 3, got.CorrectChars)
	assert.Equal(t, 3, got.IncorrectChars)
	assert.Equal(t, got.TotalChars, got.CorrectChars+got.IncorrectChars)
	assert.Equal(t, 6, got.WPM)    // (3/5)/0.1
	assert.Equal(t, 12, got.RawWPM) // (6/5)/0.1
	assert.Equal(t, 50.0, got.Accuracy)
	assert.Equal(t, 6.0, got.TimeElapsed)
}

func TestCalculateRoundsAccuracy(t *testing.T) {
	keys := []model.Keystroke{{Correct: true}, {Correct: true}, {}}
	got := Calculate(keys, at(0), at(60000))
	assert.Equal(t, 66.67, got.Accuracy)
}

func TestCalculateGuardsZeroInputs(t *testing.T) {
	assert.Equal(t, model.TypingStats{}, Calculate(nil, at(0), at(0)))
	assert.Equal(t, model.TypingStats{}, Calculate(nil, time.Time{}, time.Time{}))

	keys := []model.Keystroke{{Correct: true}}
	got := Calculate(keys, time.Time{}, at(1000))
	assert.Zero(t, got.WPM)
	assert.Zero(t, got.RawWPM)
	assert.Zero(t, got.TimeElapsed)
	assert.Equal(t, 100.0, got.Accuracy)

	got = Calculate(keys, at(1000), at(1000))
	assert.Zero(t, got.WPM)
}

func TestWPMOverTime(t *testing.T) {
	keys := []model.Keystroke{
		{Timestamp: at(200), Correct: true},
		{Timestamp: at(400), Correct: true},
		{Timestamp: at(900), Correct: true},
		{Timestamp: at(1500), Correct: false},
		{Timestamp: at(1800), Correct: true},
		{Timestamp: at(3100), Correct: true},
	}
	got := WPMOverTime(keys, at(0), DefaultInterval)
	want := []model.WpmSample{
		{Time: 1, WPM: 36}, // (3/5)/(1/60)
		{Time: 2, WPM: 24}, // (4/5)/(2/60)
		{Time: 3, WPM: 16}, // (4/5)/(3/60)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestWPMOverTimeOmitsEmptyBoundaries(t *testing.T) {
	keys := []model.Keystroke{
		{Timestamp: at(2500), Correct: true},
		{Timestamp: at(3000), Correct: true},
	}
	got := WPMOverTime(keys, at(0), DefaultInterval)
	want := []model.WpmSample{
		{Time: 3, WPM: 8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestWPMOverTimeUsesLastRecordAsEnd(t *testing.T) {
	// The final record, not the latest timestamp, bounds the series.
	keys := []model.Keystroke{
		{Timestamp: at(4500), Correct: true},
		{Timestamp: at(800), Correct: true},
		{Timestamp: at(1200), Correct: true},
	}
	got := WPMOverTime(keys, at(0), DefaultInterval)
	want := []model.WpmSample{{Time: 1, WPM: 12}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestWPMOverTimeEmpty(t *testing.T) {
	assert.Empty(t, WPMOverTime(nil, at(0), DefaultInterval))
	assert.Empty(t, WPMOverTime([]model.Keystroke{{Timestamp: at(100)}}, at(0), DefaultInterval))
}
