// Package stats computes typing statistics and renders them for the terminal.
package stats

import (
	"math"
	"time"

	"github.com/pbardea/monkeydo/internal/model"
)

// DefaultInterval is the sampling step for WPMOverTime.
const DefaultInterval = time.Second

// charsPerWord is the standard word length used for WPM.
const charsPerWord = 5.0

// Calculate computes the summary statistics for a finished test. Zero start
// or end times yield zeroed rates.
func Calculate(keystrokes []model.Keystroke, start, end time.Time) model.TypingStats {
	var correct, incorrect int
	for _, k := range keystrokes {
		if k.Correct {
			correct++
		} else {
			incorrect++
		}
	}
	total := len(keystrokes)

	var elapsed float64
	if !start.IsZero() && !end.IsZero() {
		elapsed = end.Sub(start).Seconds()
	}
	minutes := elapsed / 60

	out := model.TypingStats{
		CorrectChars:   correct,
		IncorrectChars: incorrect,
		TotalChars:     total,
		TimeElapsed:    round2(elapsed),
	}
	if minutes > 0 {
		out.WPM = roundInt((float64(correct) / charsPerWord) / minutes)
		out.RawWPM = roundInt((float64(total) / charsPerWord) / minutes)
	}
	if total > 0 {
		out.Accuracy = round2(float64(correct) / float64(total) * 100)
	}
	return out
}

// WPMOverTime samples cumulative WPM at every interval boundary up to the
// last keystroke. Boundaries with no keystrokes in range are omitted.
func WPMOverTime(keystrokes []model.Keystroke, start time.Time, interval time.Duration) []model.WpmSample {
	if len(keystrokes) == 0 || start.IsZero() {
		return nil
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	last := keystrokes[len(keystrokes)-1].Timestamp

	var samples []model.WpmSample
	for boundary := start.Add(interval); !boundary.After(last); boundary = boundary.Add(interval) {
		var seen, correct int
		for _, k := range keystrokes {
			if k.Timestamp.Before(start) || k.Timestamp.After(boundary) {
				continue
			}
			seen++
			if k.Correct {
				correct++
			}
		}
		if seen == 0 {
			continue
		}
		elapsed := boundary.Sub(start)
		samples = append(samples, model.WpmSample{
			Time: elapsed.Seconds(),
			WPM:  roundInt((float64(correct) / charsPerWord) / elapsed.Minutes()),
		})
	}
	return samples
}

func roundInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
