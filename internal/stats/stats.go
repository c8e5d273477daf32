// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/mkandie/studybuddy/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Accuracy returns the fraction of correct answers for a session, 0..1.
func Accuracy(correct, studied int) float64 {
	if studied <= 0 {
		return 0
	}
	return float64(correct) / float64(studied)
}

// Totals aggregates a set of sessions for reporting.
type Totals struct {
	Sessions     int
	CardsStudied int
	CorrectCount int
	StudySeconds int
	XPEarned     int
	BestAccuracy float64
}

// Aggregate sums the session records into report totals.
func Aggregate(sessions []model.SessionRecord) Totals {
	var t Totals
	for _, s := range sessions {
		t.Sessions++
		t.CardsStudied += s.CardsStudied
		t.CorrectCount += s.CorrectCount
		t.StudySeconds += s.DurationSeconds
		t.XPEarned += s.XPEarned
		if acc := Accuracy(s.CorrectCount, s.CardsStudied); acc > t.BestAccuracy {
			t.BestAccuracy = acc
		}
	}
	return t
}

// AccuracySeries extracts per-session accuracy percentages in order.
func AccuracySeries(sessions []model.SessionRecord) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		out[i] = Accuracy(s.CorrectCount, s.CardsStudied) * 100
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Milestones returns the subjects with at least threshold cards created.
func Milestones(counts []model.SubjectCount, threshold int) []string {
	var out []string
	for _, sc := range counts {
		if sc.Count >= threshold {
			out = append(out, sc.Subject)
		}
	}
	return out
}
