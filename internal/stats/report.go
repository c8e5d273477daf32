package stats

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/mkandie/studybuddy/internal/model"
)

const (
	fallbackWidth      = 80
	milestoneThreshold = 15
)

// TerminalWidth probes stdout for its width, falling back to 80 columns
// when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// RenderSummary prints the profile header and session totals.
func RenderSummary(w io.Writer, profile string, progress model.UserProgress, totals Totals) error {
	if _, err := fmt.Fprintf(w, "Profile: %s\n", profile); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Level %d · %d XP · %d day streak\n\n", progress.Level, progress.Experience, progress.StreakDays); err != nil {
		return err
	}
	if totals.Sessions == 0 {
		_, err := fmt.Fprintln(w, "No study sessions yet.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", totals.Sessions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Cards studied: %d\n", totals.CardsStudied); err != nil {
		return err
	}
	avg := Accuracy(totals.CorrectCount, totals.CardsStudied)
	if _, err := fmt.Fprintf(w, "Avg accuracy: %.1f%%\n", avg*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best accuracy: %.1f%%\n", totals.BestAccuracy*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Study time: %s\n", formatDuration(totals.StudySeconds)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "XP from sessions: %d\n", totals.XPEarned); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSubjects prints per-subject card counts, flagging milestone
// subjects (15+ cards).
func RenderSubjects(w io.Writer, counts []model.SubjectCount, reviewedToday int, mostReviewed string) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "No flashcards yet. Create some with: studybuddy cards add")
		return err
	}
	if _, err := fmt.Fprintln(w, "Cards by subject"); err != nil {
		return err
	}
	for _, sc := range counts {
		marker := ""
		if sc.Count >= milestoneThreshold {
			marker = "  ★ milestone"
		}
		if _, err := fmt.Fprintf(w, "  %-12s %3d%s\n", sc.Subject, sc.Count, marker); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Reviewed today: %d\n", reviewedToday); err != nil {
		return err
	}
	if mostReviewed != "" {
		if _, err := fmt.Fprintf(w, "Most reviewed subject: %s\n", mostReviewed); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderAccuracyCurve prints a moving-average accuracy sparkline across
// sessions, sized to the given width.
func RenderAccuracyCurve(w io.Writer, sessions []model.SessionRecord, window, width int) error {
	if len(sessions) < 2 {
		return nil
	}
	values := MovingAverage(AccuracySeries(sessions), window)
	if width < 10 {
		width = 10
	}
	if len(values) > width {
		values = downsample(values, width)
	}
	if _, err := fmt.Fprintf(w, "Accuracy trend (%d sessions, window %d)\n", len(sessions), window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %s\n\n", Sparkline(values)); err != nil {
		return err
	}
	return nil
}

// RenderXPLog prints the most recent experience awards.
func RenderXPLog(w io.Writer, entries []model.XPEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Recent XP"); err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "  %s  +%-4d %s\n", entry.CreatedAt.Format("Jan 02 15:04"), entry.Amount, entry.Reason); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// downsample shrinks the series to at most width points by bucket means.
func downsample(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func formatDuration(seconds int) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", seconds)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), seconds%60)
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}
