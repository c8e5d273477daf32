package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkandie/studybuddy/internal/engine"
	"github.com/mkandie/studybuddy/internal/model"
	"github.com/mkandie/studybuddy/internal/store"
)

// tickMsg drives the once-per-second elapsed display. Display only; the
// engine computes durations from clock deltas, not ticks.
type tickMsg time.Time

const maxToasts = 3

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	toastStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BC86C"))
	pausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	summaryStyle  = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
)

// Model implements the Bubble Tea study session UI. It drives the engine
// from key events and mirrors engine notifications for display.
type Model struct {
	cfg   model.StudyConfig
	store *store.Store
	eng   *engine.Engine
	deck  []model.Card

	card     model.Card
	position int
	total    int
	revealed bool

	toasts  []string
	awards  []model.XPEntry
	summary *engine.Summary
	streak  int

	width  int
	height int

	startErr error
}

// NewModel constructs a study session model. The session starts on Init.
func NewModel(cfg model.StudyConfig, st *store.Store, eng *engine.Engine, deck []model.Card) *Model {
	m := &Model{
		cfg:   cfg,
		store: st,
		eng:   eng,
		deck:  deck,
	}
	eng.SetEvents(m)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if err := m.eng.Start(m.deck, m.cfg.Subject); err != nil {
		m.startErr = err
		return tea.Quit
	}
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// StartErr reports a session start failure, checked by the caller after
// the program exits.
func (m *Model) StartErr() error { return m.startErr }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.eng.Status() == engine.StatusIdle {
			return m, nil
		}
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.summary != nil {
		return m, tea.Quit
	}
	switch msg.String() {
	case "ctrl+c", "q":
		// Ending early still stops the timer and produces a summary.
		if err := m.eng.End(); err != nil {
			return m, tea.Quit
		}
		return m, nil
	case "p":
		switch m.eng.Status() {
		case engine.StatusActive:
			_ = m.eng.Pause()
		case engine.StatusPaused:
			_ = m.eng.Resume()
			return m, tick()
		}
		return m, nil
	case "enter", " ":
		if _, err := m.eng.RevealAnswer(); err == nil {
			m.revealed = true
		}
		return m, nil
	case "y", "right":
		m.answer(true)
		return m, nil
	case "n", "left":
		m.answer(false)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) answer(correct bool) {
	if m.eng.Status() != engine.StatusActive {
		return
	}
	answered := m.card
	if err := m.eng.Answer(correct); err != nil {
		return
	}
	if answered.ID != 0 {
		ctx := context.Background()
		if err := m.store.MarkReviewed(ctx, m.cfg.Profile, answered.ID, time.Now()); err != nil {
			logErrf("failed to mark card reviewed: %v\n", err)
		}
	}
}

// CardChanged implements engine.Events.
func (m *Model) CardChanged(card model.Card, position, total int) {
	m.card = card
	m.position = position
	m.total = total
	m.revealed = false
}

// XPAwarded implements engine.Events.
func (m *Model) XPAwarded(amount int, reason string) {
	m.awards = append(m.awards, model.XPEntry{Amount: amount, Reason: reason, CreatedAt: time.Now()})
	if m.cfg.ShowXP {
		m.pushToast(fmt.Sprintf("+%d XP · %s", amount, reason))
	}
}

// LeveledUp implements engine.Events.
func (m *Model) LeveledUp(newLevel int) {
	m.pushToast(fmt.Sprintf("Level up! You reached level %d", newLevel))
}

// SessionEnded implements engine.Events.
func (m *Model) SessionEnded(summary engine.Summary) {
	m.summary = &summary
	m.persist(summary)
}

func (m *Model) pushToast(text string) {
	m.toasts = append(m.toasts, text)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}

// persist writes the finished session, the XP log, the progress row, and
// the study-day streak. Failures are logged, never fatal.
func (m *Model) persist(summary engine.Summary) {
	ctx := context.Background()
	if summary.CardsStudied > 0 {
		if _, err := m.store.InsertSession(ctx, model.SessionRecord{
			Profile:         m.cfg.Profile,
			Subject:         summary.Subject,
			StartedAt:       summary.StartedAt,
			EndedAt:         summary.EndedAt,
			CardsStudied:    summary.CardsStudied,
			CorrectCount:    summary.CorrectCount,
			DurationSeconds: summary.DurationSeconds,
			XPEarned:        summary.XPEarned,
		}); err != nil {
			logErrf("failed to save session: %v\n", err)
		}
		streak, err := m.store.TouchStudyDay(ctx, m.cfg.Profile, summary.EndedAt, summary.CardsStudied)
		if err != nil {
			logErrf("failed to update streak: %v\n", err)
		} else {
			m.streak = streak
		}
	}
	for _, award := range m.awards {
		if err := m.store.AppendXP(ctx, m.cfg.Profile, award.Amount, award.Reason, award.CreatedAt); err != nil {
			logErrf("failed to log XP: %v\n", err)
		}
	}
	progress := m.eng.Progress()
	progress.StreakDays = m.streak
	if err := m.store.SaveProgress(ctx, m.cfg.Profile, progress); err != nil {
		logErrf("failed to save progress: %v\n", err)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.summary != nil {
		return m.summaryView()
	}
	if m.total == 0 {
		return ""
	}
	contentWidth := 60
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.70)
		if contentWidth < 20 {
			contentWidth = 20
		}
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n\n")
	b.WriteString(questionStyle.Render(wrapText(m.card.Question, contentWidth)))
	b.WriteString("\n\n")
	if m.revealed {
		b.WriteString(answerStyle.Render(wrapText(m.card.Answer, contentWidth)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("y/→ correct · n/← wrong · p pause · q end"))
	} else {
		b.WriteString(promptStyle.Render("enter/space reveal · p pause · q end"))
	}
	if m.eng.Status() == engine.StatusPaused {
		b.WriteString("\n\n")
		b.WriteString(pausedStyle.Render("PAUSED"))
	}
	for _, toast := range m.toasts {
		b.WriteString("\n")
		b.WriteString(toastStyle.Render(toast))
	}

	content := b.String()
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) headerLine() string {
	progress := m.eng.Progress()
	elapsed := int(m.eng.Elapsed() / time.Second)
	segments := []string{
		fmt.Sprintf("Card %d/%d", m.position+1, m.total),
		fmt.Sprintf("%02d:%02d", elapsed/60, elapsed%60),
		fmt.Sprintf("Level %d · %d XP", progress.Level, progress.Experience),
	}
	if m.card.Subject != "" {
		segments = append([]string{m.card.Subject}, segments...)
	}
	return headerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) summaryView() string {
	s := m.summary
	lines := []string{
		"Session complete!",
		"",
		fmt.Sprintf("Cards studied: %d", s.CardsStudied),
		fmt.Sprintf("Accuracy: %d%%", s.AccuracyPercent),
		fmt.Sprintf("Duration: %02d:%02d", s.DurationSeconds/60, s.DurationSeconds%60),
		fmt.Sprintf("XP earned: %d (bonus %d)", s.XPEarned, s.BonusXP),
	}
	if m.streak > 0 {
		lines = append(lines, fmt.Sprintf("Study streak: %d day(s)", m.streak))
	}
	lines = append(lines, "", "Press any key to exit")
	content := summaryStyle.Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
