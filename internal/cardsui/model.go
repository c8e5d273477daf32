// Package cardsui provides the Bubble Tea card creation form.
package cardsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkandie/studybuddy/internal/model"
)

const (
	fieldSubject = iota
	fieldQuestion
	fieldAnswer
	fieldDifficulty
	fieldCount
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	formStyle  = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the interactive new-card form.
type Model struct {
	inputs     []textinput.Model
	focusIndex int
	errMsg     string

	card      model.Card
	submitted bool
	width     int
	height    int
}

// NewModel constructs the form, optionally pre-filling the subject.
func NewModel(subject string) *Model {
	m := &Model{
		inputs: []textinput.Model{
			newInput("Subject: "),
			newInput("Question: "),
			newInput("Answer: "),
			newInput("Difficulty (easy/medium/hard): "),
		},
	}
	m.inputs[fieldSubject].SetValue(subject)
	m.inputs[fieldDifficulty].SetValue(string(model.DifficultyMedium))
	return m
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// Card returns the submitted card; ok is false when the form was
// cancelled.
func (m *Model) Card() (card model.Card, ok bool) {
	return m.card, m.submitted
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.setFocus(fieldSubject)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if err := m.submit(); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m, m.setFocus(m.focusIndex + 1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.setFocus(m.focusIndex - 1)
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(idx int) tea.Cmd {
	if idx < 0 {
		idx = fieldCount - 1
	}
	if idx >= fieldCount {
		idx = 0
	}
	m.focusIndex = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focusIndex {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) submit() error {
	card, err := BuildCard(
		m.inputs[fieldSubject].Value(),
		m.inputs[fieldQuestion].Value(),
		m.inputs[fieldAnswer].Value(),
		m.inputs[fieldDifficulty].Value(),
	)
	if err != nil {
		return err
	}
	m.card = card
	return nil
}

// BuildCard validates raw form values into a card.
func BuildCard(subject, question, answer, difficulty string) (model.Card, error) {
	subject = strings.TrimSpace(strings.ToLower(subject))
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	diff := model.Difficulty(strings.TrimSpace(strings.ToLower(difficulty)))
	if subject == "" {
		return model.Card{}, fmt.Errorf("subject is required")
	}
	if question == "" {
		return model.Card{}, fmt.Errorf("question is required")
	}
	if answer == "" {
		return model.Card{}, fmt.Errorf("answer is required")
	}
	if diff == "" {
		diff = model.DifficultyMedium
	}
	if !diff.Valid() {
		return model.Card{}, fmt.Errorf("difficulty must be easy, medium, or hard")
	}
	return model.Card{
		Subject:    subject,
		Question:   question,
		Answer:     answer,
		Difficulty: diff,
	}, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New flashcard"))
	b.WriteString("\n\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab next field · enter save · esc cancel"))
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	content := formStyle.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
