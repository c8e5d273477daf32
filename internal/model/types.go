// Package model defines shared data structures.
package model

import "time"

// Difficulty classifies how hard a card is to answer.
type Difficulty string

// Difficulty values.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the known values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Card is a single question/answer unit. Immutable once created.
type Card struct {
	ID            int64
	Question      string
	Answer        string
	Subject       string
	Difficulty    Difficulty
	TimesReviewed int
	LastReviewed  *time.Time
	CreatedAt     time.Time
}

// UserProgress is the persistent gamification state for a profile.
// Level is always derived from Experience and never stored on its own.
type UserProgress struct {
	Level      int
	Experience int
	StreakDays int
}

// SessionRecord captures a completed study session for persistence.
type SessionRecord struct {
	Profile         string
	Subject         string
	StartedAt       time.Time
	EndedAt         time.Time
	CardsStudied    int
	CorrectCount    int
	DurationSeconds int
	XPEarned        int
}

// XPEntry is one experience award in the log.
type XPEntry struct {
	Amount    int
	Reason    string
	CreatedAt time.Time
}

// Todo is one task on the todo list.
type Todo struct {
	ID        int64
	Title     string
	Note      string
	DueDate   string
	Priority  string
	Subject   string
	Completed bool
	CreatedAt time.Time
}

// TimetableEntry is one block on the weekly study timetable.
type TimetableEntry struct {
	ID        int64
	Subject   string
	Day       string
	StartTime string
	EndTime   string
}

// SubjectCount aggregates cards per subject for reporting.
type SubjectCount struct {
	Subject string
	Count   int
}

// StudyConfig defines study session settings.
type StudyConfig struct {
	Subject string
	ShowXP  bool
	Profile string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}
