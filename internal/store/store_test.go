package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkandie/studybuddy/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "studybuddy.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func TestCardRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.InsertCard(ctx, "alice", model.Card{
		Question:   "What is the capital of France?",
		Answer:     "Paris",
		Subject:    "geography",
		Difficulty: model.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("insert card: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected a non-zero card id")
	}

	cards, err := st.ListCards(ctx, "alice", "")
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	card := cards[0]
	if card.Question != "What is the capital of France?" || card.Difficulty != model.DifficultyEasy {
		t.Fatalf("unexpected card: %+v", card)
	}
	if card.TimesReviewed != 0 || card.LastReviewed != nil {
		t.Fatalf("new card must be unreviewed: %+v", card)
	}

	// Other profiles and subjects don't see it.
	if cards, _ := st.ListCards(ctx, "bob", ""); len(cards) != 0 {
		t.Fatalf("bob must have no cards, got %d", len(cards))
	}
	if cards, _ := st.ListCards(ctx, "alice", "math"); len(cards) != 0 {
		t.Fatalf("subject filter must exclude the card, got %d", len(cards))
	}
}

func TestMarkReviewed(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id, err := st.InsertCard(ctx, "alice", model.Card{Question: "q", Answer: "a", Subject: "math", Difficulty: model.DifficultyMedium})
	if err != nil {
		t.Fatalf("insert card: %v", err)
	}
	now := time.Now()
	if err := st.MarkReviewed(ctx, "alice", id, now); err != nil {
		t.Fatalf("mark reviewed: %v", err)
	}
	if err := st.MarkReviewed(ctx, "alice", id, now.Add(time.Minute)); err != nil {
		t.Fatalf("mark reviewed again: %v", err)
	}
	cards, err := st.ListCards(ctx, "alice", "")
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	if cards[0].TimesReviewed != 2 {
		t.Fatalf("times reviewed = %d, want 2", cards[0].TimesReviewed)
	}
	if cards[0].LastReviewed == nil {
		t.Fatalf("last reviewed must be set")
	}

	reviewed, err := st.ReviewedToday(ctx, "alice", now)
	if err != nil {
		t.Fatalf("reviewed today: %v", err)
	}
	if reviewed != 1 {
		t.Fatalf("reviewed today = %d, want 1", reviewed)
	}

	subject, err := st.MostReviewedSubject(ctx, "alice")
	if err != nil {
		t.Fatalf("most reviewed: %v", err)
	}
	if subject != "math" {
		t.Fatalf("most reviewed subject = %q, want math", subject)
	}
}

func TestDeleteCardNotFound(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.DeleteCard(ctx, "alice", 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionsAndFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := st.InsertSession(ctx, model.SessionRecord{
			Profile:         "alice",
			Subject:         "math",
			StartedAt:       base.AddDate(0, 0, i),
			EndedAt:         base.AddDate(0, 0, i).Add(10 * time.Minute),
			CardsStudied:    4,
			CorrectCount:    3,
			DurationSeconds: 600,
			XPEarned:        20,
		})
		if err != nil {
			t.Fatalf("insert session %d: %v", i, err)
		}
	}

	sessions, err := st.ListSessions(ctx, "alice", model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	if !sessions[0].EndedAt.Before(sessions[2].EndedAt) {
		t.Fatalf("sessions must be chronological")
	}

	since := base.AddDate(0, 0, 1)
	sessions, err = st.ListSessions(ctx, "alice", model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("since filter: expected 2 sessions, got %d", len(sessions))
	}

	sessions, err = st.ListSessions(ctx, "alice", model.StatsConfig{Last: 1})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(sessions) != 1 || !sessions[0].EndedAt.Equal(base.AddDate(0, 0, 2).Add(10*time.Minute)) {
		t.Fatalf("last filter must keep the newest session, got %+v", sessions)
	}
}

func TestProgressRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	p, err := st.LoadProgress(ctx, "alice")
	if err != nil {
		t.Fatalf("load fresh progress: %v", err)
	}
	if p.Experience != 0 || p.Level != 1 {
		t.Fatalf("fresh progress = %+v, want 0 XP level 1", p)
	}

	p.Experience = 250
	p.StreakDays = 4
	if err := st.SaveProgress(ctx, "alice", p); err != nil {
		t.Fatalf("save progress: %v", err)
	}
	p, err = st.LoadProgress(ctx, "alice")
	if err != nil {
		t.Fatalf("reload progress: %v", err)
	}
	if p.Experience != 250 || p.StreakDays != 4 {
		t.Fatalf("unexpected progress: %+v", p)
	}
	if p.Level != 3 {
		t.Fatalf("level must be derived from XP: got %d, want 3", p.Level)
	}
}

func TestStudyDayStreak(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	day1 := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	streak, err := st.TouchStudyDay(ctx, "alice", day1, 3)
	if err != nil {
		t.Fatalf("touch day 1: %v", err)
	}
	if streak != 1 {
		t.Fatalf("first day streak = %d, want 1", streak)
	}

	// Same day again: streak unchanged.
	streak, err = st.TouchStudyDay(ctx, "alice", day1.Add(time.Hour), 2)
	if err != nil {
		t.Fatalf("touch day 1 again: %v", err)
	}
	if streak != 1 {
		t.Fatalf("same-day streak = %d, want 1", streak)
	}

	// Next day continues the streak.
	streak, err = st.TouchStudyDay(ctx, "alice", day1.AddDate(0, 0, 1), 1)
	if err != nil {
		t.Fatalf("touch day 2: %v", err)
	}
	if streak != 2 {
		t.Fatalf("day 2 streak = %d, want 2", streak)
	}

	// A gap resets to 1.
	streak, err = st.TouchStudyDay(ctx, "alice", day1.AddDate(0, 0, 5), 1)
	if err != nil {
		t.Fatalf("touch after gap: %v", err)
	}
	if streak != 1 {
		t.Fatalf("post-gap streak = %d, want 1", streak)
	}
}

func TestXPLog(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	for i, award := range []struct {
		amount int
		reason string
	}{{3, "Correct answer!"}, {8, "Correct answer!"}, {12, "Session complete!"}} {
		if err := st.AppendXP(ctx, "alice", award.amount, award.reason, now.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("append xp %d: %v", i, err)
		}
	}
	entries, err := st.ListXPLog(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("list xp log: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Reason != "Session complete!" {
		t.Fatalf("newest entry first, got %q", entries[0].Reason)
	}
}

func TestTodosLifecycle(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id, err := st.InsertTodo(ctx, "alice", model.Todo{Title: "Revise algebra", DueDate: "2024-05-10", Priority: "high", Subject: "math"})
	if err != nil {
		t.Fatalf("insert todo: %v", err)
	}
	if err := st.SetTodoCompleted(ctx, "alice", id, true); err != nil {
		t.Fatalf("complete todo: %v", err)
	}
	todos, err := st.ListTodos(ctx, "alice")
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if len(todos) != 1 || !todos[0].Completed {
		t.Fatalf("unexpected todos: %+v", todos)
	}
	if err := st.SetTodoCompleted(ctx, "alice", 999, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.DeleteTodo(ctx, "alice", id); err != nil {
		t.Fatalf("delete todo: %v", err)
	}
	if err := st.DeleteTodo(ctx, "alice", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestTimetableWeekdayOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	entries := []model.TimetableEntry{
		{Subject: "spanish", Day: "Friday", StartTime: "09:00", EndTime: "10:00"},
		{Subject: "math", Day: "Monday", StartTime: "14:00", EndTime: "15:00"},
		{Subject: "science", Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
		{Subject: "history", Day: "Wednesday", StartTime: "11:00", EndTime: "12:00"},
	}
	for _, entry := range entries {
		if _, err := st.InsertTimetableEntry(ctx, "alice", entry); err != nil {
			t.Fatalf("insert entry: %v", err)
		}
	}
	got, err := st.ListTimetable(ctx, "alice")
	if err != nil {
		t.Fatalf("list timetable: %v", err)
	}
	wantSubjects := []string{"science", "math", "history", "spanish"}
	if len(got) != len(wantSubjects) {
		t.Fatalf("expected %d entries, got %d", len(wantSubjects), len(got))
	}
	for i, subject := range wantSubjects {
		if got[i].Subject != subject {
			t.Fatalf("entry %d = %q, want %q", i, got[i].Subject, subject)
		}
	}
	if err := st.DeleteTimetableEntry(ctx, "alice", got[0].ID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if err := st.DeleteTimetableEntry(ctx, "alice", got[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCountCardsBySubject(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, subject := range []string{"math", "math", "science"} {
		if _, err := st.InsertCard(ctx, "alice", model.Card{Question: "q", Answer: "a", Subject: subject, Difficulty: model.DifficultyEasy}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	counts, err := st.CountCardsBySubject(ctx, "alice")
	if err != nil {
		t.Fatalf("count by subject: %v", err)
	}
	if len(counts) != 2 || counts[0].Subject != "math" || counts[0].Count != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
