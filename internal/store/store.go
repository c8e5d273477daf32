// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkandie/studybuddy/internal/engine"
	"github.com/mkandie/studybuddy/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound reports a missing row for id-addressed operations.
var ErrNotFound = errors.New("store: not found")

const dayFormat = "2006-01-02"

// Store wraps SQLite access for cards, sessions, and profile data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY,
			profile TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			subject TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			times_reviewed INTEGER NOT NULL DEFAULT 0,
			last_reviewed TEXT,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			profile TEXT NOT NULL,
			subject TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			cards_studied INTEGER NOT NULL,
			correct_count INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL,
			xp_earned INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS xp_log (
			id INTEGER PRIMARY KEY,
			profile TEXT NOT NULL,
			amount INTEGER NOT NULL,
			reason TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS progress (
			profile TEXT PRIMARY KEY,
			experience INTEGER NOT NULL DEFAULT 0,
			streak_days INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS study_days (
			profile TEXT NOT NULL,
			day TEXT NOT NULL,
			cards_studied INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (profile, day)
		);`,
		`CREATE TABLE IF NOT EXISTS todos (
			id INTEGER PRIMARY KEY,
			profile TEXT NOT NULL,
			title TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			due_date TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT 'medium',
			subject TEXT NOT NULL DEFAULT 'other',
			completed INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS timetable_entries (
			id INTEGER PRIMARY KEY,
			profile TEXT NOT NULL,
			subject TEXT NOT NULL,
			day_of_week TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_profile_subject ON cards(profile, subject);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_profile_ended ON sessions(profile, ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_xp_log_profile_created ON xp_log(profile, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertCard stores a new flashcard and returns its id.
func (s *Store) InsertCard(ctx context.Context, profile string, card model.Card) (int64, error) {
	createdAt := card.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cards (profile, question, answer, subject, difficulty, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		profile, card.Question, card.Answer, card.Subject, string(card.Difficulty),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListCards returns the profile's cards in creation order, optionally
// filtered by subject.
func (s *Store) ListCards(ctx context.Context, profile, subject string) ([]model.Card, error) {
	clauses := []string{"profile = ?"}
	args := []any{profile}
	if subject != "" {
		clauses = append(clauses, "subject = ?")
		args = append(args, subject)
	}
	query := fmt.Sprintf(`SELECT id, question, answer, subject, difficulty, times_reviewed, last_reviewed, created_at
		FROM cards
		WHERE %s
		ORDER BY id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var cards []model.Card
	for rows.Next() {
		var card model.Card
		var difficulty, createdAt string
		var lastReviewed sql.NullString
		if err := rows.Scan(&card.ID, &card.Question, &card.Answer, &card.Subject, &difficulty, &card.TimesReviewed, &lastReviewed, &createdAt); err != nil {
			return nil, err
		}
		card.Difficulty = model.Difficulty(difficulty)
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		card.CreatedAt = parsed
		if lastReviewed.Valid {
			reviewedAt, err := time.Parse(time.RFC3339Nano, lastReviewed.String)
			if err != nil {
				return nil, err
			}
			card.LastReviewed = &reviewedAt
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// DeleteCard removes a card owned by the profile.
func (s *Store) DeleteCard(ctx context.Context, profile string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ? AND profile = ?`, id, profile)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkReviewed bumps the review counter and timestamp for a card. Cards
// from the built-in samples have no id and are skipped by the caller.
func (s *Store) MarkReviewed(ctx context.Context, profile string, id int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE cards SET times_reviewed = times_reviewed + 1, last_reviewed = ?
		 WHERE id = ? AND profile = ?`,
		at.Format(time.RFC3339Nano), id, profile)
	return err
}

// InsertSession stores a completed study session.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (profile, subject, started_at, ended_at, cards_studied, correct_count, duration_seconds, xp_earned)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Profile, rec.Subject,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.CardsStudied, rec.CorrectCount, rec.DurationSeconds, rec.XPEarned,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns the profile's sessions in chronological order,
// filtered by the stats config.
func (s *Store) ListSessions(ctx context.Context, profile string, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"profile = ?"}
	args := []any{profile}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT profile, subject, started_at, ended_at, cards_studied, correct_count, duration_seconds, xp_earned
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var startedAt, endedAt string
		if err := rows.Scan(&rec.Profile, &rec.Subject, &startedAt, &endedAt, &rec.CardsStudied, &rec.CorrectCount, &rec.DurationSeconds, &rec.XPEarned); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

// AppendXP records one experience award in the log.
func (s *Store) AppendXP(ctx context.Context, profile string, amount int, reason string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO xp_log (profile, amount, reason, created_at) VALUES (?, ?, ?, ?)`,
		profile, amount, reason, at.Format(time.RFC3339Nano))
	return err
}

// ListXPLog returns the most recent awards, newest first.
func (s *Store) ListXPLog(ctx context.Context, profile string, limit int) ([]model.XPEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT amount, reason, created_at FROM xp_log
		 WHERE profile = ?
		 ORDER BY id DESC
		 LIMIT ?`, profile, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.XPEntry
	for rows.Next() {
		var entry model.XPEntry
		var createdAt string
		if err := rows.Scan(&entry.Amount, &entry.Reason, &createdAt); err != nil {
			return nil, err
		}
		if entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadProgress returns the profile's progress, with the level derived from
// experience. A profile with no row yet starts at level 1 with 0 XP.
func (s *Store) LoadProgress(ctx context.Context, profile string) (model.UserProgress, error) {
	var p model.UserProgress
	err := s.db.QueryRowContext(ctx,
		`SELECT experience, streak_days FROM progress WHERE profile = ?`, profile).
		Scan(&p.Experience, &p.StreakDays)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.UserProgress{}, err
	}
	p.Level = engine.LevelForXP(p.Experience)
	return p, nil
}

// SaveProgress upserts the profile's experience and streak. The level is
// never stored; it is re-derived on load.
func (s *Store) SaveProgress(ctx context.Context, profile string, p model.UserProgress) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (profile, experience, streak_days) VALUES (?, ?, ?)
		 ON CONFLICT(profile) DO UPDATE SET experience = excluded.experience, streak_days = excluded.streak_days`,
		profile, p.Experience, p.StreakDays)
	return err
}

// TouchStudyDay records a study day and returns the updated streak. The
// streak continues when yesterday was recorded too and resets to 1
// otherwise; repeat studies on the same day leave it unchanged.
func (s *Store) TouchStudyDay(ctx context.Context, profile string, day time.Time, cardsStudied int) (int, error) {
	today := day.Format(dayFormat)
	yesterday := day.AddDate(0, 0, -1).Format(dayFormat)

	p, err := s.LoadProgress(ctx, profile)
	if err != nil {
		return 0, err
	}

	var exists int
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM study_days WHERE profile = ? AND day = ?`, profile, today).Scan(&exists)
	if err == nil {
		if cardsStudied > 0 {
			if _, err := s.db.ExecContext(ctx,
				`UPDATE study_days SET cards_studied = cards_studied + ? WHERE profile = ? AND day = ?`,
				cardsStudied, profile, today); err != nil {
				return 0, err
			}
		}
		return p.StreakDays, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	streak := 1
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM study_days WHERE profile = ? AND day = ?`, profile, yesterday).Scan(&exists)
	switch {
	case err == nil:
		streak = p.StreakDays + 1
	case errors.Is(err, sql.ErrNoRows):
		streak = 1
	default:
		return 0, err
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO study_days (profile, day, cards_studied) VALUES (?, ?, ?)`,
		profile, today, cardsStudied); err != nil {
		return 0, err
	}
	p.StreakDays = streak
	if err := s.SaveProgress(ctx, profile, p); err != nil {
		return 0, err
	}
	return streak, nil
}

// CountCardsBySubject aggregates the profile's cards per subject, most
// numerous first.
func (s *Store) CountCardsBySubject(ctx context.Context, profile string) ([]model.SubjectCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, COUNT(*) AS count FROM cards
		 WHERE profile = ?
		 GROUP BY subject
		 ORDER BY count DESC, subject ASC`, profile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var counts []model.SubjectCount
	for rows.Next() {
		var sc model.SubjectCount
		if err := rows.Scan(&sc.Subject, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// ReviewedToday counts cards the profile reviewed on the given day.
func (s *Store) ReviewedToday(ctx context.Context, profile string, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cards
		 WHERE profile = ? AND last_reviewed IS NOT NULL AND last_reviewed >= ? AND last_reviewed < ?`,
		profile, start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano)).Scan(&count)
	return count, err
}

// MostReviewedSubject returns the subject with the highest review total,
// or "" when nothing has been reviewed.
func (s *Store) MostReviewedSubject(ctx context.Context, profile string) (string, error) {
	var subject string
	err := s.db.QueryRowContext(ctx,
		`SELECT subject FROM cards
		 WHERE profile = ?
		 GROUP BY subject
		 HAVING SUM(times_reviewed) > 0
		 ORDER BY SUM(times_reviewed) DESC
		 LIMIT 1`, profile).Scan(&subject)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return subject, err
}

// InsertTodo stores a new todo and returns its id.
func (s *Store) InsertTodo(ctx context.Context, profile string, todo model.Todo) (int64, error) {
	createdAt := todo.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (profile, title, note, due_date, priority, subject, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile, todo.Title, todo.Note, todo.DueDate, todo.Priority, todo.Subject,
		boolToInt(todo.Completed), createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListTodos returns the profile's todos, open items first.
func (s *Store) ListTodos(ctx context.Context, profile string) ([]model.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, note, due_date, priority, subject, completed, created_at
		 FROM todos
		 WHERE profile = ?
		 ORDER BY completed ASC, due_date ASC, id ASC`, profile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var todos []model.Todo
	for rows.Next() {
		var todo model.Todo
		var completed int
		var createdAt string
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Note, &todo.DueDate, &todo.Priority, &todo.Subject, &completed, &createdAt); err != nil {
			return nil, err
		}
		todo.Completed = completed != 0
		if todo.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return todos, nil
}

// SetTodoCompleted toggles a todo's completion flag.
func (s *Store) SetTodoCompleted(ctx context.Context, profile string, id int64, completed bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET completed = ? WHERE id = ? AND profile = ?`,
		boolToInt(completed), id, profile)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTodo removes a todo owned by the profile.
func (s *Store) DeleteTodo(ctx context.Context, profile string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ? AND profile = ?`, id, profile)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// weekdayOrder sorts timetable entries Monday-first in SQL; sqlite has no
// FIELD() so a CASE expression stands in.
const weekdayOrder = `CASE day_of_week
	WHEN 'Monday' THEN 1
	WHEN 'Tuesday' THEN 2
	WHEN 'Wednesday' THEN 3
	WHEN 'Thursday' THEN 4
	WHEN 'Friday' THEN 5
	WHEN 'Saturday' THEN 6
	WHEN 'Sunday' THEN 7
	ELSE 8 END`

// InsertTimetableEntry stores a timetable block and returns its id.
func (s *Store) InsertTimetableEntry(ctx context.Context, profile string, entry model.TimetableEntry) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO timetable_entries (profile, subject, day_of_week, start_time, end_time)
		 VALUES (?, ?, ?, ?, ?)`,
		profile, entry.Subject, entry.Day, entry.StartTime, entry.EndTime)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListTimetable returns the profile's timetable in weekday order, then by
// start time.
func (s *Store) ListTimetable(ctx context.Context, profile string) ([]model.TimetableEntry, error) {
	query := fmt.Sprintf(`SELECT id, subject, day_of_week, start_time, end_time
		FROM timetable_entries
		WHERE profile = ?
		ORDER BY %s, start_time ASC`, weekdayOrder)
	rows, err := s.db.QueryContext(ctx, query, profile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.TimetableEntry
	for rows.Next() {
		var entry model.TimetableEntry
		if err := rows.Scan(&entry.ID, &entry.Subject, &entry.Day, &entry.StartTime, &entry.EndTime); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteTimetableEntry removes a timetable block owned by the profile.
func (s *Store) DeleteTimetableEntry(ctx context.Context, profile string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM timetable_entries WHERE id = ? AND profile = ?`, id, profile)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
