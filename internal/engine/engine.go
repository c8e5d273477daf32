// Package engine implements the study session state machine and the
// gamification policy. It owns SessionState and UserProgress, performs no
// I/O, and reports everything the UI needs through an Events sink.
package engine

import (
	"time"

	"github.com/mkandie/studybuddy/internal/model"
)

// Status is the session lifecycle state.
type Status int

// Session states. A session moves idle -> active -> {paused <-> active}
// -> idle; ending a session always returns the engine to idle.
const (
	StatusIdle Status = iota
	StatusActive
	StatusPaused
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	default:
		return "idle"
	}
}

// Summary describes a finished session.
type Summary struct {
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int
	CardsStudied    int
	CorrectCount    int
	AccuracyPercent int
	BonusXP         int
	XPEarned        int
	Subject         string
}

// Events receives engine notifications. All callbacks run synchronously on
// the caller's goroutine; implementations must not call back into the
// engine.
type Events interface {
	CardChanged(card model.Card, position, total int)
	XPAwarded(amount int, reason string)
	LeveledUp(newLevel int)
	SessionEnded(summary Summary)
}

// NopEvents discards all notifications.
type NopEvents struct{}

// CardChanged implements Events.
func (NopEvents) CardChanged(model.Card, int, int) {}

// XPAwarded implements Events.
func (NopEvents) XPAwarded(int, string) {}

// LeveledUp implements Events.
func (NopEvents) LeveledUp(int) {}

// SessionEnded implements Events.
func (NopEvents) SessionEnded(Summary) {}

// XP award reasons reported to the sink.
const (
	ReasonCorrectAnswer = "Correct answer!"
	ReasonSessionBonus  = "Session complete!"
	ReasonTaskDone      = "Task completed!"
)

// Engine drives study sessions over a deck of cards and accumulates
// experience on the owned UserProgress.
type Engine struct {
	clock  Clock
	events Events

	progress model.UserProgress

	status        Status
	deck          *Deck
	timer         *Timer
	subject       string
	startedAt     time.Time
	cardsAnswered int
	correctCount  int
	xpEarned      int
	revealed      bool
}

// New returns an idle engine owning the given progress. A nil events sink
// or clock falls back to no-op/system defaults.
func New(progress model.UserProgress, events Events, clock Clock) *Engine {
	if events == nil {
		events = NopEvents{}
	}
	if clock == nil {
		clock = SystemClock()
	}
	progress.Level = LevelForXP(progress.Experience)
	return &Engine{
		clock:    clock,
		events:   events,
		progress: progress,
		timer:    NewTimer(clock),
	}
}

// SetEvents replaces the notification sink. Swapping sinks mid-session is
// not supported; call this before Start.
func (e *Engine) SetEvents(events Events) {
	if events == nil {
		events = NopEvents{}
	}
	e.events = events
}

// Status returns the current session state.
func (e *Engine) Status() Status { return e.status }

// Progress returns a copy of the owned user progress.
func (e *Engine) Progress() model.UserProgress { return e.progress }

// Elapsed returns the session's accumulated study time. Zero while idle.
func (e *Engine) Elapsed() time.Duration { return e.timer.Elapsed() }

// Start begins a session over the given cards. It fails with ErrEmptyDeck
// when no cards are supplied and ErrInvalidState when a session is already
// running; the engine stays idle in both cases.
func (e *Engine) Start(cards []model.Card, subject string) error {
	if e.status != StatusIdle {
		return ErrInvalidState
	}
	if len(cards) == 0 {
		return ErrEmptyDeck
	}
	e.deck = NewDeck(cards)
	e.subject = subject
	e.startedAt = e.clock.Now()
	e.cardsAnswered = 0
	e.correctCount = 0
	e.xpEarned = 0
	e.revealed = false
	e.timer.Start()
	e.status = StatusActive

	first, _ := e.deck.Current()
	e.events.CardChanged(first, 0, e.deck.Len())
	return nil
}

// Pause freezes the session timer. Valid only while active.
func (e *Engine) Pause() error {
	if e.status != StatusActive {
		return ErrInvalidState
	}
	e.timer.Pause()
	e.status = StatusPaused
	return nil
}

// Resume continues a paused session. Valid only while paused.
func (e *Engine) Resume() error {
	if e.status != StatusPaused {
		return ErrInvalidState
	}
	e.timer.Resume()
	e.status = StatusActive
	return nil
}

// Current returns the card awaiting an answer.
func (e *Engine) Current() (model.Card, error) {
	if e.status == StatusIdle {
		return model.Card{}, ErrInvalidState
	}
	return e.deck.Current()
}

// RevealAnswer marks the current card's answer as shown and returns the
// card. Display intent only; it mutates no counters, and Answer does not
// require a prior reveal.
func (e *Engine) RevealAnswer() (model.Card, error) {
	if e.status != StatusActive {
		return model.Card{}, ErrInvalidState
	}
	card, err := e.deck.Current()
	if err != nil {
		return model.Card{}, err
	}
	e.revealed = true
	return card, nil
}

// Revealed reports whether the current card's answer has been shown.
func (e *Engine) Revealed() bool { return e.revealed }

// Answer records the result for the current card, awards experience for a
// correct answer, and advances the deck. Answering the last card ends the
// session automatically.
func (e *Engine) Answer(correct bool) error {
	if e.status != StatusActive {
		return ErrInvalidState
	}
	card, err := e.deck.Current()
	if err != nil {
		return err
	}
	e.cardsAnswered++
	if correct {
		e.correctCount++
		e.award(DifficultyXP(card.Difficulty), ReasonCorrectAnswer)
	}
	if err := e.deck.Advance(); err != nil {
		return err
	}
	if e.deck.Exhausted() {
		e.finish()
		return nil
	}
	e.revealed = false
	next, _ := e.deck.Current()
	e.events.CardChanged(next, e.deck.Position(), e.deck.Len())
	return nil
}

// End terminates the session early. Valid from active or paused; the
// summary covers whatever was answered so far.
func (e *Engine) End() error {
	if e.status != StatusActive && e.status != StatusPaused {
		return ErrInvalidState
	}
	e.finish()
	return nil
}

// finish closes out the session: stops the timer, applies the bonus award,
// emits the summary, and resets to idle.
func (e *Engine) finish() {
	e.timer.Pause()
	duration := e.timer.ElapsedSeconds()
	accuracy := AccuracyPercent(e.correctCount, e.cardsAnswered)
	bonus := SessionBonus(e.cardsAnswered, accuracy, duration)
	if bonus > 0 {
		e.award(bonus, ReasonSessionBonus)
	}
	summary := Summary{
		StartedAt:       e.startedAt,
		EndedAt:         e.clock.Now(),
		DurationSeconds: duration,
		CardsStudied:    e.cardsAnswered,
		CorrectCount:    e.correctCount,
		AccuracyPercent: accuracy,
		BonusXP:         bonus,
		XPEarned:        e.xpEarned,
		Subject:         e.subject,
	}

	e.status = StatusIdle
	e.deck = nil
	e.cardsAnswered = 0
	e.correctCount = 0
	e.xpEarned = 0
	e.revealed = false

	e.events.SessionEnded(summary)
}

// AwardTaskXP grants a fixed award outside a session, e.g. for completing
// a todo. It goes through the same policy as in-session awards.
func (e *Engine) AwardTaskXP(amount int, reason string) error {
	if amount < 0 {
		return ErrInvalidArgument
	}
	e.award(amount, reason)
	return nil
}

func (e *Engine) award(amount int, reason string) {
	updated, leveledUp, newLevel, err := AwardExperience(e.progress, amount)
	if err != nil {
		// Guarded by callers; a negative amount never reaches here.
		return
	}
	e.progress = updated
	e.xpEarned += amount
	e.events.XPAwarded(amount, reason)
	if leveledUp {
		e.events.LeveledUp(newLevel)
	}
}
