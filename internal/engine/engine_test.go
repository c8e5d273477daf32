package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/mkandie/studybuddy/internal/model"
)

type recorder struct {
	cards     []model.Card
	positions []int
	awards    []int
	reasons   []string
	levelUps  []int
	summaries []Summary
}

func (r *recorder) CardChanged(card model.Card, position, total int) {
	r.cards = append(r.cards, card)
	r.positions = append(r.positions, position)
}

func (r *recorder) XPAwarded(amount int, reason string) {
	r.awards = append(r.awards, amount)
	r.reasons = append(r.reasons, reason)
}

func (r *recorder) LeveledUp(newLevel int) {
	r.levelUps = append(r.levelUps, newLevel)
}

func (r *recorder) SessionEnded(summary Summary) {
	r.summaries = append(r.summaries, summary)
}

func mixedDeck() []model.Card {
	return []model.Card{
		{ID: 1, Question: "2+2?", Answer: "4", Subject: "math", Difficulty: model.DifficultyEasy},
		{ID: 2, Question: "7*8?", Answer: "56", Subject: "math", Difficulty: model.DifficultyMedium},
		{ID: 3, Question: "integral of 1/x?", Answer: "ln|x|+C", Subject: "math", Difficulty: model.DifficultyHard},
	}
}

func TestStartEmptyDeck(t *testing.T) {
	rec := &recorder{}
	e := New(model.UserProgress{}, rec, newFakeClock())
	if err := e.Start(nil, "math"); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	if e.Status() != StatusIdle {
		t.Fatalf("status must stay idle, got %v", e.Status())
	}
	if len(rec.cards) != 0 {
		t.Fatalf("no card events expected on a failed start")
	}
}

func TestSessionAutoEndsAfterLastAnswer(t *testing.T) {
	rec := &recorder{}
	e := New(model.UserProgress{}, rec, newFakeClock())
	if err := e.Start(mixedDeck(), "math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	answers := []bool{true, false, true}
	for _, correct := range answers {
		if err := e.Answer(correct); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	if e.Status() != StatusIdle {
		t.Fatalf("expected idle after last answer, got %v", e.Status())
	}
	if len(rec.summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(rec.summaries))
	}
	summary := rec.summaries[0]
	if summary.CardsStudied != 3 {
		t.Fatalf("cardsStudied = %d, want 3", summary.CardsStudied)
	}
	if summary.AccuracyPercent != 67 {
		t.Fatalf("accuracy = %d, want 67", summary.AccuracyPercent)
	}
}

func TestAccuracyThreeOfFour(t *testing.T) {
	deck := append(mixedDeck(), model.Card{ID: 4, Question: "q", Answer: "a", Subject: "math", Difficulty: model.DifficultyEasy})
	rec := &recorder{}
	e := New(model.UserProgress{}, rec, newFakeClock())
	if err := e.Start(deck, "math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	for _, correct := range []bool{true, true, false, true} {
		if err := e.Answer(correct); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	if rec.summaries[0].AccuracyPercent != 75 {
		t.Fatalf("accuracy = %d, want 75", rec.summaries[0].AccuracyPercent)
	}
}

func TestPerCardAwardsAndBonus(t *testing.T) {
	rec := &recorder{}
	e := New(model.UserProgress{}, rec, newFakeClock())
	if err := e.Start(mixedDeck(), "math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	// easy correct (3), medium wrong, hard correct (8); accuracy 67, short
	// session, so the bonus is 2*3=6.
	for _, correct := range []bool{true, false, true} {
		if err := e.Answer(correct); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	wantAwards := []int{3, 8, 6}
	if len(rec.awards) != len(wantAwards) {
		t.Fatalf("awards = %v, want %v", rec.awards, wantAwards)
	}
	for i, want := range wantAwards {
		if rec.awards[i] != want {
			t.Fatalf("award %d = %d, want %d", i, rec.awards[i], want)
		}
	}
	if rec.reasons[0] != ReasonCorrectAnswer || rec.reasons[2] != ReasonSessionBonus {
		t.Fatalf("unexpected reasons: %v", rec.reasons)
	}
	if got := e.Progress().Experience; got != 17 {
		t.Fatalf("experience = %d, want 17", got)
	}
	if rec.summaries[0].XPEarned != 17 {
		t.Fatalf("summary XP = %d, want 17", rec.summaries[0].XPEarned)
	}
}

func TestLongAccurateSessionBonus(t *testing.T) {
	deck := make([]model.Card, 5)
	for i := range deck {
		deck[i] = model.Card{ID: int64(i + 1), Question: "q", Answer: "a", Subject: "history", Difficulty: model.DifficultyEasy}
	}
	clock := newFakeClock()
	rec := &recorder{}
	e := New(model.UserProgress{}, rec, clock)
	if err := e.Start(deck, "history"); err != nil {
		t.Fatalf("start: %v", err)
	}
	results := []bool{true, true, true, true, false} // 4/5 = 80%
	for _, correct := range results {
		clock.advance(140 * time.Second) // 700s total
		if err := e.Answer(correct); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	summary := rec.summaries[0]
	if summary.AccuracyPercent != 80 {
		t.Fatalf("accuracy = %d, want 80", summary.AccuracyPercent)
	}
	if summary.DurationSeconds != 700 {
		t.Fatalf("duration = %d, want 700", summary.DurationSeconds)
	}
	if summary.BonusXP != 25 {
		t.Fatalf("bonus = %d, want 2*5+10+5 = 25", summary.BonusXP)
	}
}

func TestPauseResumeFreezesTimer(t *testing.T) {
	clock := newFakeClock()
	e := New(model.UserProgress{}, nil, clock)
	if err := e.Start(mixedDeck(), "math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.advance(10 * time.Second)
	if err := e.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	clock.advance(5 * time.Minute)
	if err := e.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got := int(e.Elapsed() / time.Second); got != 10 {
		t.Fatalf("elapsed = %d, want 10", got)
	}
}

func TestTransitionMisuse(t *testing.T) {
	e := New(model.UserProgress{}, nil, newFakeClock())
	if err := e.Pause(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("pause while idle: expected ErrInvalidState, got %v", err)
	}
	if err := e.Resume(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("resume while idle: expected ErrInvalidState, got %v", err)
	}
	if err := e.End(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("end while idle: expected ErrInvalidState, got %v", err)
	}
	if err := e.Answer(true); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("answer while idle: expected ErrInvalidState, got %v", err)
	}
	if err := e.Start(mixedDeck(), "math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.Start(mixedDeck(), "math"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double start: expected ErrInvalidState, got %v", err)
	}
	if err := e.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := e.Answer(true); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("answer while paused: expected ErrInvalidState, got %v", err)
	}
}

func TestAnswerWithoutRevealIsTolerated(t *testing.T) {
	rec := &recorder{}
	e := New(model.UserProgress{}, rec, newFakeClock())
	if err := e.Start(mixedDeck(), "math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if e.Revealed() {
		t.Fatalf("answer must not be revealed at session start")
	}
	if err := e.Answer(true); err != nil {
		t.Fatalf("answer without reveal: %v", err)
	}
	if e.Progress().Experience != 3 {
		t.Fatalf("award must still apply, got %d XP", e.Progress().Experience)
	}
}

func TestEndEarlyFromPaused(t *testing.T) {
	rec := &recorder{}
	e := New(model.UserProgress{}, rec, newFakeClock())
	if err := e.Start(mixedDeck(), "math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.Answer(true); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := e.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := e.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if e.Status() != StatusIdle {
		t.Fatalf("expected idle after end, got %v", e.Status())
	}
	if rec.summaries[0].CardsStudied != 1 {
		t.Fatalf("cardsStudied = %d, want 1", rec.summaries[0].CardsStudied)
	}
}

func TestRestartAfterEndIsFresh(t *testing.T) {
	rec := &recorder{}
	e := New(model.UserProgress{}, rec, newFakeClock())
	if err := e.Start(mixedDeck(), "math"); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := e.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := e.Start(mixedDeck(), "math"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	card, err := e.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if card.ID != 1 {
		t.Fatalf("restart must begin at the first card, got %d", card.ID)
	}
}

func TestLevelUpEventCarriesFinalLevel(t *testing.T) {
	rec := &recorder{}
	e := New(model.UserProgress{Experience: 97}, rec, newFakeClock())
	if err := e.Start(mixedDeck(), "math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.Answer(true); err != nil { // easy, +3 -> 100 XP, level 2
		t.Fatalf("answer: %v", err)
	}
	if len(rec.levelUps) != 1 || rec.levelUps[0] != 2 {
		t.Fatalf("levelUps = %v, want [2]", rec.levelUps)
	}
}

func TestCardChangedEvents(t *testing.T) {
	rec := &recorder{}
	e := New(model.UserProgress{}, rec, newFakeClock())
	if err := e.Start(mixedDeck(), "math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.Answer(true); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if len(rec.cards) != 2 {
		t.Fatalf("expected 2 card events, got %d", len(rec.cards))
	}
	if rec.positions[0] != 0 || rec.positions[1] != 1 {
		t.Fatalf("positions = %v, want [0 1]", rec.positions)
	}
	if rec.cards[1].ID != 2 {
		t.Fatalf("second card event must carry card 2, got %d", rec.cards[1].ID)
	}
}

func TestAwardTaskXP(t *testing.T) {
	rec := &recorder{}
	e := New(model.UserProgress{}, rec, newFakeClock())
	if err := e.AwardTaskXP(10, ReasonTaskDone); err != nil {
		t.Fatalf("task award: %v", err)
	}
	if e.Progress().Experience != 10 {
		t.Fatalf("experience = %d, want 10", e.Progress().Experience)
	}
	if err := e.AwardTaskXP(-1, ReasonTaskDone); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative award: expected ErrInvalidArgument, got %v", err)
	}
}
