package engine

import "github.com/mkandie/studybuddy/internal/model"

// Deck is a fixed, ordered sequence of cards with a traversal position.
// Ordering is set at construction; there is no shuffling and no repetition
// within a session.
type Deck struct {
	cards []model.Card
	pos   int
}

// NewDeck builds a deck over the given cards. The slice is copied so later
// mutations by the caller do not affect the session.
func NewDeck(cards []model.Card) *Deck {
	copied := make([]model.Card, len(cards))
	copy(copied, cards)
	return &Deck{cards: copied}
}

// Len returns the total number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// Position returns the zero-based traversal position, 0..Len inclusive.
func (d *Deck) Position() int { return d.pos }

// Current returns the card at the traversal position, or ErrEndOfDeck once
// the position has passed the last card.
func (d *Deck) Current() (model.Card, error) {
	if d.pos >= len(d.cards) {
		return model.Card{}, ErrEndOfDeck
	}
	return d.cards[d.pos], nil
}

// Advance moves the position forward by exactly one. It never wraps;
// advancing past the end reports ErrEndOfDeck.
func (d *Deck) Advance() error {
	if d.pos >= len(d.cards) {
		return ErrEndOfDeck
	}
	d.pos++
	return nil
}

// Exhausted reports whether every card has been passed.
func (d *Deck) Exhausted() bool { return d.pos >= len(d.cards) }
