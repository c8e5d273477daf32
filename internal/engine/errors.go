package engine

import "errors"

// Sentinel errors for the engine package.
// Use errors.Is to check: errors.Is(err, engine.ErrEmptyDeck)
var (
	ErrEmptyDeck       = errors.New("engine: deck has no cards")
	ErrEndOfDeck       = errors.New("engine: no cards left in deck")
	ErrInvalidState    = errors.New("engine: transition not valid in current state")
	ErrInvalidArgument = errors.New("engine: invalid argument")
)
