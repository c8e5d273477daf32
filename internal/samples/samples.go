// Package samples holds the built-in practice cards used when a profile
// has no flashcards of its own.
package samples

import "github.com/mkandie/studybuddy/internal/model"

// CategoryOrder fixes the order categories are flattened in when building
// the fallback deck.
var CategoryOrder = []string{"math", "english", "spanish", "german", "science", "history"}

var categories = map[string][]model.Card{
	"math": {
		{Question: "What is 12 × 8?", Answer: "96", Subject: "math", Difficulty: model.DifficultyEasy},
		{Question: "What is the derivative of x²?", Answer: "2x", Subject: "math", Difficulty: model.DifficultyMedium},
		{Question: "Solve for x: 2x + 6 = 20", Answer: "x = 7", Subject: "math", Difficulty: model.DifficultyMedium},
	},
	"english": {
		{Question: "What is a synonym for 'happy'?", Answer: "Joyful", Subject: "english", Difficulty: model.DifficultyEasy},
		{Question: "What is the past tense of 'run'?", Answer: "Ran", Subject: "english", Difficulty: model.DifficultyEasy},
		{Question: "What literary device compares two things using 'like' or 'as'?", Answer: "A simile", Subject: "english", Difficulty: model.DifficultyMedium},
	},
	"spanish": {
		{Question: "How do you say 'hello' in Spanish?", Answer: "Hola", Subject: "spanish", Difficulty: model.DifficultyEasy},
		{Question: "What does 'biblioteca' mean?", Answer: "Library", Subject: "spanish", Difficulty: model.DifficultyMedium},
	},
	"german": {
		{Question: "How do you say 'thank you' in German?", Answer: "Danke", Subject: "german", Difficulty: model.DifficultyEasy},
		{Question: "What does 'Geschwindigkeit' mean?", Answer: "Speed", Subject: "german", Difficulty: model.DifficultyHard},
	},
	"science": {
		{Question: "What is the chemical symbol for gold?", Answer: "Au", Subject: "science", Difficulty: model.DifficultyEasy},
		{Question: "What organelle is known as the powerhouse of the cell?", Answer: "The mitochondrion", Subject: "science", Difficulty: model.DifficultyMedium},
		{Question: "What is Newton's second law?", Answer: "Force equals mass times acceleration (F = ma)", Subject: "science", Difficulty: model.DifficultyHard},
	},
	"history": {
		{Question: "In what year did World War II end?", Answer: "1945", Subject: "history", Difficulty: model.DifficultyEasy},
		{Question: "Who was the first president of the United States?", Answer: "George Washington", Subject: "history", Difficulty: model.DifficultyEasy},
		{Question: "What empire was ruled by Augustus?", Answer: "The Roman Empire", Subject: "history", Difficulty: model.DifficultyMedium},
	},
}

// Categories returns the known sample category names in deck order.
func Categories() []string {
	out := make([]string, len(CategoryOrder))
	copy(out, CategoryOrder)
	return out
}

// ForSubject returns the sample cards for one category, or nil when the
// subject has no samples.
func ForSubject(subject string) []model.Card {
	cards, ok := categories[subject]
	if !ok {
		return nil
	}
	out := make([]model.Card, len(cards))
	copy(out, cards)
	return out
}

// FallbackDeck flattens every category in CategoryOrder into one deck.
func FallbackDeck() []model.Card {
	var deck []model.Card
	for _, name := range CategoryOrder {
		deck = append(deck, categories[name]...)
	}
	return deck
}
