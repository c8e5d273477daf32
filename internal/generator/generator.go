// Package generator derives flashcards from free-form study notes using
// seeded template selection. Identical notes always produce identical
// cards; there is no model call behind this.
package generator

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/mkandie/studybuddy/internal/model"
)

// Generator produces cards from notes.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded from the given value.
func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Seed derives a stable seed from the notes and generation settings.
func Seed(notes, subject string, difficulty model.Difficulty) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(notes))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(subject))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(difficulty))
	return int64(h.Sum64())
}

// FromNotes builds up to count cards for the subject at the requested
// difficulty. Notes with no usable content still yield cards; the answer
// then quotes the raw notes.
func (g *Generator) FromNotes(notes, subject string, difficulty model.Difficulty, count int) []model.Card {
	if count <= 0 {
		count = 1
	}
	sentences := splitSentences(notes)
	cards := make([]model.Card, 0, count)
	for i := 0; i < count; i++ {
		cards = append(cards, model.Card{
			Question:   g.question(subject, difficulty),
			Answer:     g.answer(notes, subject, sentences),
			Subject:    subject,
			Difficulty: difficulty,
		})
	}
	return cards
}

func (g *Generator) question(subject string, difficulty model.Difficulty) string {
	templates := questionTemplates(subject, difficulty)
	return templates[g.rnd.Intn(len(templates))]
}

func (g *Generator) answer(notes, subject string, sentences []string) string {
	if len(sentences) == 0 {
		excerpt := strings.TrimSpace(notes)
		if len(excerpt) > 150 {
			excerpt = excerpt[:150] + "..."
		}
		return fmt.Sprintf("Key concepts from your %s notes: %s", subject, excerpt)
	}
	first := sentences[g.rnd.Intn(len(sentences))]
	answer := "Based on the provided notes: " + first
	if len(sentences) > 1 {
		rest := make([]string, 0, len(sentences)-1)
		for _, s := range sentences {
			if s != first {
				rest = append(rest, s)
			}
		}
		if len(rest) > 0 {
			answer += " Additionally, " + rest[g.rnd.Intn(len(rest))]
		}
	}
	return answer
}

func questionTemplates(subject string, difficulty model.Difficulty) []string {
	switch difficulty {
	case model.DifficultyEasy:
		return []string{
			fmt.Sprintf("What is the main concept about %s in these notes?", subject),
			fmt.Sprintf("Define the key term related to %s mentioned in the notes.", subject),
			fmt.Sprintf("List the main points discussed about %s.", subject),
		}
	case model.DifficultyHard:
		return []string{
			fmt.Sprintf("Analyze the underlying assumptions in these %s concepts.", subject),
			fmt.Sprintf("What are the potential limitations or criticisms of these %s ideas?", subject),
			fmt.Sprintf("How might these %s concepts evolve or be challenged in the future?", subject),
			fmt.Sprintf("Compare and contrast the different approaches mentioned in these %s notes.", subject),
		}
	default:
		return []string{
			fmt.Sprintf("How do the %s concepts in these notes relate to practical applications?", subject),
			fmt.Sprintf("Explain the significance of the main concept in %s.", subject),
			fmt.Sprintf("What are the implications of these %s concepts?", subject),
			fmt.Sprintf("How would you apply these %s principles in a real scenario?", subject),
		}
	}
}

// splitSentences extracts sentences of meaningful length from the notes.
func splitSentences(notes string) []string {
	normalized := strings.NewReplacer("!", ".", "?", ".", "\n", ".").Replace(notes)
	parts := strings.Split(normalized, ".")
	var out []string
	for _, part := range parts {
		s := strings.TrimSpace(part)
		if len(s) > 10 {
			out = append(out, s+".")
		}
	}
	return out
}
