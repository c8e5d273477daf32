package samples

import "testing"

func TestFallbackDeckOrder(t *testing.T) {
	deck := FallbackDeck()
	if len(deck) == 0 {
		t.Fatalf("fallback deck must not be empty")
	}
	// Cards appear grouped by category, in the fixed category order.
	seen := map[string]int{}
	order := []string{}
	for _, card := range deck {
		if _, ok := seen[card.Subject]; !ok {
			order = append(order, card.Subject)
		}
		seen[card.Subject]++
	}
	if len(order) != len(CategoryOrder) {
		t.Fatalf("expected %d categories, got %v", len(CategoryOrder), order)
	}
	for i, subject := range CategoryOrder {
		if order[i] != subject {
			t.Fatalf("category %d = %q, want %q", i, order[i], subject)
		}
		if seen[subject] < 2 || seen[subject] > 3 {
			t.Fatalf("category %q has %d cards, want 2-3", subject, seen[subject])
		}
	}
}

func TestForSubject(t *testing.T) {
	cards := ForSubject("science")
	if len(cards) == 0 {
		t.Fatalf("expected science samples")
	}
	for _, card := range cards {
		if card.Subject != "science" {
			t.Fatalf("card subject = %q, want science", card.Subject)
		}
		if !card.Difficulty.Valid() {
			t.Fatalf("invalid difficulty %q", card.Difficulty)
		}
	}
	if ForSubject("underwater basket weaving") != nil {
		t.Fatalf("unknown subject must return nil")
	}
}
