package evaluator

import (
	"strings"
	"testing"

	"github.com/vanishedd/pokerwithyourfriends/internal/deck"
)

func mustCards(t *testing.T, input string) []deck.Card {
	t.Helper()
	cards, err := deck.ParseCards(input)
	if err != nil {
		t.Fatalf("parsing %q: %v", input, err)
	}
	return cards
}

func mustEvaluate(t *testing.T, input string) Evaluation {
	t.Helper()
	eval, err := Evaluate(mustCards(t, input))
	if err != nil {
		t.Fatalf("evaluating %q: %v", input, err)
	}
	return eval
}

func TestEvaluateRejectsWrongCardCounts(t *testing.T) {
	t.Parallel()

	if _, err := Evaluate(mustCards(t, "ASKSQSJS")); err == nil {
		t.Error("expected error for 4 cards")
	}
	if _, err := Evaluate(mustCards(t, "ASKSQSJSTS9S8S7S")); err == nil {
		t.Error("expected error for 8 cards")
	}
}

func TestEvaluateClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		class       RankClass
		tieBreakers []int
	}{
		{"royal flush from seven", "ASKSQSJSTS2D3H", StraightFlush, []int{14}},
		{"straight flush", "9H8H7H6H5H", StraightFlush, []int{9}},
		{"steel wheel", "AH5H4H3H2H", StraightFlush, []int{5}},
		{"four of a kind", "7S7H7D7CKS", FourOfAKind, []int{7, 13}},
		{"full house beats trips in seven", "KHKDKS9H9S2H4H", FullHouse, []int{13, 9}},
		{"flush", "AH9H7H5H2H", Flush, []int{14, 9, 7, 5, 2}},
		{"straight", "9S8H7D6C5S", Straight, []int{9}},
		{"wheel straight", "AS5H4D3C2S", Straight, []int{5}},
		{"three of a kind", "QSQHQD9C5S", ThreeOfAKind, []int{12, 9, 5}},
		{"two pair", "JSJH4D4CAS", TwoPair, []int{11, 4, 14}},
		{"pair", "TSTh8D5C2S", Pair, []int{10, 8, 5, 2}},
		{"high card", "ASJD9H6C3S", HighCard, []int{14, 11, 9, 6, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := mustEvaluate(t, tt.input)
			if eval.Class != tt.class {
				t.Fatalf("expected class %v, got %v (%s)", tt.class, eval.Class, eval.Description)
			}
			if len(eval.TieBreakers) != len(tt.tieBreakers) {
				t.Fatalf("expected tie breakers %v, got %v", tt.tieBreakers, eval.TieBreakers)
			}
			for i, v := range tt.tieBreakers {
				if eval.TieBreakers[i] != v {
					t.Errorf("tie breaker %d: expected %d, got %d", i, v, eval.TieBreakers[i])
				}
			}
			if len(eval.BestFive) != 5 {
				t.Errorf("expected 5 best cards, got %d", len(eval.BestFive))
			}
		})
	}
}

func TestRoyalFlushDescription(t *testing.T) {
	t.Parallel()

	eval := mustEvaluate(t, "ASKSQSJSTS2D3H")
	if !strings.Contains(strings.ToLower(eval.Description), "royal") {
		t.Errorf("expected royal flush description, got %q", eval.Description)
	}
}

func TestFullHouseOutranksFlushInSameSeven(t *testing.T) {
	t.Parallel()

	// Four hearts tempt a flush read; kings full is the real hand.
	eval := mustEvaluate(t, "KHKDKS9H9S2H4H")
	if eval.Class != FullHouse {
		t.Fatalf("expected full house, got %v (%s)", eval.Class, eval.Description)
	}
}

// Any hand in a higher category must outrank any hand in a lower one,
// regardless of tie breakers.
func TestCategoryStrictlyDominatesTieBreakers(t *testing.T) {
	t.Parallel()

	weakestQuads := mustEvaluate(t, "2S2H2D2C3S")
	strongestBoat := mustEvaluate(t, "ASAHADKSKH")
	if weakestQuads.Strength <= strongestBoat.Strength {
		t.Fatalf("quads %d should outrank full house %d", weakestQuads.Strength, strongestBoat.Strength)
	}

	weakestStraight := mustEvaluate(t, "AS5H4D3C2S")
	strongestTrips := mustEvaluate(t, "ASAHADKSQH")
	if weakestStraight.Strength <= strongestTrips.Strength {
		t.Fatalf("straight %d should outrank trips %d", weakestStraight.Strength, strongestTrips.Strength)
	}

	weakestFlush := mustEvaluate(t, "7H5H4H3H2H")
	strongestStraight := mustEvaluate(t, "ASKHQDJCTS")
	if weakestFlush.Strength <= strongestStraight.Strength {
		t.Fatalf("flush %d should outrank straight %d", weakestFlush.Strength, strongestStraight.Strength)
	}
}

func TestEqualCategoriesCompareLexicographically(t *testing.T) {
	t.Parallel()

	acesUp := mustEvaluate(t, "ASAH4D4C9S")
	kingsUp := mustEvaluate(t, "KSKHQDQC9S")
	if acesUp.Strength <= kingsUp.Strength {
		t.Error("aces up should beat kings up")
	}

	betterKicker := mustEvaluate(t, "TSTHAD5C2S")
	worseKicker := mustEvaluate(t, "TDTCKD5H2D")
	if betterKicker.Strength <= worseKicker.Strength {
		t.Error("ace kicker should beat king kicker")
	}

	tiedA := mustEvaluate(t, "9S8H7D6C5S")
	tiedB := mustEvaluate(t, "9H8D7C6S5H")
	if tiedA.Strength != tiedB.Strength {
		t.Error("identical straights in different suits should tie")
	}
}

func TestBestFiveChosenFromSeven(t *testing.T) {
	t.Parallel()

	// Board pairs the ace, hole cards make the nut flush.
	eval := mustEvaluate(t, "AHKH9H4H2HASAD")
	if eval.Class != Flush {
		t.Fatalf("expected flush, got %v", eval.Class)
	}
	for _, card := range eval.BestFive {
		if card.Suit != deck.Hearts {
			t.Errorf("best five contains non-heart %v", card)
		}
	}
}
