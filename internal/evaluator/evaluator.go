// Package evaluator scores 5-7 card poker hands. Evaluation returns the best
// 5-card hand with its rank class, tie-breaker vector and a single integer
// strength that totally orders all hands.
package evaluator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanishedd/pokerwithyourfriends/internal/deck"
)

// RankClass is a hand category. Higher classes always beat lower ones.
type RankClass int

const (
	HighCard RankClass = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the wire name of a rank class
func (rc RankClass) String() string {
	switch rc {
	case HighCard:
		return "high-card"
	case Pair:
		return "pair"
	case TwoPair:
		return "two-pair"
	case ThreeOfAKind:
		return "three-of-a-kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full-house"
	case FourOfAKind:
		return "four-of-a-kind"
	case StraightFlush:
		return "straight-flush"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the class as its wire name
func (rc RankClass) MarshalJSON() ([]byte, error) {
	return []byte(`"` + rc.String() + `"`), nil
}

// tieBreakerBase encodes tie-breaker vectors positionally. 15 > any rank
// value, and with at most 5 tie-breakers the folded vector stays below
// 15^6, so the category term strictly dominates.
const tieBreakerBase = 15

const categoryWeight = tieBreakerBase * tieBreakerBase * tieBreakerBase *
	tieBreakerBase * tieBreakerBase * tieBreakerBase // 15^6

// Evaluation is the result of scoring a hand.
type Evaluation struct {
	Class       RankClass   `json:"rankClass"`
	TieBreakers []int       `json:"tieBreakers"`
	BestFive    []deck.Card `json:"bestFive"`
	Strength    int         `json:"strength"`
	Description string      `json:"description"`
}

// Evaluate returns the strongest 5-card hand makeable from 5 to 7 cards.
func Evaluate(cards []deck.Card) (Evaluation, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Evaluation{}, fmt.Errorf("evaluator: expected between 5 and 7 cards, got %d", len(cards))
	}

	var best Evaluation
	found := false
	forEachFiveCardCombo(cards, func(combo []deck.Card) {
		current := evaluateFive(combo)
		if !found || current.Strength > best.Strength {
			best = current
			best.BestFive = append([]deck.Card(nil), combo...)
			found = true
		}
	})
	return best, nil
}

// forEachFiveCardCombo visits every 5-card subset in lexicographic index
// order. C(7,5)=21 at worst, so enumeration is cheap.
func forEachFiveCardCombo(cards []deck.Card, visit func([]deck.Card)) {
	n := len(cards)
	indices := [5]int{0, 1, 2, 3, 4}
	combo := make([]deck.Card, 5)
	for {
		for i, idx := range indices {
			combo[i] = cards[idx]
		}
		visit(combo)

		i := 4
		for i >= 0 && indices[i] == n-5+i {
			i--
		}
		if i < 0 {
			return
		}
		indices[i]++
		for j := i + 1; j < 5; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}

func evaluateFive(cards []deck.Card) Evaluation {
	counts := make(map[int]int, 5)
	suits := make(map[deck.Suit]int, 4)
	values := make([]int, 0, 5)
	for _, card := range cards {
		v := card.Value()
		values = append(values, v)
		counts[v]++
		suits[card.Suit]++
	}

	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	unique := uniqueInts(values)

	isFlush := false
	for _, count := range suits {
		if count == 5 {
			isFlush = true
		}
	}
	straightHigh, isStraight := detectStraightHigh(unique)

	type countEntry struct{ value, count int }
	entries := make([]countEntry, 0, len(counts))
	for value, count := range counts {
		entries = append(entries, countEntry{value, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].value > entries[j].value
	})
	singles := func() []int {
		kickers := make([]int, 0, 5)
		for _, e := range entries {
			if e.count == 1 {
				kickers = append(kickers, e.value)
			}
		}
		sort.Sort(sort.Reverse(sort.IntSlice(kickers)))
		return kickers
	}

	primary := entries[0]

	switch {
	case isStraight && isFlush:
		desc := fmt.Sprintf("Straight flush (%s)", describeCards(cards))
		if straightHigh == int(deck.Ace) {
			desc = "Royal flush"
		}
		return finish(StraightFlush, []int{straightHigh}, desc)

	case primary.count == 4:
		kicker := singles()[0]
		return finish(FourOfAKind, []int{primary.value, kicker},
			fmt.Sprintf("Four of a kind (%s)", valueName(primary.value)))

	case primary.count == 3 && len(entries) > 1 && entries[1].count == 2:
		return finish(FullHouse, []int{primary.value, entries[1].value},
			fmt.Sprintf("Full house (%ss full of %ss)", valueName(primary.value), valueName(entries[1].value)))

	case isFlush:
		return finish(Flush, values, fmt.Sprintf("Flush (%s)", describeCards(cards)))

	case isStraight:
		return finish(Straight, []int{straightHigh},
			fmt.Sprintf("Straight (%s)", describeStraight(straightHigh)))

	case primary.count == 3:
		tie := append([]int{primary.value}, singles()...)
		return finish(ThreeOfAKind, tie,
			fmt.Sprintf("Three of a kind (%s)", valueName(primary.value)))

	case primary.count == 2 && len(entries) > 1 && entries[1].count == 2:
		hi, lo := primary.value, entries[1].value
		if lo > hi {
			hi, lo = lo, hi
		}
		tie := append([]int{hi, lo}, singles()...)
		return finish(TwoPair, tie,
			fmt.Sprintf("Two pair (%s & %s)", valueName(hi), valueName(lo)))

	case primary.count == 2:
		tie := append([]int{primary.value}, singles()...)
		return finish(Pair, tie, fmt.Sprintf("Pair of %ss", valueName(primary.value)))

	default:
		return finish(HighCard, values, fmt.Sprintf("High card %s", valueName(values[0])))
	}
}

func finish(class RankClass, tieBreakers []int, description string) Evaluation {
	return Evaluation{
		Class:       class,
		TieBreakers: tieBreakers,
		Strength:    encodeStrength(class, tieBreakers),
		Description: description,
	}
}

// encodeStrength folds a tie-breaker vector into the category's slot.
// The folded vector is always below 15^6, so any higher class outranks
// any tie-breaker combination in a lower one.
func encodeStrength(class RankClass, tieBreakers []int) int {
	folded := 0
	for _, v := range tieBreakers {
		folded = folded*tieBreakerBase + v
	}
	return int(class)*categoryWeight + folded
}

// detectStraightHigh returns the high card of a straight over unique
// descending values, treating A-2-3-4-5 as a five-high straight.
func detectStraightHigh(unique []int) (int, bool) {
	if len(unique) < 5 {
		return 0, false
	}
	if unique[0]-unique[4] == 4 {
		return unique[0], true
	}
	if contains(unique, 14) && contains(unique, 5) && contains(unique, 4) &&
		contains(unique, 3) && contains(unique, 2) {
		return 5, true
	}
	return 0, false
}

func uniqueInts(sorted []int) []int {
	out := make([]int, 0, len(sorted))
	for i, v := range sorted {
		if i == 0 || sorted[i-1] != v {
			out = append(out, v)
		}
	}
	return out
}

func contains(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func valueName(value int) string {
	return deck.Rank(value).Name()
}

func describeCards(cards []deck.Card) string {
	codes := deck.Codes(cards)
	sort.Strings(codes)
	return strings.Join(codes, " ")
}

func describeStraight(high int) string {
	switch high {
	case int(deck.Ace):
		return "Ace high"
	case int(deck.Five):
		return "Five high"
	default:
		return valueName(high) + " high"
	}
}
