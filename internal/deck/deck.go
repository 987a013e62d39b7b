// Package deck provides the card model, shuffled deck construction and the
// commit-reveal scheme that lets clients verify dealt cards after the fact.
package deck

import (
	"crypto/rand"
	"math/big"
)

// Size is the number of cards in a full deck
const Size = 52

// RandInt returns a uniform random integer in [0, upperExclusive).
// Injectable so shuffles are deterministic in tests.
type RandInt func(upperExclusive int) int

// CryptoRandInt is the default RandInt, backed by crypto/rand.
func CryptoRandInt(upperExclusive int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(upperExclusive)))
	if err != nil {
		panic("deck: crypto/rand failed: " + err.Error())
	}
	return int(n.Int64())
}

// New returns the 52 cards of a standard deck in suit-major order.
func New() []Card {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Shuffle returns a Fisher-Yates permutation of cards using randInt.
// The input slice is not modified.
func Shuffle(cards []Card, randInt RandInt) []Card {
	if randInt == nil {
		randInt = CryptoRandInt
	}
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := randInt(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
