package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the wire letter for a suit (S, H, D, C)
func (s Suit) String() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	default:
		return "?"
	}
}

// Rank represents a card rank. Values run 2..14 with Ace high.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the wire letter for a rank
func (r Rank) String() string {
	switch r {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Name returns the spoken name of a rank, used in hand descriptions
func (r Rank) Name() string {
	switch r {
	case Ten:
		return "Ten"
	case Jack:
		return "Jack"
	case Queen:
		return "Queen"
	case King:
		return "King"
	case Ace:
		return "Ace"
	default:
		return r.String()
	}
}

// Card represents a playing card. Equality is by (rank, suit).
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Code returns the two-character wire code for a card (e.g. "AS", "TD")
func (c Card) Code() string {
	return c.Rank.String() + c.Suit.String()
}

// String returns the wire code
func (c Card) String() string {
	return c.Code()
}

// Value returns the numeric rank value (2..14, Ace high)
func (c Card) Value() int {
	return int(c.Rank)
}

type cardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// MarshalJSON encodes a card as {"rank":"A","suit":"S"}
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Rank: c.Rank.String(), Suit: c.Suit.String()})
}

// UnmarshalJSON decodes the {"rank","suit"} wire form
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	card, err := ParseCard(cj.Rank + cj.Suit)
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// ParseCard parses a two-character card code. Case insensitive.
func ParseCard(code string) (Card, error) {
	if len(code) != 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	code = strings.ToUpper(code)

	var rank Rank
	switch code[0] {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = Rank(code[0] - '0')
	case 'T':
		rank = Ten
	case 'J':
		rank = Jack
	case 'Q':
		rank = Queen
	case 'K':
		rank = King
	case 'A':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank %q in card code %q", string(code[0]), code)
	}

	var suit Suit
	switch code[1] {
	case 'S':
		suit = Spades
	case 'H':
		suit = Hearts
	case 'D':
		suit = Diamonds
	case 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit %q in card code %q", string(code[1]), code)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a string of card codes, optionally space separated
// (e.g. "ASKSQSJSTS" or "AS KS QS JS TS").
func ParseCards(input string) ([]Card, error) {
	input = strings.ReplaceAll(input, " ", "")
	if len(input)%2 != 0 {
		return nil, fmt.Errorf("card string %q has odd length", input)
	}
	cards := make([]Card, 0, len(input)/2)
	for i := 0; i < len(input); i += 2 {
		card, err := ParseCard(input[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Codes returns the wire codes for a slice of cards, in order
func Codes(cards []Card) []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.Code()
	}
	return codes
}
