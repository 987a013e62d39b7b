package deck

import (
	"encoding/json"
	"testing"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "ASKSQSJSTS",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: King, Suit: Spades},
				{Rank: Queen, Suit: Spades},
				{Rank: Jack, Suit: Spades},
				{Rank: Ten, Suit: Spades},
			},
		},
		{
			name:  "mixed suits",
			input: "AHKDQCJS9S",
			expected: []Card{
				{Rank: Ace, Suit: Hearts},
				{Rank: King, Suit: Diamonds},
				{Rank: Queen, Suit: Clubs},
				{Rank: Jack, Suit: Spades},
				{Rank: Nine, Suit: Spades},
			},
		},
		{
			name:  "case insensitive",
			input: "asKhQd",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: King, Suit: Hearts},
				{Rank: Queen, Suit: Diamonds},
			},
		},
		{
			name:    "invalid rank",
			input:   "XS",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "AX",
			wantErr: true,
		},
		{
			name:    "odd length",
			input:   "ASK",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := ParseCards(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cards) != len(tt.expected) {
				t.Fatalf("expected %d cards, got %d", len(tt.expected), len(cards))
			}
			for i, card := range cards {
				if card != tt.expected[i] {
					t.Errorf("card %d: expected %v, got %v", i, tt.expected[i], card)
				}
			}
		})
	}
}

func TestCardCodeRoundTrip(t *testing.T) {
	for _, card := range New() {
		parsed, err := ParseCard(card.Code())
		if err != nil {
			t.Fatalf("parsing %q: %v", card.Code(), err)
		}
		if parsed != card {
			t.Errorf("round trip %q: got %v", card.Code(), parsed)
		}
	}
}

func TestCardJSON(t *testing.T) {
	card := NewCard(Ten, Diamonds)
	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"rank":"T","suit":"D"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded Card
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != card {
		t.Errorf("expected %v, got %v", card, decoded)
	}
}
