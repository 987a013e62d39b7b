package deck

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// AlgorithmSHA256 is the only commitment hash algorithm in use.
const AlgorithmSHA256 = "sha256"

const (
	cardSaltBytes   = 24
	masterSaltBytes = 32
)

// SecretCard pairs a deck slot with the card and salt needed to prove it.
// Secrets are owned by the hand that committed the deck and are released
// one at a time as cards are dealt.
type SecretCard struct {
	Position int    `json:"position"`
	Card     Card   `json:"card"`
	Salt     string `json:"salt"`
	Hash     string `json:"hash"`
}

// Commitment is the published promise over a shuffled deck. MasterSalt is
// withheld from clients until the hand resolves; Public strips it.
type Commitment struct {
	Algorithm   string   `json:"algorithm"`
	DeckHash    string   `json:"deckHash"`
	HashedCards []string `json:"hashedCards"`
	MasterSalt  string   `json:"masterSalt,omitempty"`
}

// Public returns the commitment with the master salt withheld.
func (c Commitment) Public() Commitment {
	c.MasterSalt = ""
	return c
}

// Reveal is the proof for exactly one dealt card. It verifies against the
// published per-card hash without exposing any other slot.
type Reveal struct {
	Position int    `json:"position"`
	Card     Card   `json:"card"`
	Salt     string `json:"salt"`
	Hash     string `json:"hash"`
}

// CommittedDeck is a shuffled deck together with its commitment and the
// per-card secrets needed to produce reveals.
type CommittedDeck struct {
	Cards      []Card
	Commitment Commitment
	Secrets    []SecretCard
}

// Commit shuffles a fresh deck and builds its commitment: one salted hash
// per slot plus a master-salted hash over the full card order. randInt
// drives the shuffle; nil selects the crypto/rand source.
func Commit(randInt RandInt) (*CommittedDeck, error) {
	cards := Shuffle(New(), randInt)
	codes := Codes(cards)

	masterSalt, err := randomHex(masterSaltBytes)
	if err != nil {
		return nil, err
	}

	hashedCards := make([]string, len(cards))
	secrets := make([]SecretCard, len(cards))
	for i, code := range codes {
		salt, err := randomHex(cardSaltBytes)
		if err != nil {
			return nil, err
		}
		hash := HashCard(i, code, salt)
		hashedCards[i] = hash
		secrets[i] = SecretCard{Position: i, Card: cards[i], Salt: salt, Hash: hash}
	}

	return &CommittedDeck{
		Cards: cards,
		Commitment: Commitment{
			Algorithm:   AlgorithmSHA256,
			DeckHash:    DeriveDeckHash(codes, masterSalt),
			HashedCards: hashedCards,
			MasterSalt:  masterSalt,
		},
		Secrets: secrets,
	}, nil
}

// Reveal returns the proof for one deck position.
func (d *CommittedDeck) Reveal(position int) (Reveal, error) {
	if position < 0 || position >= len(d.Secrets) {
		return Reveal{}, fmt.Errorf("deck: no secret for position %d", position)
	}
	s := d.Secrets[position]
	return Reveal{Position: s.Position, Card: s.Card, Salt: s.Salt, Hash: s.Hash}, nil
}

// HashCard computes the per-slot commitment hash H(position|code|salt).
func HashCard(position int, code, salt string) string {
	return hashString(strconv.Itoa(position) + "|" + code + "|" + salt)
}

// DeriveDeckHash computes the whole-deck hash H(code0|code1|...|code51:masterSalt).
func DeriveDeckHash(codes []string, masterSalt string) string {
	return hashString(strings.Join(codes, "|") + ":" + masterSalt)
}

// VerifyReveal checks a single card reveal against a commitment. Pure:
// a failed verification only signals mistrust, it changes nothing.
func VerifyReveal(r Reveal, c Commitment) bool {
	if r.Position < 0 || r.Position >= len(c.HashedCards) {
		return false
	}
	hash := HashCard(r.Position, r.Card.Code(), r.Salt)
	return c.HashedCards[r.Position] == hash && hash == r.Hash
}

func hashString(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("deck: generating salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
