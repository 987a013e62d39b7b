package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func potPlayer(id string, totalBet int, folded bool) *Player {
	return &Player{ID: id, Seat: 0, TotalBet: totalBet, HasFolded: folded, Status: StatusWaiting}
}

func TestBuildPotsSinglePot(t *testing.T) {
	players := []*Player{
		potPlayer("a", 100, false),
		potPlayer("b", 100, false),
		potPlayer("c", 100, false),
	}

	pots := buildPots(players)
	assert.Equal(t, []Pot{
		{Amount: 300, EligiblePlayerIDs: []string{"a", "b", "c"}},
	}, pots)
}

func TestBuildPotsLayersAllIns(t *testing.T) {
	// A short stack all in for 100 against two players who put in 300:
	// a main pot of 300 everyone can win and a 400 side pot the short
	// stack cannot touch.
	players := []*Player{
		potPlayer("short", 100, false),
		potPlayer("mid", 300, false),
		potPlayer("big", 300, false),
	}

	pots := buildPots(players)
	assert.Equal(t, []Pot{
		{Amount: 300, EligiblePlayerIDs: []string{"big", "mid", "short"}},
		{Amount: 400, EligiblePlayerIDs: []string{"big", "mid"}},
	}, pots)
}

func TestBuildPotsFoldedChipsStayInButCannotWin(t *testing.T) {
	players := []*Player{
		potPlayer("folder", 50, true),
		potPlayer("a", 200, false),
		potPlayer("b", 200, false),
	}

	pots := buildPots(players)
	assert.Equal(t, []Pot{
		{Amount: 150, EligiblePlayerIDs: []string{"a", "b"}},
		{Amount: 300, EligiblePlayerIDs: []string{"a", "b"}},
	}, pots)
}

func TestBuildPotsThreeWayLayering(t *testing.T) {
	players := []*Player{
		potPlayer("a", 50, false),
		potPlayer("b", 120, false),
		potPlayer("c", 400, false),
		potPlayer("d", 400, false),
	}

	pots := buildPots(players)
	assert.Equal(t, []Pot{
		{Amount: 200, EligiblePlayerIDs: []string{"a", "b", "c", "d"}},
		{Amount: 210, EligiblePlayerIDs: []string{"b", "c", "d"}},
		{Amount: 560, EligiblePlayerIDs: []string{"c", "d"}},
	}, pots)
}

func TestBuildPotsIgnoresZeroContributions(t *testing.T) {
	players := []*Player{
		potPlayer("bench", 0, false),
		potPlayer("a", 20, false),
		potPlayer("b", 20, false),
	}

	pots := buildPots(players)
	assert.Equal(t, []Pot{
		{Amount: 40, EligiblePlayerIDs: []string{"a", "b"}},
	}, pots)
}
