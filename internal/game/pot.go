package game

import "sort"

// buildPots layers the hand's pots from cumulative contributions. Each
// layer takes the smallest remaining contribution from every player still
// owing chips; players who have not folded at that level are eligible for
// the layer. A hand with no all-ins produces a single pot.
func buildPots(players []*Player) []Pot {
	type contribution struct {
		player    *Player
		remaining int
	}

	var contributions []contribution
	for _, p := range players {
		if p.TotalBet > 0 {
			contributions = append(contributions, contribution{player: p, remaining: p.TotalBet})
		}
	}

	var pots []Pot
	for {
		smallest := 0
		for _, c := range contributions {
			if c.remaining > 0 && (smallest == 0 || c.remaining < smallest) {
				smallest = c.remaining
			}
		}
		if smallest == 0 {
			break
		}

		pot := Pot{}
		for i := range contributions {
			c := &contributions[i]
			if c.remaining == 0 {
				continue
			}
			c.remaining -= smallest
			pot.Amount += smallest
			if !c.player.HasFolded {
				pot.EligiblePlayerIDs = append(pot.EligiblePlayerIDs, c.player.ID)
			}
		}
		sort.Strings(pot.EligiblePlayerIDs)
		pots = append(pots, pot)
	}
	return pots
}
