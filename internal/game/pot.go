package game

import "sort"

// Pot is a main or side pot together with the seat IDs eligible to win it.
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligiblePlayers"`
}

// BuildSidePots partitions the hand's total committed chips into pots based
// on each active player's cumulative commitment. Each distinct commitment
// level above the previous one forms a layer sized
// (level - previous) x (players committed at or above it), eligible to
// exactly those players. Chips the layers do not account for, which is
// folded players' money, are prepended as a pot open to all active players.
func BuildSidePots(players []*Player, total int) []Pot {
	active := make([]*Player, 0, len(players))
	for _, p := range players {
		if !p.Folded {
			active = append(active, p)
		}
	}

	if len(active) <= 1 {
		return []Pot{{Amount: total, Eligible: playerIDs(active)}}
	}

	sorted := make([]*Player, len(active))
	copy(sorted, active)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TotalBet < sorted[j].TotalBet })

	var pots []Pot
	remaining := total
	processed := 0
	for i, p := range sorted {
		if p.TotalBet == 0 || (i > 0 && p.TotalBet == sorted[i-1].TotalBet) {
			continue
		}
		layer := (p.TotalBet - processed) * (len(sorted) - i)
		if layer <= 0 {
			continue
		}
		pots = append(pots, Pot{
			Amount:   layer,
			Eligible: playerIDs(sorted[i:]),
		})
		remaining -= layer
		processed = p.TotalBet
	}

	if len(pots) == 0 || remaining > 0 {
		pots = append([]Pot{{Amount: remaining, Eligible: playerIDs(active)}}, pots...)
	}
	return pots
}

// TotalPots sums the amounts across a pot list.
func TotalPots(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

func playerIDs(players []*Player) []int {
	ids := make([]int, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids
}
