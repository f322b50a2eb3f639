package roster

import (
	"errors"
	"sort"
)

var ErrNoPlayers = errors.New("no players to balance")

// RatedPlayer is the balancer's view of one participant.
type RatedPlayer struct {
	ID     string
	Name   string
	Rating float64
}

// TeamSplit is the outcome of balancing one participant pool.
type TeamSplit struct {
	SideA  []RatedPlayer
	SideB  []RatedPlayer
	TotalA float64
	TotalB float64
}

// BalanceTeams partitions players into two sides using a greedy running-sum
// rule: players are taken in descending rating order and each goes to the
// side with the lower running total, side A winning exact ties. The sort is
// stable, so identical input always produces the identical split. Linear-time
// approximation of the minimum rating-gap bipartition; not optimal for every
// multiset, but good enough for a 7v7 pickup game.
func BalanceTeams(players []RatedPlayer) (TeamSplit, error) {
	if len(players) == 0 {
		return TeamSplit{}, ErrNoPlayers
	}

	sorted := append([]RatedPlayer(nil), players...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})

	var split TeamSplit
	for _, p := range sorted {
		if split.TotalA <= split.TotalB {
			split.SideA = append(split.SideA, p)
			split.TotalA += p.Rating
		} else {
			split.SideB = append(split.SideB, p)
			split.TotalB += p.Rating
		}
	}

	return split, nil
}
