package roster

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestBalanceTeams_RejectsEmptyInput(t *testing.T) {
	if _, err := BalanceTeams(nil); !errors.Is(err, ErrNoPlayers) {
		t.Fatalf("expected ErrNoPlayers, got %v", err)
	}
}

func TestBalanceTeams_GreedyRunningSum(t *testing.T) {
	// Hand-traced: sorted descending, each player goes to the side with the
	// lower running sum, exact ties to side A.
	ratings := []float64{9, 8, 8, 7, 7, 6, 6, 5, 5, 4, 4, 3, 3, 2}
	players := make([]RatedPlayer, 0, len(ratings))
	for i, r := range ratings {
		players = append(players, RatedPlayer{ID: fmt.Sprintf("p%02d", i), Rating: r})
	}

	split, err := BalanceTeams(players)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}

	if split.TotalA != 39 || split.TotalB != 38 {
		t.Fatalf("expected totals A=39 B=38, got A=%v B=%v", split.TotalA, split.TotalB)
	}
	if len(split.SideA) != 7 || len(split.SideB) != 7 {
		t.Fatalf("expected a 7v7 split, got %dv%d", len(split.SideA), len(split.SideB))
	}

	wantA := []float64{9, 7, 7, 5, 5, 3, 3}
	wantB := []float64{8, 8, 6, 6, 4, 4, 2}
	for i, p := range split.SideA {
		if p.Rating != wantA[i] {
			t.Fatalf("side A position %d: expected rating %v, got %v", i, wantA[i], p.Rating)
		}
	}
	for i, p := range split.SideB {
		if p.Rating != wantB[i] {
			t.Fatalf("side B position %d: expected rating %v, got %v", i, wantB[i], p.Rating)
		}
	}
}

func TestBalanceTeams_Deterministic(t *testing.T) {
	players := []RatedPlayer{
		{ID: "a", Rating: 7.5},
		{ID: "b", Rating: 7.5},
		{ID: "c", Rating: 6},
		{ID: "d", Rating: 4.25},
		{ID: "e", Rating: 4.25},
	}

	first, err := BalanceTeams(players)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	second, err := BalanceTeams(players)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical splits for identical input:\nfirst=%+v\nsecond=%+v", first, second)
	}
}

func TestBalanceTeams_TiesKeepInputOrder(t *testing.T) {
	players := []RatedPlayer{
		{ID: "first", Rating: 5},
		{ID: "second", Rating: 5},
	}

	split, err := BalanceTeams(players)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if split.SideA[0].ID != "first" || split.SideB[0].ID != "second" {
		t.Fatalf("stable sort broken: A=%s B=%s", split.SideA[0].ID, split.SideB[0].ID)
	}
}

func TestBalanceTeams_ConservesPlayers(t *testing.T) {
	players := make([]RatedPlayer, 0, 11)
	for i := 0; i < 11; i++ {
		players = append(players, RatedPlayer{ID: fmt.Sprintf("p%d", i), Rating: float64(i%5) + 1})
	}

	split, err := BalanceTeams(players)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}

	if len(split.SideA)+len(split.SideB) != len(players) {
		t.Fatalf("expected %d assigned players, got %d", len(players), len(split.SideA)+len(split.SideB))
	}

	seen := make(map[string]int)
	for _, p := range split.SideA {
		seen[p.ID]++
	}
	for _, p := range split.SideB {
		seen[p.ID]++
	}
	for _, p := range players {
		if seen[p.ID] != 1 {
			t.Fatalf("player %s assigned %d times", p.ID, seen[p.ID])
		}
	}
}
