package game

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a game session.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var AllStatuses = map[Status]struct{}{
	StatusUpcoming:  {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Game is one scheduled pickup session. Games start upcoming and move to
// completed through score finalization, or to cancelled by an organizer.
// Cancellation keeps memberships in place for the historical record.
type Game struct {
	ID        string
	Kickoff   time.Time
	Location  string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.Kickoff.IsZero() {
		return fmt.Errorf("game kickoff is required")
	}
	if strings.TrimSpace(g.Location) == "" {
		return fmt.Errorf("game location is required")
	}
	if _, ok := AllStatuses[g.Status]; !ok {
		return fmt.Errorf("invalid game status: %s", g.Status)
	}
	return nil
}

// Team labels are fixed; every balanced game has exactly these two sides.
const (
	TeamLabelA = "Team A"
	TeamLabelB = "Team B"
)

// Team is one of the two balanced sides of a game. Score stays nil until
// the game is finalized.
type Team struct {
	ID          string
	GameID      string
	Label       string
	TotalRating float64
	Score       *int
	PlayerIDs   []string
	CreatedAt   time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.GameID == "" {
		return fmt.Errorf("team game id is required")
	}
	if t.Label != TeamLabelA && t.Label != TeamLabelB {
		return fmt.Errorf("invalid team label: %s", t.Label)
	}
	if len(t.PlayerIDs) == 0 {
		return fmt.Errorf("team must have at least one player")
	}
	return nil
}
