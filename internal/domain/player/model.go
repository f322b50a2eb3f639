package player

import (
	"fmt"
	"strings"
	"time"
)

// Player is a registered member of the pickup group. Rating is the mean of
// all per-game grades the player has received; Points accumulate from
// settled games.
type Player struct {
	ID        string
	Name      string
	Email     string
	Rating    float64
	Points    float64
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("player email is required")
	}
	if p.Rating < 0 {
		return fmt.Errorf("player rating must not be negative")
	}
	if p.Points < 0 {
		return fmt.Errorf("player points must not be negative")
	}
	return nil
}

// Standing is one leaderboard row: the player plus how many games they have
// appeared in.
type Standing struct {
	Player
	GamesPlayed int
}
