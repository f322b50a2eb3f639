package membership

import (
	"fmt"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/roster"
)

// Membership is one player's join record for one game. At most one exists
// per (player, game) pair. Rating is the post-game grade, nil until the
// game has been graded. Seq is an insertion-stable sequence used to break
// join-timestamp ties in the reserve queue.
type Membership struct {
	ID       string
	GameID   string
	PlayerID string
	Role     roster.Role
	Rating   *float64
	JoinedAt time.Time
	Seq      int64
}

func (m Membership) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("membership id is required")
	}
	if m.GameID == "" {
		return fmt.Errorf("membership game id is required")
	}
	if m.PlayerID == "" {
		return fmt.Errorf("membership player id is required")
	}
	if _, ok := roster.AllRoles[m.Role]; !ok {
		return fmt.Errorf("%w: %s", roster.ErrUnknownRosterRole, m.Role)
	}
	if m.Rating != nil {
		if err := roster.ValidateGameRating(*m.Rating); err != nil {
			return err
		}
	}
	return nil
}
