package roster

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrRosterFull        = errors.New("roster is full")
	ErrRatingOutOfRange  = errors.New("game rating out of range")
	ErrUnknownRosterRole = errors.New("unknown roster role")
)

// Role is the admission status of a player inside one game roster.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleReserve     Role = "reserve"
)

var AllRoles = map[Role]struct{}{
	RoleParticipant: {},
	RoleReserve:     {},
}

const (
	// MinGameRating and MaxGameRating bound a post-game grade.
	MinGameRating = 1.0
	MaxGameRating = 10.0

	// DefaultPlayerRating is the neutral midpoint assigned on registration.
	DefaultPlayerRating = 5.0
)

// Limits stores roster admission parameters.
type Limits struct {
	MaxParticipants int
	MaxReserves     int
}

func DefaultLimits() Limits {
	return Limits{
		MaxParticipants: 14,
		MaxReserves:     4,
	}
}

func (l Limits) Validate() error {
	if l.MaxParticipants <= 0 {
		return errors.New("max participants must be greater than zero")
	}
	if l.MaxReserves < 0 {
		return errors.New("max reserves must not be negative")
	}
	return nil
}

// DecideJoin picks the role for a new join given current roster counts.
// Participant slots fill first, then the reserve queue; a roster with both
// caps reached rejects the join.
func DecideJoin(participants, reserves int, limits Limits) (Role, error) {
	if participants < limits.MaxParticipants {
		return RoleParticipant, nil
	}
	if reserves < limits.MaxReserves {
		return RoleReserve, nil
	}
	return "", ErrRosterFull
}

// QueueEntry is one reserve waiting for a participant slot.
type QueueEntry struct {
	MembershipID string
	PlayerID     string
	JoinedAt     time.Time
	Seq          int64
}

// PickPromotion selects the reserve promoted after a leave. Promotion only
// happens when a participant departs; reserves are served strictly FIFO by
// join time, with the insertion sequence breaking timestamp ties.
func PickPromotion(departing Role, reserves []QueueEntry) (QueueEntry, bool) {
	if departing != RoleParticipant || len(reserves) == 0 {
		return QueueEntry{}, false
	}

	queue := append([]QueueEntry(nil), reserves...)
	sort.SliceStable(queue, func(i, j int) bool {
		if !queue[i].JoinedAt.Equal(queue[j].JoinedAt) {
			return queue[i].JoinedAt.Before(queue[j].JoinedAt)
		}
		return queue[i].Seq < queue[j].Seq
	})

	return queue[0], true
}

// ValidateGameRating checks a post-game grade against the allowed scale.
func ValidateGameRating(value float64) error {
	if value < MinGameRating || value > MaxGameRating {
		return ErrRatingOutOfRange
	}
	return nil
}
