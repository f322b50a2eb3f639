package roster

// Attendance points granted when a game is settled.
const (
	ParticipantPoints = 1.0
	ReservePoints     = 0.5
)

// Member is the settlement view of one roster membership.
type Member struct {
	PlayerID string
	Role     Role
}

// PointsDelta is the points change owed to one player after settlement.
type PointsDelta struct {
	PlayerID string
	Delta    float64
}

// SettlePoints converts a finalized game's roster into per-player point
// deltas: full credit for participants, half for reserves.
func SettlePoints(members []Member) []PointsDelta {
	deltas := make([]PointsDelta, 0, len(members))
	for _, m := range members {
		var delta float64
		switch m.Role {
		case RoleParticipant:
			delta = ParticipantPoints
		case RoleReserve:
			delta = ReservePoints
		}
		deltas = append(deltas, PointsDelta{PlayerID: m.PlayerID, Delta: delta})
	}
	return deltas
}
