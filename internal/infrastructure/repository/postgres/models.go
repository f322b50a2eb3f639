package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/roster"
)

type playerTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	Rating    float64    `db:"rating"`
	Points    float64    `db:"points"`
	IsAdmin   bool       `db:"is_admin"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:        m.PublicID,
		Name:      m.Name,
		Email:     m.Email,
		Rating:    m.Rating,
		Points:    m.Points,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type gameTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	KickoffAt time.Time  `db:"kickoff_at"`
	Location  string     `db:"location"`
	Status    string     `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:        m.PublicID,
		Kickoff:   m.KickoffAt,
		Location:  m.Location,
		Status:    game.Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type membershipTableModel struct {
	Seq        int64           `db:"seq"`
	PublicID   string          `db:"public_id"`
	GameID     string          `db:"game_public_id"`
	PlayerID   string          `db:"player_public_id"`
	Role       string          `db:"role"`
	GameRating sql.NullFloat64 `db:"game_rating"`
	JoinedAt   time.Time       `db:"joined_at"`
	DeletedAt  *time.Time      `db:"deleted_at"`
}

func (m membershipTableModel) toDomain() membership.Membership {
	out := membership.Membership{
		ID:       m.PublicID,
		GameID:   m.GameID,
		PlayerID: m.PlayerID,
		Role:     roster.Role(m.Role),
		JoinedAt: m.JoinedAt,
		Seq:      m.Seq,
	}
	if m.GameRating.Valid {
		rating := m.GameRating.Float64
		out.Rating = &rating
	}
	return out
}

type teamTableModel struct {
	ID          int64         `db:"id"`
	PublicID    string        `db:"public_id"`
	GameID      string        `db:"game_public_id"`
	Label       string        `db:"label"`
	TotalRating float64       `db:"total_rating"`
	Score       sql.NullInt64 `db:"score"`
	CreatedAt   time.Time     `db:"created_at"`
	DeletedAt   *time.Time    `db:"deleted_at"`
}

func (m teamTableModel) toDomain(playerIDs []string) game.Team {
	out := game.Team{
		ID:          m.PublicID,
		GameID:      m.GameID,
		Label:       m.Label,
		TotalRating: m.TotalRating,
		PlayerIDs:   playerIDs,
		CreatedAt:   m.CreatedAt,
	}
	if m.Score.Valid {
		score := int(m.Score.Int64)
		out.Score = &score
	}
	return out
}
