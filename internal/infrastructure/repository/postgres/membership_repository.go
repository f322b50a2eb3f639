package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

type MembershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, m membership.Membership) (membership.Membership, error) {
	const query = `
INSERT INTO memberships (public_id, game_public_id, player_public_id, role, joined_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING seq`

	var seq int64
	if err := r.db.GetContext(ctx, &seq, query,
		m.ID, m.GameID, m.PlayerID, string(m.Role), m.JoinedAt,
	); err != nil {
		return membership.Membership{}, fmt.Errorf("insert membership: %w", err)
	}

	m.Seq = seq
	return m, nil
}

func (r *MembershipRepository) GetByPlayerAndGame(ctx context.Context, playerID, gameID string) (membership.Membership, bool, error) {
	query, args, err := qb.Select("*").From("memberships").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("game_public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return membership.Membership{}, false, fmt.Errorf("build get membership query: %w", err)
	}

	var row membershipTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return membership.Membership{}, false, nil
		}
		return membership.Membership{}, false, fmt.Errorf("get membership: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MembershipRepository) ListByGame(ctx context.Context, gameID string) ([]membership.Membership, error) {
	query, args, err := qb.Select("*").From("memberships").
		Where(
			qb.Eq("game_public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("joined_at", "seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list game memberships query: %w", err)
	}

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select game memberships: %w", err)
	}

	out := make([]membership.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MembershipRepository) ListByPlayer(ctx context.Context, playerID string) ([]membership.Membership, error) {
	query, args, err := qb.Select("*").From("memberships").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("joined_at", "seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player memberships query: %w", err)
	}

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player memberships: %w", err)
	}

	out := make([]membership.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MembershipRepository) UpdateRole(ctx context.Context, membershipID string, role roster.Role) error {
	const query = `
UPDATE memberships
SET role = $2
WHERE public_id = $1
  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, membershipID, string(role))
	if err != nil {
		return fmt.Errorf("update membership role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update membership role affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("membership %s not found", membershipID)
	}

	return nil
}

// UpdateRatings writes the grade batch in one transaction so a failure on
// any entry rolls back the entries already written.
func (r *MembershipRepository) UpdateRatings(ctx context.Context, gameID string, ratings map[string]float64) error {
	const query = `
UPDATE memberships
SET game_rating = $3
WHERE game_public_id = $1
  AND player_public_id = $2
  AND deleted_at IS NULL`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rating batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for playerID, rating := range ratings {
		result, err := tx.ExecContext(ctx, query, gameID, playerID, rating)
		if err != nil {
			return fmt.Errorf("update membership rating: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update membership rating affected rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("membership for player %s in game %s not found", playerID, gameID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rating batch: %w", err)
	}
	return nil
}

func (r *MembershipRepository) Delete(ctx context.Context, membershipID string) error {
	const query = `
UPDATE memberships
SET deleted_at = NOW()
WHERE public_id = $1
  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, membershipID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete membership affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("membership %s not found", membershipID)
	}

	return nil
}

// AverageRating aggregates in the database so rating recomputation reads one
// row per player instead of walking every membership.
func (r *MembershipRepository) AverageRating(ctx context.Context, playerID string) (float64, int, error) {
	const query = `
SELECT COALESCE(AVG(game_rating), 0) AS avg_rating, COUNT(game_rating) AS graded
FROM memberships
WHERE player_public_id = $1
  AND game_rating IS NOT NULL
  AND deleted_at IS NULL`

	var row struct {
		AvgRating float64 `db:"avg_rating"`
		Graded    int     `db:"graded"`
	}
	if err := r.db.GetContext(ctx, &row, query, playerID); err != nil {
		return 0, 0, fmt.Errorf("aggregate membership ratings: %w", err)
	}

	return row.AvgRating, row.Graded, nil
}

func (r *MembershipRepository) GamesPlayedCounts(ctx context.Context) (map[string]int, error) {
	const query = `
SELECT player_public_id, COUNT(*) AS games_played
FROM memberships
WHERE deleted_at IS NULL
GROUP BY player_public_id`

	var rows []struct {
		PlayerID    string `db:"player_public_id"`
		GamesPlayed int    `db:"games_played"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count games played: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.PlayerID] = row.GamesPlayed
	}
	return counts, nil
}
