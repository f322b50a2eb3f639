package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	idgen "github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/lock"
)

// JoinGameInput is the incoming payload for joining a game roster.
type JoinGameInput struct {
	PlayerID string
	GameID   string
}

// LeaveGameInput is the incoming payload for leaving a game roster.
type LeaveGameInput struct {
	PlayerID string
	GameID   string
}

// LeaveResult reports the outcome of a leave, including the reserve promoted
// into the vacated participant slot, if any.
type LeaveResult struct {
	Departed Membership
	Promoted *Membership
}

// Membership is the usecase view of one join record.
type Membership = membership.Membership

// RosterService admits players to game rosters and promotes reserves on
// vacancies. Every mutation of one game's roster runs under that game's
// keyed mutex, so the capacity check and the insert (and the leave and its
// promotion) are single critical sections.
type RosterService struct {
	gameRepo       game.Repository
	membershipRepo membership.Repository
	limits         roster.Limits
	locks          *lock.Keyed
	publisher      EventPublisher
	idGen          idgen.Generator
	logger         *slog.Logger
	now            func() time.Time
}

func NewRosterService(
	gameRepo game.Repository,
	membershipRepo membership.Repository,
	limits roster.Limits,
	locks *lock.Keyed,
	publisher EventPublisher,
	idGen idgen.Generator,
	logger *slog.Logger,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}
	if locks == nil {
		locks = lock.NewKeyed()
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}

	return &RosterService{
		gameRepo:       gameRepo,
		membershipRepo: membershipRepo,
		limits:         limits,
		locks:          locks,
		publisher:      publisher,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

// Join admits the player as participant while slots remain, then as reserve,
// and rejects once both caps are reached.
func (s *RosterService) Join(ctx context.Context, input JoinGameInput) (Membership, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Join")
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.GameID = strings.TrimSpace(input.GameID)
	if input.PlayerID == "" {
		return Membership{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.GameID == "" {
		return Membership{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	release := s.locks.Acquire(input.GameID)
	defer release()

	g, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return Membership{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return Membership{}, fmt.Errorf("%w: game %s", ErrNotFound, input.GameID)
	}
	if g.Status != game.StatusUpcoming {
		return Membership{}, fmt.Errorf("%w: %w: cannot join a %s game", ErrConflict, ErrGameNotUpcoming, g.Status)
	}

	if _, joined, err := s.membershipRepo.GetByPlayerAndGame(ctx, input.PlayerID, input.GameID); err != nil {
		return Membership{}, fmt.Errorf("check existing membership: %w", err)
	} else if joined {
		return Membership{}, fmt.Errorf("%w: %w", ErrConflict, ErrAlreadyJoined)
	}

	members, err := s.membershipRepo.ListByGame(ctx, input.GameID)
	if err != nil {
		return Membership{}, fmt.Errorf("list game roster: %w", err)
	}
	participants, reserves := countRoles(members)

	role, err := roster.DecideJoin(participants, reserves, s.limits)
	if err != nil {
		return Membership{}, fmt.Errorf("%w: %w (%d participants, %d reserves)", ErrConflict, err, participants, reserves)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return Membership{}, fmt.Errorf("generate membership id: %w", err)
	}

	created, err := s.membershipRepo.Create(ctx, membership.Membership{
		ID:       id,
		GameID:   input.GameID,
		PlayerID: input.PlayerID,
		Role:     role,
		JoinedAt: s.now().UTC(),
	})
	if err != nil {
		return Membership{}, fmt.Errorf("create membership: %w", err)
	}

	s.publish(ctx, Event{Type: EventPlayerJoined, GameID: input.GameID, PlayerID: input.PlayerID})

	return created, nil
}

// Leave removes the player's membership. When a participant departs, the
// earliest-joined reserve is promoted within the same critical section.
func (s *RosterService) Leave(ctx context.Context, input LeaveGameInput) (LeaveResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Leave")
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.GameID = strings.TrimSpace(input.GameID)
	if input.PlayerID == "" {
		return LeaveResult{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.GameID == "" {
		return LeaveResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	release := s.locks.Acquire(input.GameID)
	defer release()

	departing, exists, err := s.membershipRepo.GetByPlayerAndGame(ctx, input.PlayerID, input.GameID)
	if err != nil {
		return LeaveResult{}, fmt.Errorf("get membership: %w", err)
	}
	if !exists {
		return LeaveResult{}, fmt.Errorf("%w: %w", ErrNotFound, ErrNotJoined)
	}

	if err := s.membershipRepo.Delete(ctx, departing.ID); err != nil {
		return LeaveResult{}, fmt.Errorf("delete membership: %w", err)
	}

	result := LeaveResult{Departed: departing}
	s.publish(ctx, Event{Type: EventPlayerLeft, GameID: input.GameID, PlayerID: input.PlayerID})

	members, err := s.membershipRepo.ListByGame(ctx, input.GameID)
	if err != nil {
		return LeaveResult{}, fmt.Errorf("list game roster: %w", err)
	}

	queue := make([]roster.QueueEntry, 0, len(members))
	byID := make(map[string]membership.Membership, len(members))
	for _, m := range members {
		if m.Role != roster.RoleReserve {
			continue
		}
		queue = append(queue, roster.QueueEntry{
			MembershipID: m.ID,
			PlayerID:     m.PlayerID,
			JoinedAt:     m.JoinedAt,
			Seq:          m.Seq,
		})
		byID[m.ID] = m
	}

	picked, ok := roster.PickPromotion(departing.Role, queue)
	if !ok {
		return result, nil
	}

	if err := s.membershipRepo.UpdateRole(ctx, picked.MembershipID, roster.RoleParticipant); err != nil {
		return LeaveResult{}, fmt.Errorf("promote reserve: %w", err)
	}

	promoted := byID[picked.MembershipID]
	promoted.Role = roster.RoleParticipant
	result.Promoted = &promoted

	s.publish(ctx, Event{Type: EventReservePromoted, GameID: input.GameID, PlayerID: promoted.PlayerID})

	return result, nil
}

func (s *RosterService) publish(ctx context.Context, event Event) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, []Event{event}); err != nil {
		s.logger.WarnContext(ctx, "publish roster event failed",
			"event_type", string(event.Type),
			"game_id", event.GameID,
			"error", err,
		)
	}
}

func countRoles(members []membership.Membership) (participants, reserves int) {
	for _, m := range members {
		switch m.Role {
		case roster.RoleParticipant:
			participants++
		case roster.RoleReserve:
			reserves++
		}
	}
	return participants, reserves
}
