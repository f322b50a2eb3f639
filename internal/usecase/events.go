package usecase

import (
	"context"
	"time"
)

// EventType identifies a roster lifecycle event pushed to subscribers.
type EventType string

const (
	EventPlayerJoined    EventType = "player.joined"
	EventPlayerLeft      EventType = "player.left"
	EventReservePromoted EventType = "reserve.promoted"
	EventTeamsGenerated  EventType = "teams.generated"
	EventGameSettled     EventType = "game.settled"
)

// Event is one roster lifecycle notification. PlayerID is empty for
// game-scoped events.
type Event struct {
	Type       EventType
	GameID     string
	PlayerID   string
	OccurredAt time.Time
}

// EventPublisher pushes roster events to an external webhook sink. Delivery
// is best effort; services log and continue on publish failure.
type EventPublisher interface {
	Publish(ctx context.Context, events []Event) error
}

// NopPublisher discards events. Services fall back to it when no webhook
// sink is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, []Event) error { return nil }
