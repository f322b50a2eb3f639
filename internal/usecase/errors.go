package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Business-rule errors surfaced to callers with a specific reason; each is
// wrapped onto one of the sentinels above at the point of detection.
var (
	ErrAlreadyJoined         = errors.New("player already joined this game")
	ErrNotJoined             = errors.New("player is not a member of this game")
	ErrGameNotUpcoming       = errors.New("game is not upcoming")
	ErrGameAlreadySettled    = errors.New("game scores already recorded")
	ErrNotEnoughParticipants = errors.New("not enough participants to generate teams")
	ErrTeamsNotGenerated     = errors.New("teams have not been generated for this game")
	ErrEmailTaken            = errors.New("email address is already registered")
)
