package user

// Principal is the resolved identity of an authenticated request, produced
// by account-service token introspection. IsAdmin gates organizer-only
// operations (game management, team generation, grading, settlement).
type Principal struct {
	UserID  string
	Email   string
	Name    string
	IsAdmin bool
}
