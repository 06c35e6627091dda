package duel

import "errors"

// Rejected-precondition and staleness reasons. Every rejected operation maps
// to exactly one of these; callers surface the reason to the initiating
// participant.
var (
	ErrSelfChallenge      = errors.New("cannot challenge yourself")
	ErrAlreadyInDuel      = errors.New("participant is already in a duel")
	ErrPendingChallenge   = errors.New("participant already has a pending challenge")
	ErrOffline            = errors.New("participant is offline")
	ErrInsufficientFunds  = errors.New("insufficient funds for wager")
	ErrOutOfRange         = errors.New("participants are not close enough for a local duel")
	ErrArenaNotConfigured = errors.New("no arena is configured")
	ErrInventoryNotEmpty  = errors.New("inventory must be empty for a kit duel")
	ErrNoSuchOffer        = errors.New("no matching challenge offer")
	ErrRosterSize         = errors.New("roster size does not match the variant")
	ErrClosed             = errors.New("orchestrator is shut down")
)

// reason converts an error into the short code carried by notifications.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrSelfChallenge):
		return "self_challenge"
	case errors.Is(err, ErrAlreadyInDuel):
		return "already_in_duel"
	case errors.Is(err, ErrPendingChallenge):
		return "pending_challenge"
	case errors.Is(err, ErrOffline):
		return "offline"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrArenaNotConfigured):
		return "arena_not_configured"
	case errors.Is(err, ErrInventoryNotEmpty):
		return "inventory_not_empty"
	case errors.Is(err, ErrNoSuchOffer):
		return "no_such_offer"
	case errors.Is(err, ErrRosterSize):
		return "roster_size"
	case errors.Is(err, ErrClosed):
		return "shutting_down"
	}
	return "internal"
}
