package models

import "time"

// ChallengeOffer is a pending duel offer. It is created by SendChallenge and
// destroyed by exactly one of: acceptance, rejection, cancellation, or expiry.
type ChallengeOffer struct {
	Challenger       ParticipantID   `json:"challenger"`
	Challenged       ParticipantID   `json:"challenged"`
	ChallengerRoster []ParticipantID `json:"challenger_roster"`
	ChallengedRoster []ParticipantID `json:"challenged_roster"`
	Variant          Variant         `json:"variant"`
	Wager            int64           `json:"wager"`
	CreatedAt        time.Time       `json:"created_at"`
	ExpiresAt        time.Time       `json:"expires_at"`
}

// Participants returns every member of both rosters, challenger side first.
func (o *ChallengeOffer) Participants() []ParticipantID {
	out := make([]ParticipantID, 0, len(o.ChallengerRoster)+len(o.ChallengedRoster))
	out = append(out, o.ChallengerRoster...)
	out = append(out, o.ChallengedRoster...)
	return out
}
