package events

import (
	"time"

	"github.com/tgray07/duelcore/internal/models"
)

// Kind identifies a duel notification event.
type Kind string

const (
	KindChallengeSent      Kind = "ChallengeSent"
	KindChallengeReceived  Kind = "ChallengeReceived"
	KindChallengeRejected  Kind = "ChallengeRejected"
	KindChallengeCancelled Kind = "ChallengeCancelled"
	KindChallengeExpired   Kind = "ChallengeExpired"
	KindChallengeFailed    Kind = "ChallengeFailed"
	KindCountdownTick      Kind = "CountdownTick"
	KindDuelStarting       Kind = "DuelStarting"
	KindDuelStarted        Kind = "DuelStarted"
	KindElimination        Kind = "Elimination"
	KindDuelEnded          Kind = "DuelEnded"
	KindRivalry            Kind = "Rivalry"
)

// ChallengePayload describes a pending or resolved challenge offer.
type ChallengePayload struct {
	Challenger models.ParticipantID `json:"challenger"`
	Challenged models.ParticipantID `json:"challenged"`
	Variant    models.Variant       `json:"variant"`
	Wager      int64                `json:"wager"`
	WagerText  string               `json:"wager_text,omitempty"`
	ExpiresAt  time.Time            `json:"expires_at,omitempty"`
	Reason     string               `json:"reason,omitempty"`
}

// CountdownPayload is sent once per countdown tick.
type CountdownPayload struct {
	SessionID string `json:"session_id"`
	Remaining int    `json:"remaining"`
}

// SessionPayload describes a session transition.
type SessionPayload struct {
	SessionID string                 `json:"session_id"`
	Variant   models.Variant         `json:"variant"`
	RosterA   []models.ParticipantID `json:"roster_a"`
	RosterB   []models.ParticipantID `json:"roster_b"`
	Wager     int64                  `json:"wager"`
}

// EliminationPayload is sent when a participant falls or disconnects
// mid-session.
type EliminationPayload struct {
	SessionID    string               `json:"session_id"`
	Participant  models.ParticipantID `json:"participant"`
	Killer       models.ParticipantID `json:"killer,omitempty"`
	Disconnected bool                 `json:"disconnected,omitempty"`
}

// EndedPayload describes the outcome of a settled session.
type EndedPayload struct {
	SessionID string                 `json:"session_id"`
	Winner    models.Side            `json:"winner"`
	Winners   []models.ParticipantID `json:"winners,omitempty"`
	EndReason models.EndReason       `json:"end_reason"`
	Wager     int64                  `json:"wager"`
	Draw      bool                   `json:"draw"`
}

// RivalryPayload is broadcast when two recurring opponents cross a rivalry
// threshold.
type RivalryPayload struct {
	First    models.ParticipantID `json:"first"`
	Second   models.ParticipantID `json:"second"`
	Meetings int                  `json:"meetings"`
}
