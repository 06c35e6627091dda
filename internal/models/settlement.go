package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingChange is one participant's Elo adjustment from a settled solo duel.
type RatingChange struct {
	Participant ParticipantID `json:"participant"`
	Before      int           `json:"before"`
	After       int           `json:"after"`
}

// SettlementRecord is the derived result of one ended session, handed to the
// external stats store as history. It is not retained by the core.
type SettlementRecord struct {
	SessionID uuid.UUID             `json:"session_id"`
	Variant   Variant               `json:"variant"`
	RosterA   []ParticipantID       `json:"roster_a"`
	RosterB   []ParticipantID       `json:"roster_b"`
	Winner    Side                  `json:"winner"`
	EndReason EndReason             `json:"end_reason"`
	Wager     int64                 `json:"wager"`
	Kills     map[ParticipantID]int `json:"kills"`
	StartedAt time.Time             `json:"started_at"`
	EndedAt   time.Time             `json:"ended_at"`
	Ratings   []RatingChange        `json:"ratings,omitempty"`
}
