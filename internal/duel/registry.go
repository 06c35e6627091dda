package duel

import (
	"github.com/tgray07/duelcore/internal/models"
)

// ChallengeRegistry indexes pending challenge offers by challenger and by
// every roster member of both sides, so team offers reserve their full
// rosters. It is a plain data structure; the orchestrator serializes all
// access and owns the precondition checks.
type ChallengeRegistry struct {
	byChallenger map[models.ParticipantID]*models.ChallengeOffer
	byMember     map[models.ParticipantID]models.ParticipantID
}

// NewChallengeRegistry creates an empty registry.
func NewChallengeRegistry() *ChallengeRegistry {
	return &ChallengeRegistry{
		byChallenger: make(map[models.ParticipantID]*models.ChallengeOffer),
		byMember:     make(map[models.ParticipantID]models.ParticipantID),
	}
}

// Put registers an offer and reserves every roster member. The caller has
// already verified that no member is party to another offer.
func (r *ChallengeRegistry) Put(offer *models.ChallengeOffer) {
	r.byChallenger[offer.Challenger] = offer
	for _, p := range offer.Participants() {
		r.byMember[p] = offer.Challenger
	}
}

// Outgoing returns the offer a participant has issued, if any.
func (r *ChallengeRegistry) Outgoing(challenger models.ParticipantID) (*models.ChallengeOffer, bool) {
	offer, ok := r.byChallenger[challenger]
	return offer, ok
}

// ForMember returns the offer a participant is party to on either side,
// leader or not.
func (r *ChallengeRegistry) ForMember(id models.ParticipantID) (*models.ChallengeOffer, bool) {
	challenger, ok := r.byMember[id]
	if !ok {
		return nil, false
	}
	offer, ok := r.byChallenger[challenger]
	return offer, ok
}

// Between returns the offer from challenger to challenged, if it exists.
func (r *ChallengeRegistry) Between(challenger, challenged models.ParticipantID) (*models.ChallengeOffer, bool) {
	offer, ok := r.byChallenger[challenger]
	if !ok || offer.Challenged != challenged {
		return nil, false
	}
	return offer, true
}

// HasPending reports whether a participant is a roster member of any offer,
// on either side.
func (r *ChallengeRegistry) HasPending(id models.ParticipantID) bool {
	_, ok := r.byMember[id]
	return ok
}

// Remove deletes the offer issued by challenger, releasing every roster
// member, and returns it. Removing an already-resolved offer returns nil.
func (r *ChallengeRegistry) Remove(challenger models.ParticipantID) *models.ChallengeOffer {
	offer, ok := r.byChallenger[challenger]
	if !ok {
		return nil
	}
	delete(r.byChallenger, challenger)
	for _, p := range offer.Participants() {
		delete(r.byMember, p)
	}
	return offer
}

// Challengers returns every participant with an outgoing offer.
func (r *ChallengeRegistry) Challengers() []models.ParticipantID {
	out := make([]models.ParticipantID, 0, len(r.byChallenger))
	for c := range r.byChallenger {
		out = append(out, c)
	}
	return out
}

// Len returns the number of pending offers.
func (r *ChallengeRegistry) Len() int { return len(r.byChallenger) }
