package duel

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/tgray07/duelcore/internal/arena"
	"github.com/tgray07/duelcore/internal/economy"
	"github.com/tgray07/duelcore/internal/host"
	"github.com/tgray07/duelcore/internal/models"
	"github.com/tgray07/duelcore/internal/stats"
)

// TestAcceptRechecksLiveSessions drives the accept-side guard directly: an
// offer placed in the registry for a participant who is already fighting must
// be rejected, not turned into a second session.
func TestAcceptRechecksLiveSessions(t *testing.T) {
	h := host.NewMemory()
	for _, p := range []models.ParticipantID{"a", "b", "c"} {
		h.Join(p, models.PlayerState{
			Vitals:   models.Vitals{Health: 20},
			GameMode: models.GameModeSurvival,
			Position: models.Position{World: "overworld", Y: 64},
		})
	}
	o := NewOrchestrator(DefaultConfig(), Deps{
		Economy: economy.NewMemory("coins"),
		Stats:   stats.NewMemory(1000),
		Arena: arena.New(
			models.Position{World: "arena", X: -10, Y: 64},
			models.Position{World: "arena", X: 10, Y: 64},
			25,
		),
		Host:  h,
		Clock: clockwork.NewFakeClock(),
	})
	defer o.Close()

	variant := models.SoloVariant(models.PlacementArena, models.LoadoutOwnItems)
	if err := o.SendChallenge("a", "b", variant, 0); err != nil {
		t.Fatalf("SendChallenge: %v", err)
	}
	if err := o.AcceptChallenge("a", "b"); err != nil {
		t.Fatalf("AcceptChallenge: %v", err)
	}
	sess, ok := o.SessionFor("a")
	if !ok {
		t.Fatalf("a should be in a session")
	}

	// Bypass the send-side checks so the accept-side guard is all that
	// stands between a and a second session.
	o.mu.Lock()
	o.registry.Put(testOffer("a", "c"))
	o.mu.Unlock()

	if err := o.AcceptChallenge("a", "c"); err != ErrAlreadyInDuel {
		t.Fatalf("got %v, want ErrAlreadyInDuel", err)
	}
	if o.LiveSessions() != 1 {
		t.Fatalf("live sessions = %d, want 1", o.LiveSessions())
	}
	if cur, ok := o.SessionFor("a"); !ok || cur.ID != sess.ID {
		t.Fatalf("a must stay indexed to the original session")
	}
	if o.registry.Len() != 0 {
		t.Fatalf("failed accept must remove the offer")
	}
}
