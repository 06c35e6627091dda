package duel_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tgray07/duelcore/internal/arena"
	"github.com/tgray07/duelcore/internal/duel"
	"github.com/tgray07/duelcore/internal/duel/events"
	"github.com/tgray07/duelcore/internal/economy"
	"github.com/tgray07/duelcore/internal/host"
	"github.com/tgray07/duelcore/internal/models"
	"github.com/tgray07/duelcore/internal/rivalry"
	"github.com/tgray07/duelcore/internal/stats"
)

type notice struct {
	target  models.ParticipantID
	kind    events.Kind
	payload any
}

type recordingNotifier struct {
	mu         sync.Mutex
	notices    []notice
	broadcasts []notice
}

func (n *recordingNotifier) Notify(id models.ParticipantID, kind events.Kind, payload any) {
	n.mu.Lock()
	n.notices = append(n.notices, notice{target: id, kind: kind, payload: payload})
	n.mu.Unlock()
}

func (n *recordingNotifier) Broadcast(kind events.Kind, payload any) {
	n.mu.Lock()
	n.broadcasts = append(n.broadcasts, notice{kind: kind, payload: payload})
	n.mu.Unlock()
}

func (n *recordingNotifier) count(id models.ParticipantID, kind events.Kind) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, ev := range n.notices {
		if ev.target == id && ev.kind == kind {
			c++
		}
	}
	return c
}

func (n *recordingNotifier) broadcastCount(kind events.Kind) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, ev := range n.broadcasts {
		if ev.kind == kind {
			c++
		}
	}
	return c
}

func (n *recordingNotifier) lastReason(id models.ParticipantID, kind events.Kind) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.notices) - 1; i >= 0; i-- {
		ev := n.notices[i]
		if ev.target != id || ev.kind != kind {
			continue
		}
		if p, ok := ev.payload.(events.ChallengePayload); ok {
			return p.Reason
		}
	}
	return ""
}

type rig struct {
	t         *testing.T
	clock     *clockwork.FakeClock
	host      *host.Memory
	econ      *economy.Memory
	stats     *stats.Memory
	rivalries *rivalry.Memory
	notifier  *recordingNotifier
	orch      *duel.Orchestrator
	cfg       duel.Config
}

func newRig(t *testing.T, mutate func(*duel.Config)) *rig {
	t.Helper()
	cfg := duel.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	r := &rig{
		t:         t,
		clock:     clockwork.NewFakeClock(),
		host:      host.NewMemory(),
		econ:      economy.NewMemory("coins"),
		stats:     stats.NewMemory(1000),
		rivalries: rivalry.NewMemory(),
		notifier:  &recordingNotifier{},
		cfg:       cfg,
	}
	r.host.DefineKit(cfg.KitName, models.Inventory{
		Slots: []models.ItemStack{{Kind: "iron_sword", Amount: 1}, {Kind: "bread", Amount: 8}},
		Armor: []models.ItemStack{{Kind: "iron_chestplate", Amount: 1}},
	})

	spawnA := models.Position{World: "arena", X: -10, Y: 64, Z: 0}
	spawnB := models.Position{World: "arena", X: 10, Y: 64, Z: 0}
	r.orch = duel.NewOrchestrator(cfg, duel.Deps{
		Economy:   r.econ,
		Stats:     r.stats,
		Arena:     arena.New(spawnA, spawnB, 25),
		Host:      r.host,
		Notifier:  r.notifier,
		Rivalries: r.rivalries,
		Clock:     r.clock,
	})
	t.Cleanup(r.orch.Close)
	return r
}

func (r *rig) join(id models.ParticipantID, balance int64) {
	r.t.Helper()
	r.host.Join(id, models.PlayerState{
		Inventory: models.Inventory{Slots: []models.ItemStack{{Kind: "map", Amount: 1}}},
		Vitals:    models.Vitals{Health: 20, Hunger: 20, Experience: 7},
		GameMode:  models.GameModeSurvival,
		Position:  models.Position{World: "overworld", X: float64(len(id)), Y: 64, Z: 3},
	})
	if balance > 0 {
		r.econ.Credit(id, balance)
	}
}

func (r *rig) joinEmpty(id models.ParticipantID, balance int64) {
	r.t.Helper()
	r.host.Join(id, models.PlayerState{
		Vitals:   models.Vitals{Health: 20, Hunger: 20},
		GameMode: models.GameModeSurvival,
		Position: models.Position{World: "overworld", X: 1, Y: 64, Z: 1},
	})
	if balance > 0 {
		r.econ.Credit(id, balance)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// runCountdown advances the fake clock one tick at a time, waiting for each
// rescheduled timer, until the session is in progress.
func (r *rig) runCountdown(p models.ParticipantID) {
	r.t.Helper()
	for i := 0; i < r.cfg.CountdownTicks; i++ {
		want := i + 1
		r.clock.Advance(r.cfg.CountdownInterval)
		waitFor(r.t, "countdown tick", func() bool {
			return r.notifier.count(p, events.KindCountdownTick) >= want
		})
	}
	waitFor(r.t, "duel start", func() bool {
		sess, ok := r.orch.SessionFor(p)
		return ok && sess.Phase == models.PhaseInProgress
	})
}

func (r *rig) startSoloDuel(a, b models.ParticipantID, variant models.Variant, wager int64) {
	r.t.Helper()
	if err := r.orch.SendChallenge(a, b, variant, wager); err != nil {
		r.t.Fatalf("SendChallenge: %v", err)
	}
	if err := r.orch.AcceptChallenge(a, b); err != nil {
		r.t.Fatalf("AcceptChallenge: %v", err)
	}
	r.runCountdown(a)
}

func ownItemsVariant() models.Variant {
	return models.SoloVariant(models.PlacementArena, models.LoadoutOwnItems)
}

func TestSendChallengePreconditions(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(r *rig)
		send    func(r *rig) error
		wantErr error
	}{
		{
			name: "self challenge",
			send: func(r *rig) error {
				return r.orch.SendChallenge("alice", "alice", ownItemsVariant(), 0)
			},
			wantErr: duel.ErrSelfChallenge,
		},
		{
			name: "challenger already in duel",
			prepare: func(r *rig) {
				r.join("carol", 0)
				r.join("dave", 0)
				r.startSoloDuel("carol", "dave", ownItemsVariant(), 0)
			},
			send: func(r *rig) error {
				return r.orch.SendChallenge("carol", "bob", ownItemsVariant(), 0)
			},
			wantErr: duel.ErrAlreadyInDuel,
		},
		{
			name: "pending offer in either direction",
			prepare: func(r *rig) {
				r.join("carol", 0)
				if err := r.orch.SendChallenge("carol", "alice", ownItemsVariant(), 0); err != nil {
					r.t.Fatalf("setup challenge: %v", err)
				}
			},
			send: func(r *rig) error {
				return r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 0)
			},
			wantErr: duel.ErrPendingChallenge,
		},
		{
			name: "challenged offline",
			prepare: func(r *rig) {
				r.host.Leave("bob")
			},
			send: func(r *rig) error {
				return r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 0)
			},
			wantErr: duel.ErrOffline,
		},
		{
			name: "challenged dead",
			prepare: func(r *rig) {
				r.host.Kill("bob")
			},
			send: func(r *rig) error {
				return r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 0)
			},
			wantErr: duel.ErrOffline,
		},
		{
			name: "insufficient funds",
			send: func(r *rig) error {
				return r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 100)
			},
			wantErr: duel.ErrInsufficientFunds,
		},
		{
			name: "local duel out of range",
			prepare: func(r *rig) {
				r.host.Teleport("bob", models.Position{World: "overworld", X: 5000, Y: 64, Z: 0})
			},
			send: func(r *rig) error {
				return r.orch.SendChallenge("alice", "bob",
					models.SoloVariant(models.PlacementLocal, models.LoadoutOwnItems), 0)
			},
			wantErr: duel.ErrOutOfRange,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, nil)
			r.join("alice", 50)
			r.join("bob", 50)
			if tc.prepare != nil {
				tc.prepare(r)
			}
			if err := tc.send(r); err != tc.wantErr {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
			if _, ok := r.orch.PendingOffer("alice"); ok && tc.wantErr != duel.ErrPendingChallenge {
				t.Fatalf("failed send must not register an offer")
			}
		})
	}
}

func TestInsufficientFundsNotifiesReason(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 50)
	r.join("bob", 500)

	if err := r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 100); err != duel.ErrInsufficientFunds {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	if got := r.notifier.lastReason("alice", events.KindChallengeFailed); got != "insufficient_funds" {
		t.Fatalf("reason = %q, want insufficient_funds", got)
	}
	if _, ok := r.orch.PendingOffer("alice"); ok {
		t.Fatalf("no offer should be registered")
	}
}

func TestLocalChallengeWithinProximity(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 0)
	r.join("bob", 0)
	r.host.Teleport("alice", models.Position{World: "overworld", X: 0, Y: 64, Z: 0})
	r.host.Teleport("bob", models.Position{World: "overworld", X: 10, Y: 64, Z: 0})

	variant := models.SoloVariant(models.PlacementLocal, models.LoadoutOwnItems)
	if err := r.orch.SendChallenge("alice", "bob", variant, 0); err != nil {
		t.Fatalf("in-range local challenge should succeed: %v", err)
	}
}

func TestChallengeExpiry(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 0)
	r.join("bob", 0)

	if err := r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 0); err != nil {
		t.Fatalf("SendChallenge: %v", err)
	}

	r.clock.Advance(r.cfg.SoloChallengeTimeout)
	waitFor(t, "offer expiry", func() bool {
		_, ok := r.orch.PendingOffer("alice")
		return !ok
	})

	waitFor(t, "expiry notifications", func() bool {
		return r.notifier.count("alice", events.KindChallengeExpired) == 1 &&
			r.notifier.count("bob", events.KindChallengeExpired) == 1
	})
	if r.orch.LiveSessions() != 0 {
		t.Fatalf("expiry must not create a session")
	}
}

func TestRejectAndCancelAreIdempotent(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 0)
	r.join("bob", 0)

	if err := r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 0); err != nil {
		t.Fatalf("SendChallenge: %v", err)
	}
	if err := r.orch.RejectChallenge("alice", "bob"); err != nil {
		t.Fatalf("RejectChallenge: %v", err)
	}
	if err := r.orch.RejectChallenge("alice", "bob"); err != duel.ErrNoSuchOffer {
		t.Fatalf("second reject should be a no-op, got %v", err)
	}

	if err := r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 0); err != nil {
		t.Fatalf("re-challenge after reject: %v", err)
	}
	if err := r.orch.CancelChallenge("alice"); err != nil {
		t.Fatalf("CancelChallenge: %v", err)
	}
	if err := r.orch.CancelChallenge("alice"); err != duel.ErrNoSuchOffer {
		t.Fatalf("second cancel should be a no-op, got %v", err)
	}
}

func TestSoloDuelLethalDamageFlow(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 0)
	r.join("bob", 0)
	beforeAlice, _ := r.host.State("alice")
	beforeBob, _ := r.host.State("bob")

	if err := r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 0); err != nil {
		t.Fatalf("SendChallenge: %v", err)
	}
	if err := r.orch.AcceptChallenge("alice", "bob"); err != nil {
		t.Fatalf("AcceptChallenge: %v", err)
	}

	// During the countdown both sit at the arena spawns with damage
	// suppressed.
	if r.orch.DamageAllowed("alice", "bob") {
		t.Fatalf("damage must be suppressed while starting")
	}
	pos, _ := r.host.Position("alice")
	if pos.World != "arena" {
		t.Fatalf("alice should be teleported to the arena, at %v", pos)
	}

	r.runCountdown("alice")
	if !r.orch.DamageAllowed("alice", "bob") {
		t.Fatalf("damage should be permitted in progress")
	}

	r.host.Kill("bob")
	r.orch.HandleDeath("bob", "alice")

	waitFor(t, "session settled", func() bool { return r.orch.LiveSessions() == 0 })

	wins, losses, _ := r.stats.Record("alice")
	if wins != 1 || losses != 0 {
		t.Fatalf("alice record = %d/%d, want 1/0", wins, losses)
	}
	wins, losses, _ = r.stats.Record("bob")
	if wins != 0 || losses != 1 {
		t.Fatalf("bob record = %d/%d, want 0/1", wins, losses)
	}

	afterAlice, _ := r.host.State("alice")
	afterBob, _ := r.host.State("bob")
	if afterAlice.Position != beforeAlice.Position {
		t.Fatalf("alice position not restored: %v != %v", afterAlice.Position, beforeAlice.Position)
	}
	if afterBob.Position != beforeBob.Position {
		t.Fatalf("bob position not restored")
	}
	if len(r.stats.History()) != 1 {
		t.Fatalf("expected exactly one history record")
	}
	hist := r.stats.History()[0]
	if hist.Winner != models.SideA || hist.Kills["alice"] != 1 {
		t.Fatalf("history record wrong: winner=%s kills=%v", hist.Winner, hist.Kills)
	}
}

func TestDamageArbitration(t *testing.T) {
	r := newRig(t, nil)
	for _, p := range []models.ParticipantID{"a", "b", "c", "d", "e"} {
		r.join(p, 0)
	}
	// Session 1 in progress: a vs b. Session 2 starting: c vs d. e idles.
	r.startSoloDuel("a", "b", ownItemsVariant(), 0)
	if err := r.orch.SendChallenge("c", "d", ownItemsVariant(), 0); err != nil {
		t.Fatalf("SendChallenge: %v", err)
	}
	if err := r.orch.AcceptChallenge("c", "d"); err != nil {
		t.Fatalf("AcceptChallenge: %v", err)
	}

	tests := []struct {
		name             string
		attacker, victim models.ParticipantID
		want             bool
	}{
		{"opponents in progress", "a", "b", true},
		{"opponents in progress reverse", "b", "a", true},
		{"cross-session", "a", "c", false},
		{"participant vs bystander", "a", "e", false},
		{"bystander vs participant", "e", "a", false},
		{"both bystanders", "e", "e", false},
		{"pre-countdown", "c", "d", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.orch.DamageAllowed(tc.attacker, tc.victim); got != tc.want {
				t.Fatalf("DamageAllowed(%s, %s) = %v, want %v", tc.attacker, tc.victim, got, tc.want)
			}
		})
	}
}

func TestTeamDamageArbitration(t *testing.T) {
	r := newRig(t, nil)
	for _, p := range []models.ParticipantID{"a1", "a2", "b1", "b2"} {
		r.join(p, 0)
	}
	variant := models.TeamVariant(models.PlacementArena, models.LoadoutOwnItems, 2)
	if err := r.orch.SendTeamChallenge(
		[]models.ParticipantID{"a1", "a2"},
		[]models.ParticipantID{"b1", "b2"},
		variant, 0,
	); err != nil {
		t.Fatalf("SendTeamChallenge: %v", err)
	}
	if err := r.orch.AcceptChallenge("a1", "b1"); err != nil {
		t.Fatalf("AcceptChallenge: %v", err)
	}
	r.runCountdown("a1")

	if !r.orch.DamageAllowed("a1", "b2") {
		t.Fatalf("cross-roster damage should be permitted")
	}
	if r.orch.DamageAllowed("a1", "a2") {
		t.Fatalf("same-team damage must be suppressed")
	}
}

func TestTeamOfferReservesFullRosters(t *testing.T) {
	r := newRig(t, nil)
	for _, p := range []models.ParticipantID{"a1", "a2", "b1", "b2", "c"} {
		r.join(p, 0)
	}
	variant := models.TeamVariant(models.PlacementArena, models.LoadoutOwnItems, 2)
	if err := r.orch.SendTeamChallenge(
		[]models.ParticipantID{"a1", "a2"},
		[]models.ParticipantID{"b1", "b2"},
		variant, 0,
	); err != nil {
		t.Fatalf("SendTeamChallenge: %v", err)
	}

	// Non-leader members of both rosters are reserved by the pending offer
	// and cannot be party to another challenge in either direction.
	if err := r.orch.SendChallenge("a2", "c", ownItemsVariant(), 0); err != duel.ErrPendingChallenge {
		t.Fatalf("a2 challenge should fail while the team offer is pending, got %v", err)
	}
	if err := r.orch.SendChallenge("c", "b2", ownItemsVariant(), 0); err != duel.ErrPendingChallenge {
		t.Fatalf("challenging b2 should fail while the team offer is pending, got %v", err)
	}

	if err := r.orch.AcceptChallenge("a1", "b1"); err != nil {
		t.Fatalf("AcceptChallenge: %v", err)
	}
	if got := r.orch.LiveSessions(); got != 1 {
		t.Fatalf("live sessions = %d, want 1", got)
	}
	sess, ok := r.orch.SessionFor("a2")
	if !ok || sess.SideOf("a2") != models.SideA {
		t.Fatalf("a2 should be indexed to the team session")
	}
}

func TestTeamMemberDisconnectVoidsOffer(t *testing.T) {
	r := newRig(t, nil)
	for _, p := range []models.ParticipantID{"a1", "a2", "b1", "b2"} {
		r.join(p, 0)
	}
	variant := models.TeamVariant(models.PlacementArena, models.LoadoutOwnItems, 2)
	if err := r.orch.SendTeamChallenge(
		[]models.ParticipantID{"a1", "a2"},
		[]models.ParticipantID{"b1", "b2"},
		variant, 0,
	); err != nil {
		t.Fatalf("SendTeamChallenge: %v", err)
	}

	r.host.Leave("b2")
	r.orch.HandleDisconnect("b2")
	if _, ok := r.orch.PendingOffer("a1"); ok {
		t.Fatalf("offer should be voided when any roster member disconnects")
	}
}

func TestAcceptRejectsDeadParticipant(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 0)
	r.join("bob", 0)

	if err := r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 0); err != nil {
		t.Fatalf("SendChallenge: %v", err)
	}
	r.host.Kill("bob")
	if err := r.orch.AcceptChallenge("alice", "bob"); err != duel.ErrOffline {
		t.Fatalf("accepting with a dead participant should fail, got %v", err)
	}
	if _, ok := r.orch.PendingOffer("alice"); ok {
		t.Fatalf("failed accept must remove the offer")
	}
}

func TestMaxDurationDrawRefundsWager(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 100)
	r.join("bob", 100)
	r.startSoloDuel("alice", "bob", ownItemsVariant(), 100)

	// Escrowed at accept time.
	if got := r.econ.Balance("alice"); got != 0 {
		t.Fatalf("alice balance during duel = %d, want 0", got)
	}

	r.clock.Advance(r.cfg.MaxDuration)
	// The timeout settles from the timer goroutine, so wait on the refunds
	// themselves rather than the session table.
	waitFor(t, "timeout refund", func() bool {
		return r.econ.Balance("alice") == 100 && r.econ.Balance("bob") == 100
	})
	if r.orch.LiveSessions() != 0 {
		t.Fatalf("session should be gone after timeout")
	}
	_, _, draws := r.stats.Record("alice")
	if draws != 1 {
		t.Fatalf("alice draws = %d, want 1", draws)
	}
}

func TestWagerConservation(t *testing.T) {
	outcomes := []struct {
		name   string
		finish func(r *rig)
	}{
		{"win by elimination", func(r *rig) {
			r.host.Kill("bob")
			r.orch.HandleDeath("bob", "alice")
		}},
		{"draw by timeout", func(r *rig) {
			r.clock.Advance(r.cfg.MaxDuration)
		}},
		{"win by desertion", func(r *rig) {
			r.host.Leave("bob")
			r.orch.HandleDisconnect("bob")
		}},
		{"cancelled", func(r *rig) {
			sess, ok := r.orch.SessionFor("alice")
			if !ok {
				r.t.Fatalf("no session to cancel")
			}
			if !r.orch.CancelSession(sess.ID) {
				r.t.Fatalf("cancel failed")
			}
		}},
	}
	for _, tc := range outcomes {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, nil)
			r.join("alice", 150)
			r.join("bob", 250)
			total := r.econ.Balance("alice") + r.econ.Balance("bob")

			r.startSoloDuel("alice", "bob", ownItemsVariant(), 100)
			tc.finish(r)
			// Timer-driven outcomes settle asynchronously; wait until the
			// pot has been paid back out.
			waitFor(t, "conserved balances", func() bool {
				return r.econ.Balance("alice")+r.econ.Balance("bob") == total
			})
			if r.orch.LiveSessions() != 0 {
				t.Fatalf("session should be settled")
			}
		})
	}
}

func TestDisconnectForfeitsWagerToOpponent(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 100)
	r.join("bob", 100)
	r.startSoloDuel("alice", "bob", ownItemsVariant(), 100)

	r.host.Leave("bob")
	r.orch.HandleDisconnect("bob")
	waitFor(t, "settlement", func() bool { return r.orch.LiveSessions() == 0 })

	if got := r.econ.Balance("alice"); got != 200 {
		t.Fatalf("alice should hold the doubled wager, got %d", got)
	}
	if got := r.econ.Balance("bob"); got != 0 {
		t.Fatalf("bob forfeits the stake, got %d", got)
	}
}

func TestTeamDuelDisconnectAndElimination(t *testing.T) {
	r := newRig(t, nil)
	for _, p := range []models.ParticipantID{"a1", "a2", "b1", "b2"} {
		r.join(p, 100)
	}
	variant := models.TeamVariant(models.PlacementArena, models.LoadoutOwnItems, 2)
	if err := r.orch.SendTeamChallenge(
		[]models.ParticipantID{"a1", "a2"},
		[]models.ParticipantID{"b1", "b2"},
		variant, 50,
	); err != nil {
		t.Fatalf("SendTeamChallenge: %v", err)
	}
	if err := r.orch.AcceptChallenge("a1", "b1"); err != nil {
		t.Fatalf("AcceptChallenge: %v", err)
	}
	r.runCountdown("a1")

	// B1 drops but B2 fights on.
	r.host.Leave("b1")
	r.orch.HandleDisconnect("b1")
	if r.orch.LiveSessions() != 1 {
		t.Fatalf("session must continue while a roster member lives")
	}

	// B2 falls: side B is now fully defeated.
	r.host.Kill("b2")
	r.orch.HandleDeath("b2", "a2")
	waitFor(t, "settlement", func() bool { return r.orch.LiveSessions() == 0 })

	for _, p := range []models.ParticipantID{"a1", "a2"} {
		wins, _, _ := r.stats.Record(p)
		if wins != 1 {
			t.Fatalf("%s wins = %d, want 1", p, wins)
		}
		if got := r.econ.Balance(p); got != 150 {
			t.Fatalf("%s balance = %d, want 150", p, got)
		}
	}
	// B1 was offline at settlement, so there was nothing to restore to, but
	// the stake is still forfeited.
	if got := r.econ.Balance("b1"); got != 50 {
		t.Fatalf("b1 balance = %d, want 50", got)
	}
}

func TestSettlementRunsExactlyOnce(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 100)
	r.join("bob", 100)
	r.startSoloDuel("alice", "bob", ownItemsVariant(), 100)

	sess, ok := r.orch.SessionFor("alice")
	if !ok {
		t.Fatalf("no live session")
	}

	r.host.Kill("bob")
	r.orch.HandleDeath("bob", "alice")
	// Competing termination triggers must all be no-ops.
	r.orch.HandleDeath("bob", "alice")
	r.orch.HandleDisconnect("bob")
	if r.orch.CancelSession(sess.ID) {
		t.Fatalf("cancel after end must report false")
	}
	waitFor(t, "settlement", func() bool { return r.orch.LiveSessions() == 0 })

	if got := len(r.stats.History()); got != 1 {
		t.Fatalf("history records = %d, want 1", got)
	}
	wins, _, _ := r.stats.Record("alice")
	if wins != 1 {
		t.Fatalf("alice wins = %d, want 1", wins)
	}
	if got := r.econ.Balance("alice"); got != 200 {
		t.Fatalf("alice balance = %d, want 200 (single payout)", got)
	}
}

func TestEloAdjustment(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 0)
	r.join("bob", 0)
	ctx := context.Background()
	r.stats.SetRating(ctx, "alice", 1000)
	r.stats.SetRating(ctx, "bob", 1200)

	r.startSoloDuel("alice", "bob", ownItemsVariant(), 0)
	r.host.Kill("bob")
	r.orch.HandleDeath("bob", "alice")
	waitFor(t, "settlement", func() bool { return r.orch.LiveSessions() == 0 })

	// delta = 20 + (1200-1000)/25 = 28
	if got, _ := r.stats.Rating(ctx, "alice"); got != 1028 {
		t.Fatalf("alice rating = %d, want 1028", got)
	}
	if got, _ := r.stats.Rating(ctx, "bob"); got != 1172 {
		t.Fatalf("bob rating = %d, want 1172", got)
	}
}

func TestEloFloorCapsLoss(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 0)
	r.join("bob", 0)
	ctx := context.Background()
	r.stats.SetRating(ctx, "alice", 1000)
	r.stats.SetRating(ctx, "bob", 104)

	r.startSoloDuel("alice", "bob", ownItemsVariant(), 0)
	r.host.Kill("bob")
	r.orch.HandleDeath("bob", "alice")
	waitFor(t, "settlement", func() bool { return r.orch.LiveSessions() == 0 })

	// Gap drives the delta to the clamp minimum (4); the floor (100) then
	// caps bob's loss at 4 anyway.
	if got, _ := r.stats.Rating(ctx, "bob"); got != 100 {
		t.Fatalf("bob rating = %d, want floor 100", got)
	}
	if got, _ := r.stats.Rating(ctx, "alice"); got != 1004 {
		t.Fatalf("alice rating = %d, want 1004", got)
	}
}

func TestKitVariantGateAndRestore(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 0) // carries items
	r.joinEmpty("bob", 0)

	kit := models.SoloVariant(models.PlacementArena, models.LoadoutKit)
	if err := r.orch.SendChallenge("alice", "bob", kit, 0); err != nil {
		t.Fatalf("SendChallenge: %v", err)
	}
	if err := r.orch.AcceptChallenge("alice", "bob"); err != duel.ErrInventoryNotEmpty {
		t.Fatalf("accept with items should fail the kit gate, got %v", err)
	}
	if _, ok := r.orch.PendingOffer("alice"); ok {
		t.Fatalf("failed accept must remove the offer")
	}

	// Empty inventories pass the gate and receive the kit.
	r.host.ApplyInventory("alice", models.Inventory{})
	if err := r.orch.SendChallenge("alice", "bob", kit, 0); err != nil {
		t.Fatalf("re-challenge: %v", err)
	}
	if err := r.orch.AcceptChallenge("alice", "bob"); err != nil {
		t.Fatalf("AcceptChallenge: %v", err)
	}
	state, _ := r.host.State("alice")
	if len(state.Inventory.Slots) == 0 || state.Inventory.Slots[0].Kind != "iron_sword" {
		t.Fatalf("kit not issued: %v", state.Inventory)
	}

	r.runCountdown("alice")
	r.host.Kill("bob")
	r.orch.HandleDeath("bob", "alice")
	waitFor(t, "settlement", func() bool { return r.orch.LiveSessions() == 0 })

	state, _ = r.host.State("alice")
	if !state.Inventory.Empty() {
		t.Fatalf("restore should return alice's emptied inventory, got %v", state.Inventory)
	}
}

func TestRivalryBroadcastOnThreshold(t *testing.T) {
	r := newRig(t, func(cfg *duel.Config) {
		cfg.CountdownTicks = 1
		cfg.RivalryThreshold = 3
	})
	r.join("alice", 0)
	r.join("bob", 0)

	for i := 0; i < 3; i++ {
		r.startSoloDuel("alice", "bob", ownItemsVariant(), 0)
		r.host.Kill("bob")
		r.orch.HandleDeath("bob", "alice")
		waitFor(t, "settlement", func() bool { return r.orch.LiveSessions() == 0 })
		r.host.Revive("bob")
	}

	if got := r.rivalries.Meetings("alice", "bob"); got != 3 {
		t.Fatalf("meetings = %d, want 3", got)
	}
	if got := r.notifier.broadcastCount(events.KindRivalry); got != 1 {
		t.Fatalf("rivalry broadcasts = %d, want 1", got)
	}
}

func TestDisconnectVoidsPendingOffers(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 0)
	r.join("bob", 0)

	if err := r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 0); err != nil {
		t.Fatalf("SendChallenge: %v", err)
	}
	r.host.Leave("bob")
	r.orch.HandleDisconnect("bob")

	if _, ok := r.orch.PendingOffer("alice"); ok {
		t.Fatalf("offer should be voided when the challenged party disconnects")
	}
}

func TestCloseSettlesEverything(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 100)
	r.join("bob", 100)
	r.join("carol", 0)
	r.join("dave", 0)

	r.startSoloDuel("alice", "bob", ownItemsVariant(), 100)
	if err := r.orch.SendChallenge("carol", "dave", ownItemsVariant(), 0); err != nil {
		t.Fatalf("SendChallenge: %v", err)
	}

	r.orch.Close()

	if r.orch.LiveSessions() != 0 {
		t.Fatalf("close must settle all sessions")
	}
	if _, ok := r.orch.PendingOffer("carol"); ok {
		t.Fatalf("close must void pending offers")
	}
	// Cancelled sessions refund the stake.
	if got := r.econ.Balance("alice"); got != 100 {
		t.Fatalf("alice balance = %d, want 100", got)
	}
	if err := r.orch.SendChallenge("alice", "bob", ownItemsVariant(), 0); err != duel.ErrClosed {
		t.Fatalf("operations after close should fail, got %v", err)
	}
}

func TestSingleActiveSessionInvariant(t *testing.T) {
	r := newRig(t, nil)
	r.join("alice", 0)
	r.join("bob", 0)
	r.join("carol", 0)
	r.startSoloDuel("alice", "bob", ownItemsVariant(), 0)

	if err := r.orch.SendChallenge("carol", "alice", ownItemsVariant(), 0); err != duel.ErrAlreadyInDuel {
		t.Fatalf("challenging a dueling participant should fail, got %v", err)
	}
	sess, ok := r.orch.SessionFor("alice")
	if !ok {
		t.Fatalf("alice should be in her session")
	}
	if sess.SideOf("carol") != models.SideNone {
		t.Fatalf("carol must not appear in the session")
	}
}
