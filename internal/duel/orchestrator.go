package duel

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/tgray07/duelcore/internal/duel/events"
	"github.com/tgray07/duelcore/internal/models"
)

// Config holds the orchestrator's tunable durations and settlement constants.
type Config struct {
	SoloChallengeTimeout time.Duration
	TeamChallengeTimeout time.Duration
	CountdownTicks       int
	CountdownInterval    time.Duration
	MaxDuration          time.Duration
	KitName              string
	EloBase              int
	EloGapDivisor        int
	EloDeltaMin          int
	EloDeltaMax          int
	RatingFloor          int
	RivalryThreshold     int
	SettleTimeout        time.Duration
}

// DefaultConfig returns the stock timings and rating constants.
func DefaultConfig() Config {
	return Config{
		SoloChallengeTimeout: 30 * time.Second,
		TeamChallengeTimeout: 60 * time.Second,
		CountdownTicks:       3,
		CountdownInterval:    time.Second,
		MaxDuration:          300 * time.Second,
		KitName:              "standard",
		EloBase:              20,
		EloGapDivisor:        25,
		EloDeltaMin:          4,
		EloDeltaMax:          50,
		RatingFloor:          100,
		RivalryThreshold:     3,
		SettleTimeout:        5 * time.Second,
	}
}

// Deps are the collaborators the orchestrator is constructed with. Notifier,
// Replay, Rivalries, HUD and Clock are optional and default to no-ops or the
// real clock.
type Deps struct {
	Economy   EconomyLedger
	Stats     StatsStore
	Replay    ReplayLog
	Arena     ArenaProvider
	Host      PlayerHost
	Notifier  Notifier
	Rivalries RivalryStore
	HUD       HUDRestorer
	Clock     clockwork.Clock
}

// Orchestrator is the duel session facade. It owns the challenge registry,
// the live session table, the snapshot store and all timers. Every mutating
// operation is serialized behind one mutex so the one-session-per-participant
// and settle-exactly-once invariants hold; timer callbacks re-enter through
// the same lock and re-fetch state by id.
type Orchestrator struct {
	cfg   Config
	clock clockwork.Clock

	economy   EconomyLedger
	stats     StatsStore
	replay    ReplayLog
	arena     ArenaProvider
	host      PlayerHost
	notifier  Notifier
	rivalries RivalryStore
	hud       HUDRestorer

	mu        sync.Mutex
	registry  *ChallengeRegistry
	table     *SessionTable
	snapshots *SnapshotStore
	timers    *scheduler
	closed    bool
}

// NewOrchestrator builds an orchestrator instance owning its own tables. No
// ambient global state is involved; callers hold the returned handle.
func NewOrchestrator(cfg Config, deps Deps) *Orchestrator {
	if deps.Notifier == nil {
		deps.Notifier = NoopNotifier{}
	}
	if deps.Replay == nil {
		deps.Replay = NoopReplay{}
	}
	if deps.Rivalries == nil {
		deps.Rivalries = NoopRivalry{}
	}
	if deps.HUD == nil {
		deps.HUD = NoopHUD{}
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	o := &Orchestrator{
		cfg:       cfg,
		clock:     deps.Clock,
		economy:   deps.Economy,
		stats:     deps.Stats,
		replay:    deps.Replay,
		arena:     deps.Arena,
		host:      deps.Host,
		notifier:  deps.Notifier,
		rivalries: deps.Rivalries,
		hud:       deps.HUD,
		registry:  NewChallengeRegistry(),
		table:     NewSessionTable(),
	}
	o.snapshots = NewSnapshotStore(deps.Host)
	o.timers = newScheduler(deps.Clock, o.onTimer)
	return o
}

// SendChallenge issues a solo challenge offer. Preconditions are checked in
// order and the first failure aborts with no state mutation.
func (o *Orchestrator) SendChallenge(challenger, challenged models.ParticipantID, variant models.Variant, wager int64) error {
	if variant.TeamSize == 0 {
		variant.TeamSize = 1
	}
	if variant.Team() {
		return ErrRosterSize
	}
	return o.sendChallenge([]models.ParticipantID{challenger}, []models.ParticipantID{challenged}, variant, wager)
}

// SendTeamChallenge issues a team offer leader-to-leader carrying both full
// rosters. Both rosters must match the variant's team size.
func (o *Orchestrator) SendTeamChallenge(rosterA, rosterB []models.ParticipantID, variant models.Variant, wager int64) error {
	if !variant.Team() || len(rosterA) != variant.TeamSize || len(rosterB) != variant.TeamSize {
		return ErrRosterSize
	}
	return o.sendChallenge(rosterA, rosterB, variant, wager)
}

func (o *Orchestrator) sendChallenge(rosterA, rosterB []models.ParticipantID, variant models.Variant, wager int64) error {
	challenger, challenged := rosterA[0], rosterB[0]

	o.mu.Lock()
	err := o.validateSend(rosterA, rosterB, variant, wager)
	if err != nil {
		o.mu.Unlock()
		o.notifier.Notify(challenger, events.KindChallengeFailed, events.ChallengePayload{
			Challenger: challenger,
			Challenged: challenged,
			Variant:    variant,
			Wager:      wager,
			Reason:     reason(err),
		})
		return err
	}

	timeout := o.cfg.SoloChallengeTimeout
	if variant.Team() {
		timeout = o.cfg.TeamChallengeTimeout
	}
	now := o.clock.Now()
	offer := &models.ChallengeOffer{
		Challenger:       challenger,
		Challenged:       challenged,
		ChallengerRoster: append([]models.ParticipantID(nil), rosterA...),
		ChallengedRoster: append([]models.ParticipantID(nil), rosterB...),
		Variant:          variant,
		Wager:            wager,
		CreatedAt:        now,
		ExpiresAt:        now.Add(timeout),
	}
	o.registry.Put(offer)
	o.timers.schedule(timerKey{kind: timerChallengeExpiry, id: challenger.String()}, timeout)
	o.mu.Unlock()

	payload := events.ChallengePayload{
		Challenger: challenger,
		Challenged: challenged,
		Variant:    variant,
		Wager:      wager,
		WagerText:  o.economy.Format(wager),
		ExpiresAt:  offer.ExpiresAt,
	}
	o.notifier.Notify(challenger, events.KindChallengeSent, payload)
	o.notifier.Notify(challenged, events.KindChallengeReceived, payload)
	log.Info().
		Str("challenger", challenger.String()).
		Str("challenged", challenged.String()).
		Int64("wager", wager).
		Bool("team", variant.Team()).
		Msg("challenge registered")
	return nil
}

func (o *Orchestrator) validateSend(rosterA, rosterB []models.ParticipantID, variant models.Variant, wager int64) error {
	if o.closed {
		return ErrClosed
	}
	challenger, challenged := rosterA[0], rosterB[0]
	if challenger == challenged {
		return ErrSelfChallenge
	}
	seen := make(map[models.ParticipantID]bool, len(rosterA))
	for _, p := range rosterA {
		seen[p] = true
	}
	for _, p := range rosterB {
		if seen[p] {
			return ErrSelfChallenge
		}
	}
	for _, p := range append(append([]models.ParticipantID(nil), rosterA...), rosterB...) {
		if o.table.InSession(p) {
			return ErrAlreadyInDuel
		}
		if o.registry.HasPending(p) {
			return ErrPendingChallenge
		}
	}
	if !o.available(challenger) || !o.available(challenged) {
		return ErrOffline
	}
	if wager > 0 && !o.economy.HasBalance(challenger, wager) {
		return ErrInsufficientFunds
	}
	switch variant.Placement {
	case models.PlacementArena:
		if !o.arena.Configured() {
			return ErrArenaNotConfigured
		}
	case models.PlacementLocal:
		posA, okA := o.host.Position(challenger)
		posB, okB := o.host.Position(challenged)
		if !okA || !okB || !o.arena.WithinProximity(posA, posB) {
			return ErrOutOfRange
		}
	}
	return nil
}

// available reports whether a participant can enter a duel right now. A dead
// participant is treated the same as an offline one.
func (o *Orchestrator) available(p models.ParticipantID) bool {
	return o.host.IsOnline(p) && o.host.IsAlive(p)
}

// AcceptChallenge resolves the offer from challenger to challenged,
// re-validating every precondition. On success the offer is atomically
// replaced by a new session; on any failure the offer is removed and both
// parties are notified with the specific reason.
func (o *Orchestrator) AcceptChallenge(challenger, challenged models.ParticipantID) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	offer, ok := o.registry.Between(challenger, challenged)
	if !ok {
		o.mu.Unlock()
		o.notifier.Notify(challenged, events.KindChallengeFailed, events.ChallengePayload{
			Challenger: challenger,
			Challenged: challenged,
			Reason:     reason(ErrNoSuchOffer),
		})
		return ErrNoSuchOffer
	}

	if err := o.validateAccept(offer); err != nil {
		o.dropOfferLocked(challenger)
		o.mu.Unlock()
		o.notifyOffer(offer, events.KindChallengeFailed, reason(err))
		return err
	}

	if err := o.escrowLocked(offer); err != nil {
		o.dropOfferLocked(challenger)
		o.mu.Unlock()
		o.notifyOffer(offer, events.KindChallengeFailed, reason(err))
		return err
	}

	o.dropOfferLocked(challenger)
	sess := o.createSessionLocked(offer)
	o.prepareSessionLocked(sess)
	o.mu.Unlock()

	o.notifySession(sess, events.KindDuelStarting, sessionPayload(sess))
	log.Info().
		Str("session_id", sess.ID.String()).
		Int("roster_size", sess.Variant.TeamSize).
		Int64("wager", sess.Wager).
		Msg("duel session created")
	return nil
}

func (o *Orchestrator) validateAccept(offer *models.ChallengeOffer) error {
	for _, p := range offer.Participants() {
		if o.table.InSession(p) {
			return ErrAlreadyInDuel
		}
		if !o.available(p) {
			return ErrOffline
		}
	}
	if offer.Wager > 0 {
		for _, p := range offer.Participants() {
			if !o.economy.HasBalance(p, offer.Wager) {
				return ErrInsufficientFunds
			}
		}
	}
	if models.ResolvePolicy(offer.Variant).RequireEmptied {
		for _, p := range offer.Participants() {
			if !o.host.InventoryEmpty(p) {
				return ErrInventoryNotEmpty
			}
		}
	}
	return nil
}

// escrowLocked withdraws the per-member wager from every participant, rolling
// back the withdrawals already made if any one fails.
func (o *Orchestrator) escrowLocked(offer *models.ChallengeOffer) error {
	if offer.Wager <= 0 {
		return nil
	}
	withdrawn := make([]models.ParticipantID, 0, len(offer.ChallengerRoster)+len(offer.ChallengedRoster))
	for _, p := range offer.Participants() {
		if !o.economy.Withdraw(p, offer.Wager) {
			for _, q := range withdrawn {
				o.economy.Deposit(q, offer.Wager)
			}
			return ErrInsufficientFunds
		}
		withdrawn = append(withdrawn, p)
	}
	return nil
}

// dropOfferLocked removes an offer and its expiry timer.
func (o *Orchestrator) dropOfferLocked(challenger models.ParticipantID) *models.ChallengeOffer {
	offer := o.registry.Remove(challenger)
	if offer != nil {
		o.timers.cancel(timerKey{kind: timerChallengeExpiry, id: challenger.String()})
	}
	return offer
}

func (o *Orchestrator) createSessionLocked(offer *models.ChallengeOffer) *models.Session {
	sess := &models.Session{
		ID:            uuid.New(),
		Phase:         models.PhaseStarting,
		Variant:       offer.Variant,
		Policy:        models.ResolvePolicy(offer.Variant),
		Wager:         offer.Wager,
		RosterA:       offer.ChallengerRoster,
		RosterB:       offer.ChallengedRoster,
		StartedAt:     o.clock.Now(),
		CountdownLeft: o.cfg.CountdownTicks,
		Kills:         make(map[models.ParticipantID]int),
		Eliminated:    make(map[models.ParticipantID]bool),
	}
	o.table.Insert(sess)
	return sess
}

// prepareSessionLocked snapshots every participant, applies the variant's
// placement and loadout policy, opens the replay log, and arms the first
// countdown tick.
func (o *Orchestrator) prepareSessionLocked(sess *models.Session) {
	for _, p := range sess.Participants() {
		if err := o.snapshots.Save(p); err != nil {
			log.Error().Err(err).Str("participant", p.String()).Msg("snapshot save failed")
		}
	}
	if sess.Policy.Teleport {
		for _, p := range sess.RosterA {
			if err := o.host.Teleport(p, o.arena.SpawnA()); err != nil {
				log.Error().Err(err).Str("participant", p.String()).Msg("teleport failed")
			}
		}
		for _, p := range sess.RosterB {
			if err := o.host.Teleport(p, o.arena.SpawnB()); err != nil {
				log.Error().Err(err).Str("participant", p.String()).Msg("teleport failed")
			}
		}
	}
	if sess.Policy.IssueKit {
		for _, p := range sess.Participants() {
			if err := o.host.ClearInventory(p); err != nil {
				log.Error().Err(err).Str("participant", p.String()).Msg("inventory clear failed")
			}
			if err := o.host.GiveKit(p, o.cfg.KitName); err != nil {
				log.Error().Err(err).Str("participant", p.String()).Msg("kit issue failed")
			}
		}
	}
	ctx, cancel := o.settleContext()
	logID, err := o.replay.StartLog(ctx, sess.ID)
	cancel()
	if err != nil {
		log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("replay log start failed")
	} else {
		sess.ReplayID = logID
	}
	o.timers.schedule(timerKey{kind: timerCountdownTick, id: sess.ID.String()}, o.cfg.CountdownInterval)
}

// RejectChallenge resolves the offer negatively. Rejecting an already
// resolved offer is a no-op returning ErrNoSuchOffer.
func (o *Orchestrator) RejectChallenge(challenger, challenged models.ParticipantID) error {
	o.mu.Lock()
	offer, ok := o.registry.Between(challenger, challenged)
	if !ok {
		o.mu.Unlock()
		return ErrNoSuchOffer
	}
	o.dropOfferLocked(challenger)
	o.mu.Unlock()
	o.notifyOffer(offer, events.KindChallengeRejected, "")
	return nil
}

// CancelChallenge withdraws the challenger's outgoing offer. Cancelling an
// already resolved offer is a no-op returning ErrNoSuchOffer.
func (o *Orchestrator) CancelChallenge(challenger models.ParticipantID) error {
	o.mu.Lock()
	offer := o.dropOfferLocked(challenger)
	o.mu.Unlock()
	if offer == nil {
		return ErrNoSuchOffer
	}
	o.notifyOffer(offer, events.KindChallengeCancelled, "")
	return nil
}

// DamageAllowed arbitrates damage between two participants: permitted iff
// both belong to the same live session, that session is IN_PROGRESS, and the
// two are on opposing rosters. Every other combination is suppressed.
func (o *Orchestrator) DamageAllowed(attacker, victim models.ParticipantID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.arbitrateLocked(attacker, victim)
	return ok
}

func (o *Orchestrator) arbitrateLocked(attacker, victim models.ParticipantID) (*models.Session, bool) {
	sa, okA := o.table.ByParticipant(attacker)
	sv, okV := o.table.ByParticipant(victim)
	if !okA || !okV || sa.ID != sv.ID {
		return nil, false
	}
	if sa.Phase != models.PhaseInProgress {
		return nil, false
	}
	sideA, sideV := sa.SideOf(attacker), sa.SideOf(victim)
	if sideA == models.SideNone || sideV == models.SideNone || sideA == sideV {
		return nil, false
	}
	return sa, true
}

// HandleDamage arbitrates one damage event and, when permitted, records it to
// the replay log. The return value tells the boundary whether to let the
// damage through.
func (o *Orchestrator) HandleDamage(attacker, victim models.ParticipantID, amount float64) bool {
	o.mu.Lock()
	sess, allowed := o.arbitrateLocked(attacker, victim)
	var logID *uuid.UUID
	if allowed {
		logID = sess.ReplayID
	}
	o.mu.Unlock()

	if allowed && logID != nil {
		ctx, cancel := o.settleContext()
		o.replay.LogDamage(ctx, *logID, victim, attacker, amount)
		cancel()
	}
	return allowed
}

// HandleDeath feeds a participant death into the state machine: the victim is
// eliminated, the killer's tally advances, and a roster-level elimination
// check may end the session. Deaths for participants with no live session are
// no-ops, which also covers signals racing an already settled session.
func (o *Orchestrator) HandleDeath(victim, killer models.ParticipantID) {
	o.mu.Lock()
	sess, ok := o.table.ByParticipant(victim)
	if !ok || sess.Eliminated[victim] {
		o.mu.Unlock()
		return
	}
	sess.Eliminated[victim] = true

	var logID *uuid.UUID
	credited := killer != ""
	if credited {
		ks, vs := sess.SideOf(killer), sess.SideOf(victim)
		credited = ks != models.SideNone && ks != vs
	}
	if credited {
		sess.Kills[killer]++
		logID = sess.ReplayID
	}
	job := o.checkEliminationLocked(sess, models.EndReasonElimination)
	o.mu.Unlock()

	if logID != nil {
		ctx, cancel := o.settleContext()
		o.replay.LogKill(ctx, *logID, victim, killer)
		cancel()
	}
	o.notifySession(sess, events.KindElimination, events.EliminationPayload{
		SessionID:   sess.ID.String(),
		Participant: victim,
		Killer:      killer,
	})
	o.settle(job)
}

// HandleDisconnect is a first-class state-machine input, not an error: it
// voids any offer the participant is party to and counts as an elimination in
// any live session, with forfeiture semantics when the side is now defeated.
func (o *Orchestrator) HandleDisconnect(id models.ParticipantID) {
	o.mu.Lock()
	var voided []*models.ChallengeOffer
	if offer, ok := o.registry.ForMember(id); ok {
		o.dropOfferLocked(offer.Challenger)
		voided = append(voided, offer)
	}

	var job *settlementJob
	sess, inSession := o.table.ByParticipant(id)
	if inSession && !sess.Eliminated[id] {
		sess.Eliminated[id] = true
		job = o.checkEliminationLocked(sess, models.EndReasonDesertion)
	}
	o.mu.Unlock()

	for _, offer := range voided {
		o.notifyOffer(offer, events.KindChallengeCancelled, "offline")
	}
	if inSession {
		o.notifySession(sess, events.KindElimination, events.EliminationPayload{
			SessionID:    sess.ID.String(),
			Participant:  id,
			Disconnected: true,
		})
	}
	o.settle(job)
}

// checkEliminationLocked ends the session when a roster side is fully
// defeated. Both sides defeated is a draw.
func (o *Orchestrator) checkEliminationLocked(sess *models.Session, reason models.EndReason) *settlementJob {
	defA, defB := sess.Defeated(models.SideA), sess.Defeated(models.SideB)
	switch {
	case defA && defB:
		return o.endSessionLocked(sess, models.SideNone, reason)
	case defA:
		return o.endSessionLocked(sess, models.SideB, reason)
	case defB:
		return o.endSessionLocked(sess, models.SideA, reason)
	}
	return nil
}

// CancelSession forces an immediate draw-with-refund end, for admin or system
// use. It is idempotent: cancelling an unknown or already ended session
// returns false with no side effects.
func (o *Orchestrator) CancelSession(id uuid.UUID) bool {
	o.mu.Lock()
	sess, ok := o.table.Get(id)
	var job *settlementJob
	if ok {
		job = o.endSessionLocked(sess, models.SideNone, models.EndReasonCancelled)
	}
	o.mu.Unlock()
	if job == nil {
		return false
	}
	o.settle(job)
	return true
}

// Close shuts the orchestrator down: every pending offer is voided, every
// live session settles as a cancelled draw with wagers refunded, and all
// timers stop. Further operations fail with ErrClosed.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	var offers []*models.ChallengeOffer
	for _, challenger := range o.registry.Challengers() {
		offers = append(offers, o.dropOfferLocked(challenger))
	}
	var jobs []*settlementJob
	for _, sess := range o.table.Sessions() {
		if job := o.endSessionLocked(sess, models.SideNone, models.EndReasonCancelled); job != nil {
			jobs = append(jobs, job)
		}
	}
	o.mu.Unlock()

	for _, offer := range offers {
		o.notifyOffer(offer, events.KindChallengeCancelled, "shutting_down")
	}
	for _, job := range jobs {
		o.settle(job)
	}
	o.timers.close()
	log.Info().Msg("orchestrator closed")
}

// endSessionLocked commits the authoritative ENDED transition: phase, winner,
// table removal, and timer cancellation happen here, under the lock, before
// any settlement side effect runs. A second call for the same session finds
// it gone from the table and returns nil.
func (o *Orchestrator) endSessionLocked(sess *models.Session, winner models.Side, reason models.EndReason) *settlementJob {
	if sess.Phase == models.PhaseEnded {
		return nil
	}
	if o.table.Remove(sess.ID) == nil {
		return nil
	}
	now := o.clock.Now()
	sess.Phase = models.PhaseEnded
	sess.EndedAt = &now
	sess.Winner = winner
	sess.EndReason = reason
	o.timers.cancelSession(sess.ID.String())
	log.Info().
		Str("session_id", sess.ID.String()).
		Str("winner", string(winner)).
		Str("reason", string(reason)).
		Msg("session ended")
	return &settlementJob{session: sess}
}

// onTimer is the scheduler callback. It re-fetches current state by key so a
// stale timer is harmless.
func (o *Orchestrator) onTimer(key timerKey) {
	switch key.kind {
	case timerChallengeExpiry:
		o.onChallengeExpiry(models.ParticipantID(key.id))
	case timerCountdownTick:
		if id, err := uuid.Parse(key.id); err == nil {
			o.onCountdownTick(id)
		}
	case timerMaxDuration:
		if id, err := uuid.Parse(key.id); err == nil {
			o.onMaxDuration(id)
		}
	}
}

// onChallengeExpiry silently withdraws a still-pending offer. This is a
// normal terminal transition; both parties are notified.
func (o *Orchestrator) onChallengeExpiry(challenger models.ParticipantID) {
	o.mu.Lock()
	offer := o.registry.Remove(challenger)
	o.mu.Unlock()
	if offer == nil {
		return
	}
	o.notifyOffer(offer, events.KindChallengeExpired, "")
	log.Info().
		Str("challenger", offer.Challenger.String()).
		Str("challenged", offer.Challenged.String()).
		Msg("challenge expired")
}

func (o *Orchestrator) onCountdownTick(id uuid.UUID) {
	o.mu.Lock()
	sess, ok := o.table.Get(id)
	if !ok || sess.Phase != models.PhaseStarting {
		o.mu.Unlock()
		return
	}
	sess.CountdownLeft--
	remaining := sess.CountdownLeft
	if remaining > 0 {
		o.timers.schedule(timerKey{kind: timerCountdownTick, id: id.String()}, o.cfg.CountdownInterval)
	} else {
		sess.Phase = models.PhaseInProgress
		o.timers.schedule(timerKey{kind: timerMaxDuration, id: id.String()}, o.cfg.MaxDuration)
	}
	o.mu.Unlock()

	o.notifySession(sess, events.KindCountdownTick, events.CountdownPayload{
		SessionID: id.String(),
		Remaining: remaining,
	})
	if remaining <= 0 {
		o.notifySession(sess, events.KindDuelStarted, sessionPayload(sess))
		log.Info().Str("session_id", id.String()).Msg("duel in progress")
	}
}

func (o *Orchestrator) onMaxDuration(id uuid.UUID) {
	o.mu.Lock()
	var job *settlementJob
	if sess, ok := o.table.Get(id); ok && sess.Phase == models.PhaseInProgress {
		job = o.endSessionLocked(sess, models.SideNone, models.EndReasonTimeout)
	}
	o.mu.Unlock()
	o.settle(job)
}

// SessionFor returns the live session a participant is in.
func (o *Orchestrator) SessionFor(p models.ParticipantID) (*models.Session, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.table.ByParticipant(p)
}

// PendingOffer returns the participant's outgoing offer.
func (o *Orchestrator) PendingOffer(p models.ParticipantID) (*models.ChallengeOffer, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.registry.Outgoing(p)
}

// LiveSessions returns the number of sessions currently in the table.
func (o *Orchestrator) LiveSessions() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.table.Len()
}

func (o *Orchestrator) notifyOffer(offer *models.ChallengeOffer, kind events.Kind, reasonCode string) {
	payload := events.ChallengePayload{
		Challenger: offer.Challenger,
		Challenged: offer.Challenged,
		Variant:    offer.Variant,
		Wager:      offer.Wager,
		Reason:     reasonCode,
	}
	o.notifier.Notify(offer.Challenger, kind, payload)
	o.notifier.Notify(offer.Challenged, kind, payload)
}

func (o *Orchestrator) notifySession(sess *models.Session, kind events.Kind, payload any) {
	for _, p := range sess.Participants() {
		o.notifier.Notify(p, kind, payload)
	}
}

func sessionPayload(sess *models.Session) events.SessionPayload {
	return events.SessionPayload{
		SessionID: sess.ID.String(),
		Variant:   sess.Variant,
		RosterA:   sess.RosterA,
		RosterB:   sess.RosterB,
		Wager:     sess.Wager,
	}
}
