package duel

import (
	"context"

	"github.com/google/uuid"
	"github.com/tgray07/duelcore/internal/duel/events"
	"github.com/tgray07/duelcore/internal/models"
)

// EconomyLedger is the external currency collaborator. A false result is
// treated as insufficient funds and aborts the triggering operation before
// any session state is created.
type EconomyLedger interface {
	HasBalance(id models.ParticipantID, amount int64) bool
	Withdraw(id models.ParticipantID, amount int64) bool
	Deposit(id models.ParticipantID, amount int64) bool
	Format(amount int64) string
}

// StatsStore is the external win/loss/rating collaborator. Failures are
// logged by settlement and never block the remaining steps.
type StatsStore interface {
	RecordWin(ctx context.Context, id models.ParticipantID) error
	RecordLoss(ctx context.Context, id models.ParticipantID) error
	RecordDraw(ctx context.Context, id models.ParticipantID) error
	Rating(ctx context.Context, id models.ParticipantID) (int, error)
	SetRating(ctx context.Context, id models.ParticipantID, rating int) error
	AddHistory(ctx context.Context, rec models.SettlementRecord) error
}

// ReplayLog is the opportunistic replay collaborator. A nil id from StartLog
// means logging is disabled and all later calls for the session are skipped.
type ReplayLog interface {
	StartLog(ctx context.Context, sessionID uuid.UUID) (*uuid.UUID, error)
	LogKill(ctx context.Context, logID uuid.UUID, victim, killer models.ParticipantID)
	LogDamage(ctx context.Context, logID uuid.UUID, victim, attacker models.ParticipantID, amount float64)
	FinalizeLog(ctx context.Context, logID uuid.UUID, winners []models.ParticipantID) error
}

// RivalryStore tracks recurring-opponent counters and mirrors ratings to a
// leaderboard. A draw passes an empty winner.
type RivalryStore interface {
	RecordDuel(ctx context.Context, a, b, winner models.ParticipantID) (meetings int, err error)
	RecordRating(ctx context.Context, id models.ParticipantID, rating int) error
}

// ArenaProvider decides teleport targets and the proximity gate for local
// duels.
type ArenaProvider interface {
	Configured() bool
	SpawnA() models.Position
	SpawnB() models.Position
	WithinProximity(a, b models.Position) bool
}

// PlayerHost is the typed adapter to the hosting game engine: presence,
// liveness, and the player-state fields the snapshot store reads and writes.
type PlayerHost interface {
	IsOnline(id models.ParticipantID) bool
	IsAlive(id models.ParticipantID) bool
	CaptureState(id models.ParticipantID) (models.PlayerState, error)
	ApplyInventory(id models.ParticipantID, inv models.Inventory) error
	ApplyGameMode(id models.ParticipantID, mode models.GameMode) error
	ApplyVitals(id models.ParticipantID, v models.Vitals) error
	Teleport(id models.ParticipantID, pos models.Position) error
	ClearInventory(id models.ParticipantID) error
	GiveKit(id models.ParticipantID, kit string) error
	InventoryEmpty(id models.ParticipantID) bool
	Position(id models.ParticipantID) (models.Position, bool)
}

// Notifier is the presentation collaborator. The core never waits on it and
// tolerates it dropping messages.
type Notifier interface {
	Notify(id models.ParticipantID, kind events.Kind, payload any)
	Broadcast(kind events.Kind, payload any)
}

// HUDRestorer is an optional collaborator invoked after snapshot restore,
// resolved at construction time with a no-op default.
type HUDRestorer interface {
	RestoreHUD(id models.ParticipantID)
}

// NoopNotifier drops every notification.
type NoopNotifier struct{}

func (NoopNotifier) Notify(models.ParticipantID, events.Kind, any) {}
func (NoopNotifier) Broadcast(events.Kind, any)                    {}

// NoopHUD is the default HUD collaborator.
type NoopHUD struct{}

func (NoopHUD) RestoreHUD(models.ParticipantID) {}

// NoopReplay disables replay logging: StartLog returns no id, so sessions
// never call the remaining methods.
type NoopReplay struct{}

func (NoopReplay) StartLog(context.Context, uuid.UUID) (*uuid.UUID, error) { return nil, nil }
func (NoopReplay) LogKill(context.Context, uuid.UUID, models.ParticipantID, models.ParticipantID) {
}
func (NoopReplay) LogDamage(context.Context, uuid.UUID, models.ParticipantID, models.ParticipantID, float64) {
}
func (NoopReplay) FinalizeLog(context.Context, uuid.UUID, []models.ParticipantID) error { return nil }

// NoopRivalry records nothing.
type NoopRivalry struct{}

func (NoopRivalry) RecordDuel(context.Context, models.ParticipantID, models.ParticipantID, models.ParticipantID) (int, error) {
	return 0, nil
}
func (NoopRivalry) RecordRating(context.Context, models.ParticipantID, int) error { return nil }
