// Package replay publishes duel replay events to NATS JetStream. The core
// calls it opportunistically; when NATS is not configured the duel package's
// no-op implementation is used instead and sessions run without a log.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
	"github.com/tgray07/duelcore/internal/models"
)

const (
	streamName    = "DUEL_REPLAY"
	subjectPrefix = "duel.replay."

	maxReconnects = 10
	reconnectWait = 2 * time.Second
)

// Publisher writes replay events, one subject per session.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

type event struct {
	LogID     uuid.UUID              `json:"log_id"`
	SessionID string                 `json:"session_id,omitempty"`
	Type      string                 `json:"type"`
	Victim    models.ParticipantID   `json:"victim,omitempty"`
	Attacker  models.ParticipantID   `json:"attacker,omitempty"`
	Amount    float64                `json:"amount,omitempty"`
	Winners   []models.ParticipantID `json:"winners,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Connect dials NATS, ensures the replay stream exists, and returns a
// publisher.
func Connect(ctx context.Context, natsURL string) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}
	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ">"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure replay stream: %w", err)
	}
	return &Publisher{nc: nc, js: js}, nil
}

// StartLog opens a log for the session and returns its id.
func (p *Publisher) StartLog(ctx context.Context, sessionID uuid.UUID) (*uuid.UUID, error) {
	logID := uuid.New()
	if err := p.publish(ctx, logID.String(), event{LogID: logID, SessionID: sessionID.String(), Type: "start"}); err != nil {
		return nil, err
	}
	return &logID, nil
}

// LogKill records a kill. Failures are logged, not returned; replay logging
// never interferes with the session.
func (p *Publisher) LogKill(ctx context.Context, logID uuid.UUID, victim, killer models.ParticipantID) {
	err := p.publish(ctx, logID.String(), event{
		LogID:    logID,
		Type:     "kill",
		Victim:   victim,
		Attacker: killer,
	})
	if err != nil {
		log.Error().Err(err).Str("log_id", logID.String()).Msg("replay kill publish failed")
	}
}

// LogDamage records one permitted damage event.
func (p *Publisher) LogDamage(ctx context.Context, logID uuid.UUID, victim, attacker models.ParticipantID, amount float64) {
	err := p.publish(ctx, logID.String(), event{
		LogID:    logID,
		Type:     "damage",
		Victim:   victim,
		Attacker: attacker,
		Amount:   amount,
	})
	if err != nil {
		log.Error().Err(err).Str("log_id", logID.String()).Msg("replay damage publish failed")
	}
}

// FinalizeLog closes the log with the winning roster; nil winners means a
// draw.
func (p *Publisher) FinalizeLog(ctx context.Context, logID uuid.UUID, winners []models.ParticipantID) error {
	return p.publish(ctx, logID.String(), event{
		LogID:   logID,
		Type:    "finalize",
		Winners: winners,
	})
}

func (p *Publisher) publish(ctx context.Context, key string, ev event) error {
	ev.Timestamp = time.Now().UTC()
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal replay event: %w", err)
	}
	if _, err := p.js.Publish(ctx, subjectPrefix+key, data); err != nil {
		return fmt.Errorf("publish replay event: %w", err)
	}
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	p.nc.Close()
}
