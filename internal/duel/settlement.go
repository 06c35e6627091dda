package duel

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tgray07/duelcore/internal/duel/events"
	"github.com/tgray07/duelcore/internal/models"
)

// settlementJob carries one ended session out of the lock. Its existence
// proves the session was removed from the live table by this caller, so the
// pipeline runs exactly once per session id no matter how many termination
// triggers fired.
type settlementJob struct {
	session *models.Session
}

// settle runs the post-match pipeline. Each step is independently
// fault-tolerant: a collaborator failure is logged and the remaining steps
// still run, and nothing here can roll back the committed in-memory outcome.
func (o *Orchestrator) settle(job *settlementJob) {
	if job == nil {
		return
	}
	sess := job.session
	winners := sess.Roster(sess.Winner)
	draw := sess.Winner == models.SideNone

	o.notifySession(sess, events.KindDuelEnded, events.EndedPayload{
		SessionID: sess.ID.String(),
		Winner:    sess.Winner,
		Winners:   winners,
		EndReason: sess.EndReason,
		Wager:     sess.Wager,
		Draw:      draw,
	})

	o.restoreParticipants(sess)

	rec := models.SettlementRecord{
		SessionID: sess.ID,
		Variant:   sess.Variant,
		RosterA:   sess.RosterA,
		RosterB:   sess.RosterB,
		Winner:    sess.Winner,
		EndReason: sess.EndReason,
		Wager:     sess.Wager,
		Kills:     sess.Kills,
		StartedAt: sess.StartedAt,
		EndedAt:   *sess.EndedAt,
	}

	o.recordResults(sess, draw)
	if !sess.Variant.Team() && !draw {
		rec.Ratings = o.adjustRatings(sess)
	}
	o.settleWager(sess, winners, draw)
	o.recordRivalry(sess, draw)
	o.finalize(sess, rec, winners)

	log.Info().
		Str("session_id", sess.ID.String()).
		Str("winner", string(sess.Winner)).
		Bool("draw", draw).
		Msg("settlement complete")
}

// restoreParticipants restores the pre-duel snapshot for every participant
// still online; offline participants keep their snapshot dropped (nothing to
// restore to). The optional HUD collaborator runs after a successful restore.
func (o *Orchestrator) restoreParticipants(sess *models.Session) {
	for _, p := range sess.Participants() {
		if !o.host.IsOnline(p) {
			o.snapshots.Drop(p)
			continue
		}
		if o.snapshots.Restore(p) {
			o.hud.RestoreHUD(p)
		}
	}
}

// recordResults records win/loss/draw for every participant.
func (o *Orchestrator) recordResults(sess *models.Session, draw bool) {
	ctx, cancel := o.settleContext()
	defer cancel()
	for _, p := range sess.Participants() {
		var err error
		switch {
		case draw:
			err = o.stats.RecordDraw(ctx, p)
		case sess.SideOf(p) == sess.Winner:
			err = o.stats.RecordWin(ctx, p)
		default:
			err = o.stats.RecordLoss(ctx, p)
		}
		if err != nil {
			log.Error().Err(err).Str("participant", p.String()).Msg("stats record failed")
		}
	}
}

// adjustRatings applies the Elo-style adjustment for a decided solo duel:
// the winner gains base plus a gap-scaled bonus, the loser loses the same
// amount capped so the rating never drops below the configured floor.
func (o *Orchestrator) adjustRatings(sess *models.Session) []models.RatingChange {
	ctx, cancel := o.settleContext()
	defer cancel()

	winner := sess.Leader(sess.Winner)
	loser := sess.Leader(sess.Winner.Opponent())

	winnerRating, err := o.stats.Rating(ctx, winner)
	if err != nil {
		log.Error().Err(err).Str("participant", winner.String()).Msg("rating fetch failed")
		return nil
	}
	loserRating, err := o.stats.Rating(ctx, loser)
	if err != nil {
		log.Error().Err(err).Str("participant", loser.String()).Msg("rating fetch failed")
		return nil
	}

	delta := o.cfg.EloBase + (loserRating-winnerRating)/o.cfg.EloGapDivisor
	if delta < o.cfg.EloDeltaMin {
		delta = o.cfg.EloDeltaMin
	}
	if delta > o.cfg.EloDeltaMax {
		delta = o.cfg.EloDeltaMax
	}
	loss := delta
	if max := loserRating - o.cfg.RatingFloor; loss > max {
		loss = max
	}
	if loss < 0 {
		loss = 0
	}

	changes := []models.RatingChange{
		{Participant: winner, Before: winnerRating, After: winnerRating + delta},
		{Participant: loser, Before: loserRating, After: loserRating - loss},
	}
	for _, ch := range changes {
		if err := o.stats.SetRating(ctx, ch.Participant, ch.After); err != nil {
			log.Error().Err(err).Str("participant", ch.Participant.String()).Msg("rating update failed")
			continue
		}
		if err := o.rivalries.RecordRating(ctx, ch.Participant, ch.After); err != nil {
			log.Error().Err(err).Str("participant", ch.Participant.String()).Msg("leaderboard update failed")
		}
	}
	return changes
}

// settleWager pays the escrowed stakes out. Every participant escrowed the
// per-member wager at accept time, so the pot is fully conserved: each winner
// collects twice the stake, a draw or cancellation refunds everyone.
func (o *Orchestrator) settleWager(sess *models.Session, winners []models.ParticipantID, draw bool) {
	if sess.Wager <= 0 {
		return
	}
	if draw {
		for _, p := range sess.Participants() {
			if !o.economy.Deposit(p, sess.Wager) {
				log.Error().Str("participant", p.String()).Msg("wager refund failed")
			}
		}
		return
	}
	payout := 2 * sess.Wager
	for _, p := range winners {
		if !o.economy.Deposit(p, payout) {
			log.Error().Str("participant", p.String()).Msg("wager payout failed")
		}
	}
	log.Info().
		Str("session_id", sess.ID.String()).
		Str("payout", o.economy.Format(payout)).
		Int("winners", len(winners)).
		Msg("wager settled")
}

// recordRivalry advances the counter between the two sides' primary
// participants and broadcasts when a threshold multiple is crossed.
func (o *Orchestrator) recordRivalry(sess *models.Session, draw bool) {
	ctx, cancel := o.settleContext()
	defer cancel()

	first := sess.Leader(models.SideA)
	second := sess.Leader(models.SideB)
	var winner models.ParticipantID
	if !draw {
		winner = sess.Leader(sess.Winner)
	}
	meetings, err := o.rivalries.RecordDuel(ctx, first, second, winner)
	if err != nil {
		log.Error().Err(err).Msg("rivalry update failed")
		return
	}
	if o.cfg.RivalryThreshold > 0 && meetings > 0 && meetings%o.cfg.RivalryThreshold == 0 {
		o.notifier.Broadcast(events.KindRivalry, events.RivalryPayload{
			First:    first,
			Second:   second,
			Meetings: meetings,
		})
	}
}

// finalize appends the history record and closes the replay log. A session
// that never got a replay id skips the log entirely.
func (o *Orchestrator) finalize(sess *models.Session, rec models.SettlementRecord, winners []models.ParticipantID) {
	ctx, cancel := o.settleContext()
	defer cancel()

	if err := o.stats.AddHistory(ctx, rec); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("history append failed")
	}
	if sess.ReplayID != nil {
		if err := o.replay.FinalizeLog(ctx, *sess.ReplayID, winners); err != nil {
			log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("replay finalize failed")
		}
	}
}

func (o *Orchestrator) settleContext() (context.Context, context.CancelFunc) {
	timeout := o.cfg.SettleTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}
