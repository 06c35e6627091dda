package duel

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// timerKind distinguishes the three deferred callbacks the orchestrator
// schedules.
type timerKind string

const (
	timerChallengeExpiry timerKind = "challenge_expiry"
	timerCountdownTick   timerKind = "countdown_tick"
	timerMaxDuration     timerKind = "max_duration"
)

// timerKey identifies one scheduled callback. For challenge expiry the id is
// the challenger; for session timers it is the session id.
type timerKey struct {
	kind timerKind
	id   string
}

// scheduler owns one-shot timers keyed by session or offer. Callbacks carry
// only the key; the orchestrator re-fetches current state from its tables, so
// a timer firing against an ended or cancelled entity is a no-op.
type scheduler struct {
	clock clockwork.Clock
	fire  func(timerKey)

	mu     sync.Mutex
	active map[timerKey]*timerEntry
	closed bool
}

type timerEntry struct {
	timer  clockwork.Timer
	cancel chan struct{}
}

func newScheduler(clock clockwork.Clock, fire func(timerKey)) *scheduler {
	return &scheduler{
		clock:  clock,
		fire:   fire,
		active: make(map[timerKey]*timerEntry),
	}
}

// schedule arms a one-shot timer for the key, replacing any existing one.
func (s *scheduler) schedule(key timerKey, d time.Duration) {
	entry := &timerEntry{
		timer:  s.clock.NewTimer(d),
		cancel: make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		stopAndDrainTimer(entry.timer)
		return
	}
	if prev, ok := s.active[key]; ok {
		close(prev.cancel)
		stopAndDrainTimer(prev.timer)
	}
	s.active[key] = entry
	s.mu.Unlock()

	go func() {
		select {
		case <-entry.timer.Chan():
			s.mu.Lock()
			if cur, ok := s.active[key]; ok && cur == entry {
				delete(s.active, key)
			}
			s.mu.Unlock()
			s.fire(key)
		case <-entry.cancel:
			stopAndDrainTimer(entry.timer)
		}
	}()

	log.Debug().
		Str("kind", string(key.kind)).
		Str("id", key.id).
		Dur("duration", d).
		Msg("scheduled one-shot timer")
}

// cancel stops and removes the timer for the key, if armed.
func (s *scheduler) cancel(key timerKey) {
	s.mu.Lock()
	entry, ok := s.active[key]
	if ok {
		delete(s.active, key)
	}
	s.mu.Unlock()
	if ok {
		close(entry.cancel)
		stopAndDrainTimer(entry.timer)
	}
}

// cancelSession cancels both session-scoped timers for a session id.
func (s *scheduler) cancelSession(id string) {
	s.cancel(timerKey{kind: timerCountdownTick, id: id})
	s.cancel(timerKey{kind: timerMaxDuration, id: id})
}

// close cancels every armed timer and refuses further scheduling.
func (s *scheduler) close() {
	s.mu.Lock()
	s.closed = true
	entries := s.active
	s.active = make(map[timerKey]*timerEntry)
	s.mu.Unlock()
	for _, entry := range entries {
		close(entry.cancel)
		stopAndDrainTimer(entry.timer)
	}
}

// stopAndDrainTimer safely stops a timer and drains its channel, following
// the pattern recommended by the time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
