package duel

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func collectFires() (chan timerKey, func(timerKey)) {
	fired := make(chan timerKey, 8)
	return fired, func(k timerKey) { fired <- k }
}

func expectFire(t *testing.T, fired chan timerKey, want timerKey) {
	t.Helper()
	select {
	case got := <-fired:
		if got != want {
			t.Fatalf("fired %v, want %v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timer %v did not fire", want)
	}
}

func expectSilence(t *testing.T, fired chan timerKey) {
	t.Helper()
	select {
	case got := <-fired:
		t.Fatalf("unexpected fire %v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSchedulerFiresAfterDuration(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired, fire := collectFires()
	s := newScheduler(clock, fire)

	key := timerKey{kind: timerCountdownTick, id: "s1"}
	s.schedule(key, time.Second)

	clock.Advance(time.Second)
	expectFire(t, fired, key)
	expectSilence(t, fired)
}

func TestSchedulerCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired, fire := collectFires()
	s := newScheduler(clock, fire)

	key := timerKey{kind: timerChallengeExpiry, id: "alice"}
	s.schedule(key, time.Second)
	s.cancel(key)

	clock.Advance(time.Second)
	expectSilence(t, fired)
}

func TestSchedulerReplaceSupersedesOldTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired, fire := collectFires()
	s := newScheduler(clock, fire)

	key := timerKey{kind: timerMaxDuration, id: "s1"}
	s.schedule(key, time.Second)
	s.schedule(key, 3*time.Second)

	// The original deadline passes without a fire.
	clock.Advance(time.Second)
	expectSilence(t, fired)

	clock.Advance(2 * time.Second)
	expectFire(t, fired, key)
	expectSilence(t, fired)
}

func TestSchedulerCancelSessionCoversBothTimers(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired, fire := collectFires()
	s := newScheduler(clock, fire)

	s.schedule(timerKey{kind: timerCountdownTick, id: "s1"}, time.Second)
	s.schedule(timerKey{kind: timerMaxDuration, id: "s1"}, time.Second)
	other := timerKey{kind: timerCountdownTick, id: "s2"}
	s.schedule(other, time.Second)

	s.cancelSession("s1")
	clock.Advance(time.Second)

	expectFire(t, fired, other)
	expectSilence(t, fired)
}

func TestSchedulerCloseStopsEverything(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired, fire := collectFires()
	s := newScheduler(clock, fire)

	s.schedule(timerKey{kind: timerCountdownTick, id: "s1"}, time.Second)
	s.close()
	s.schedule(timerKey{kind: timerCountdownTick, id: "s2"}, time.Second)

	clock.Advance(time.Second)
	expectSilence(t, fired)
}
