package economy

import "testing"

func TestWithdrawInsufficientLeavesBalance(t *testing.T) {
	m := NewMemory("coins")
	m.Credit("alice", 50)

	if m.Withdraw("alice", 100) {
		t.Fatalf("withdraw beyond balance should fail")
	}
	if got := m.Balance("alice"); got != 50 {
		t.Fatalf("failed withdraw must not mutate, balance = %d", got)
	}
	if !m.Withdraw("alice", 50) {
		t.Fatalf("exact withdraw should succeed")
	}
	if got := m.Balance("alice"); got != 0 {
		t.Fatalf("balance after withdraw = %d, want 0", got)
	}
}

func TestHasBalance(t *testing.T) {
	m := NewMemory("coins")
	m.Credit("alice", 100)

	if !m.HasBalance("alice", 100) {
		t.Fatalf("should cover exact amount")
	}
	if m.HasBalance("alice", 101) {
		t.Fatalf("should not cover more than held")
	}
	if !m.HasBalance("bob", 0) {
		t.Fatalf("zero amount is always covered")
	}
}

func TestFormat(t *testing.T) {
	m := NewMemory("gems")
	if got := m.Format(250); got != "250 gems" {
		t.Fatalf("Format = %q", got)
	}
}
