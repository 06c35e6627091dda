package rivalry

import (
	"context"
	"testing"
)

func TestMeetingsAreOrderInsensitive(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if n, _ := m.RecordDuel(ctx, "alice", "bob", "alice"); n != 1 {
		t.Fatalf("first meeting = %d, want 1", n)
	}
	if n, _ := m.RecordDuel(ctx, "bob", "alice", "bob"); n != 2 {
		t.Fatalf("reversed pair should hit the same counter, got %d", n)
	}
	if got := m.Meetings("alice", "bob"); got != 2 {
		t.Fatalf("Meetings = %d, want 2", got)
	}
	if got := m.Meetings("alice", "carol"); got != 0 {
		t.Fatalf("unrelated pair = %d, want 0", got)
	}
}
