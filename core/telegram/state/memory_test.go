package state

import "testing"

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, State("writing"))
	m.SetTemp(1, "k", int64(42))

	if got := m.GetState(2); got != StateIdle {
		t.Fatalf("untouched user state = %q, want idle", got)
	}
	if _, ok := m.GetTemp(2, "k"); ok {
		t.Fatal("temp data leaked across users")
	}
	if v, ok := m.GetTempInt64(1, "k"); !ok || v != 42 {
		t.Fatalf("GetTempInt64 = (%d, %v), want (42, true)", v, ok)
	}
}

func TestGetTempInt64RejectsWrongType(t *testing.T) {
	m := NewMemoryManager()
	m.SetTemp(1, "k", "not an int")
	if _, ok := m.GetTempInt64(1, "k"); ok {
		t.Fatal("string value asserted as int64")
	}
}

func TestClearRemovesStateAndTemp(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, State("writing"))
	m.SetTemp(1, "k", 1)

	m.Clear(1)

	if m.InProgress(1) {
		t.Fatal("cleared session still in progress")
	}
	if _, ok := m.GetTemp(1, "k"); ok {
		t.Fatal("cleared session kept temp data")
	}
}

func TestClearStateKeepsTemp(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, State("writing"))
	m.SetTemp(1, "k", 1)

	m.ClearState(1)

	if m.HasState(1) {
		t.Fatal("state survived ClearState")
	}
	if _, ok := m.GetTemp(1, "k"); !ok {
		t.Fatal("ClearState dropped temp data")
	}
}

func TestInProgressOnlyForActiveStates(t *testing.T) {
	m := NewMemoryManager()
	if m.InProgress(1) {
		t.Fatal("fresh user in progress")
	}
	m.SetState(1, StateIdle)
	if m.InProgress(1) {
		t.Fatal("idle state counted as in progress")
	}
	m.SetState(1, State("writing"))
	if !m.InProgress(1) {
		t.Fatal("active state not in progress")
	}
}
