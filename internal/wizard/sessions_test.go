package wizard

import (
	"errors"
	"testing"
	"time"
)

func TestSessionsApplyAndUndo(t *testing.T) {
	sessions := NewSessions(0)
	id, state := sessions.Create()
	if state.Step != 1 || id == "" {
		t.Fatalf("unexpected new session %q: %+v", id, state)
	}

	if _, err := sessions.Undo(id); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}

	state, _, err := sessions.Apply(id, Action{Type: ActionSelectSupply, Value: "gas"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if state.Step != 2 || state.Draft.SupplyType != SupplyGas {
		t.Fatalf("unexpected state after select: %+v", state)
	}

	if _, _, err := sessions.Apply(id, Action{Type: ActionSelectCustomer, Value: "pyme"}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}

	state, err = sessions.Undo(id)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if state.Step != 1 || state.Draft.SupplyType != SupplyNone {
		t.Fatalf("undo did not restore the initial state: %+v", state)
	}
}

func TestSessionsHistoryIsBounded(t *testing.T) {
	sessions := NewSessions(2)
	id, _ := sessions.Create()

	for _, name := range []string{"a", "b", "c", "d"} {
		if _, _, err := sessions.Apply(id, Action{Type: ActionSetClientName, Value: name}); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}

	for _, want := range []string{"c", "b"} {
		state, err := sessions.Undo(id)
		if err != nil {
			t.Fatalf("undo: %v", err)
		}
		if state.Draft.ClientName != want {
			t.Fatalf("clientName = %q, want %q", state.Draft.ClientName, want)
		}
	}
	if _, err := sessions.Undo(id); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestSessionsReturnCopies(t *testing.T) {
	sessions := NewSessions(0)
	id, _ := sessions.Create()
	state, _, err := sessions.Apply(id, Action{Type: ActionSetTariffType, Value: "2.0"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	state.Draft.Potencias[0] = "999"

	stored, err := sessions.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Draft.Potencias[0] != "" {
		t.Fatalf("caller mutation leaked into the session")
	}
}

func TestSessionsSweepAndDelete(t *testing.T) {
	sessions := NewSessions(0)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	stale, _ := sessions.Create()
	now = now.Add(20 * time.Minute)
	fresh, _ := sessions.Create()
	now = now.Add(20 * time.Minute)

	if removed := sessions.Sweep(30 * time.Minute); removed != 1 {
		t.Fatalf("Sweep removed %d sessions, want 1", removed)
	}
	if _, err := sessions.Get(stale); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected stale session to be gone, got %v", err)
	}
	if _, err := sessions.Get(fresh); err != nil {
		t.Fatalf("fresh session: %v", err)
	}

	sessions.Delete(fresh)
	if sessions.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", sessions.Len())
	}
	if _, _, err := sessions.Apply(fresh, Action{Type: ActionNext}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
