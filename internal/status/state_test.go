package status

import (
	"testing"

	"github.com/matheus3301/wppdash/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine("", nil)
	if m.Current() != Anonymous {
		t.Errorf("initial state = %s, want ANONYMOUS", m.Current())
	}

	m = NewMachine(Authenticated, nil)
	if m.Current() != Authenticated {
		t.Errorf("initial state = %s, want AUTHENTICATED", m.Current())
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Anonymous, Authenticated},
		{Authenticated, Anonymous},
		{Authenticated, Authenticated},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(tt.from, nil)
			if err := m.Transition(tt.to); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("state = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestInvalidTransition(t *testing.T) {
	m := NewMachine(Anonymous, nil)
	if err := m.Transition(Anonymous); err == nil {
		t.Error("Transition(ANONYMOUS -> ANONYMOUS) should fail")
	}
	if m.Current() != Anonymous {
		t.Errorf("state = %s after failed transition, want ANONYMOUS", m.Current())
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	m := NewMachine(Anonymous, b)
	if err := m.Transition(Authenticated); err != nil {
		t.Fatal(err)
	}

	evt := <-ch
	if evt.Kind != bus.SessionStatusChanged {
		t.Errorf("event kind = %q, want %q", evt.Kind, bus.SessionStatusChanged)
	}
	change, ok := evt.Payload.(StatusChange)
	if !ok {
		t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
	}
	if change.From != Anonymous || change.To != Authenticated {
		t.Errorf("change = %v -> %v, want ANONYMOUS -> AUTHENTICATED", change.From, change.To)
	}
}
