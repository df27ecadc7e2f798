package status

import (
	"testing"

	"github.com/matheus3301/crawlspace/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Idle {
		t.Errorf("initial state = %s, want IDLE", m.Current())
	}
	if m.Busy() {
		t.Error("Busy() = true in IDLE")
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Idle, Scanning},
		{Scanning, Finished},
		{Scanning, Failed},
		{Finished, Scanning},
		{Finished, Idle},
		{Failed, Scanning},
		{Failed, Idle},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("state = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

// TestSecondScanRejected verifies that a scan cannot start while another
// one is running.
func TestSecondScanRejected(t *testing.T) {
	m := NewMachine(nil)
	if err := m.Transition(Scanning); err != nil {
		t.Fatal(err)
	}
	if !m.Busy() {
		t.Error("Busy() = false while SCANNING")
	}
	if err := m.Transition(Scanning); err == nil {
		t.Fatal("Transition(SCANNING -> SCANNING) should fail")
	}
	if err := m.Transition(Idle); err == nil {
		t.Error("Transition(SCANNING -> IDLE) should fail")
	}
}

func TestInvalidTransition(t *testing.T) {
	m := NewMachine(nil)
	if err := m.Transition(Finished); err == nil {
		t.Error("Transition(IDLE -> FINISHED) should fail")
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("state.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(Scanning); err != nil {
		t.Fatal(err)
	}

	evt := <-ch
	if evt.Kind != bus.StateChanged {
		t.Errorf("event kind = %q, want %q", evt.Kind, bus.StateChanged)
	}
	change, ok := evt.Payload.(Change)
	if !ok {
		t.Fatalf("payload type = %T, want Change", evt.Payload)
	}
	if change.From != Idle || change.To != Scanning {
		t.Errorf("change = %v -> %v, want IDLE -> SCANNING", change.From, change.To)
	}
}

func walkTo(t *testing.T, m *Machine, target State) {
	t.Helper()
	paths := map[State][]State{
		Idle:     {},
		Scanning: {Scanning},
		Finished: {Scanning, Finished},
		Failed:   {Scanning, Failed},
	}
	for _, s := range paths[target] {
		if err := m.Transition(s); err != nil {
			t.Fatalf("walkTo(%s): %v", target, err)
		}
	}
}
