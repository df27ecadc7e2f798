package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/crawlspace/internal/bus"
)

// State is the lifecycle state of the scanner.
type State string

const (
	Idle     State = "IDLE"
	Scanning State = "SCANNING"
	Finished State = "FINISHED"
	Failed   State = "FAILED"
)

// validTransitions defines allowed state transitions. Scanning cannot be
// re-entered from itself, which is what keeps scans from overlapping.
var validTransitions = map[State][]State{
	Idle:     {Scanning},
	Scanning: {Finished, Failed},
	Finished: {Scanning, Idle},
	Failed:   {Scanning, Idle},
}

// Machine tracks and enforces scanner state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine in the Idle state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Idle,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Busy reports whether a scan is in progress. Inputs that start or alter a
// scan should be disabled while it is true.
func (m *Machine) Busy() bool {
	return m.Current() == Scanning
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.Emit(bus.StateChanged, Change{From: from, To: to})
	return nil
}

// Change is the payload for state change events.
type Change struct {
	From State
	To   State
}
