package vehicle

import (
	"sync"

	"github.com/nmonzon/carmind/core/model"
	"github.com/nmonzon/carmind/internal/eventbus"
)

// Status describes what the store is currently doing.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
)

// State is an immutable snapshot of the owner's session: the cached vehicle
// set, the current selection and the activity status. Transitions produce a
// new value and never mutate a previous snapshot.
type State struct {
	Vehicles   []model.Vehicle
	SelectedID string
	Status     Status
	Err        string
}

// Selected returns the selected vehicle, if any.
func (s State) Selected() (model.Vehicle, bool) {
	for _, v := range s.Vehicles {
		if v.ID == s.SelectedID {
			return v, true
		}
	}
	return model.Vehicle{}, false
}

// Event is one named state transition. Each mutating event corresponds 1:1
// to a repository call that already succeeded or failed.
type Event interface{ isEvent() }

// LoadStarted flags that a repository call is in flight. Callers must not
// issue another mutating intent until the store leaves StatusLoading; the
// store itself has no queue.
type LoadStarted struct{}

// VehiclesLoaded replaces the vehicle set and auto-selects the first entry.
type VehiclesLoaded struct{ Vehicles []model.Vehicle }

// VehicleAdded appends the vehicle and selects it.
type VehicleAdded struct{ Vehicle model.Vehicle }

// VehicleUpdated replaces the vehicle with the matching id in place.
type VehicleUpdated struct{ Vehicle model.Vehicle }

// VehicleDeleted removes the vehicle; if it was selected, the first
// remaining vehicle is selected instead.
type VehicleDeleted struct{ ID string }

// SelectionSet moves the selection. Ids absent from the current set are
// ignored so the selection can never point at a missing vehicle.
type SelectionSet struct{ ID string }

// ErrorSet surfaces a failure, replacing any previous one.
type ErrorSet struct{ Message string }

// ErrorCleared removes the surfaced error.
type ErrorCleared struct{}

func (LoadStarted) isEvent()    {}
func (VehiclesLoaded) isEvent() {}
func (VehicleAdded) isEvent()   {}
func (VehicleUpdated) isEvent() {}
func (VehicleDeleted) isEvent() {}
func (SelectionSet) isEvent()   {}
func (ErrorSet) isEvent()       {}
func (ErrorCleared) isEvent()   {}

// Reduce is the pure transition function: (previous state, event) -> next
// state. The input state is never modified.
func Reduce(s State, e Event) State {
	next := s
	next.Vehicles = append([]model.Vehicle(nil), s.Vehicles...)

	switch ev := e.(type) {
	case LoadStarted:
		next.Status = StatusLoading

	case VehiclesLoaded:
		next.Vehicles = append([]model.Vehicle(nil), ev.Vehicles...)
		next.SelectedID = ""
		if len(next.Vehicles) > 0 {
			next.SelectedID = next.Vehicles[0].ID
		}
		next.Status = StatusIdle
		next.Err = ""

	case VehicleAdded:
		next.Vehicles = append(next.Vehicles, ev.Vehicle)
		next.SelectedID = ev.Vehicle.ID
		next.Status = StatusIdle
		next.Err = ""

	case VehicleUpdated:
		for i, v := range next.Vehicles {
			if v.ID == ev.Vehicle.ID {
				next.Vehicles[i] = ev.Vehicle
			}
		}
		next.Status = StatusIdle
		next.Err = ""

	case VehicleDeleted:
		kept := make([]model.Vehicle, 0, len(next.Vehicles))
		for _, v := range next.Vehicles {
			if v.ID != ev.ID {
				kept = append(kept, v)
			}
		}
		next.Vehicles = kept
		if next.SelectedID == ev.ID {
			next.SelectedID = ""
			if len(kept) > 0 {
				next.SelectedID = kept[0].ID
			}
		}
		next.Status = StatusIdle
		next.Err = ""

	case SelectionSet:
		for _, v := range next.Vehicles {
			if v.ID == ev.ID {
				next.SelectedID = ev.ID
				break
			}
		}

	case ErrorSet:
		next.Status = StatusError
		next.Err = ev.Message

	case ErrorCleared:
		next.Err = ""
		if next.Status == StatusError {
			next.Status = StatusIdle
		}
	}
	return next
}

// Store holds the current state and fans snapshots out to observers. It is
// owned by the service layer and passed through the call graph; there is no
// package-level instance.
type Store struct {
	mu    sync.RWMutex
	state State
	bus   *eventbus.Bus[State]
}

// NewStore returns an idle, empty Store.
func NewStore() *Store {
	return &Store{
		state: State{Status: StatusIdle},
		bus:   eventbus.New[State](),
	}
}

// Apply runs the event through Reduce and publishes the new snapshot.
func (s *Store) Apply(e Event) State {
	s.mu.Lock()
	s.state = Reduce(s.state, e)
	next := s.state
	s.mu.Unlock()
	s.bus.Publish(next)
	return next
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Busy reports whether a repository call is in flight.
func (s *Store) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Status == StatusLoading
}

// Subscribe returns a channel receiving state snapshots after each event.
func (s *Store) Subscribe() <-chan State { return s.bus.Subscribe() }

// Unsubscribe removes the subscriber.
func (s *Store) Unsubscribe(ch <-chan State) { s.bus.Unsubscribe(ch) }

// Close shuts down the observer bus.
func (s *Store) Close() { s.bus.Close() }
