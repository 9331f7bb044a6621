package toggle

import (
	"sync"

	"github.com/campuslink/campus/cli/pkg/content"
)

// Action is a boolean viewer preference on an item
type Action string

const (
	Saved            Action = "saved"
	Witnessed        Action = "witnessed"
	NotifySubscribed Action = "notifySubscribed"
)

// Actions lists every toggle action
var Actions = []Action{Saved, Witnessed, NotifySubscribed}

// Key identifies one ActionState
type Key struct {
	Item   content.Key
	Action Action
}

// KeyFor builds a key from an item ID, kind and action
func KeyFor(id string, kind content.Kind, action Action) Key {
	return Key{Item: content.Key{ID: id, Kind: kind}, Action: action}
}

func (k Key) String() string {
	return k.Item.String() + "#" + string(k.Action)
}

// State is the two-phase value of one toggle. Confirmed is the last
// value the server agreed to; Optimistic is what the viewer asked for
// while a confirmation is outstanding.
type State struct {
	Confirmed  bool
	Optimistic bool
	Pending    bool
	// Known is false until the value has been seeded or confirmed.
	Known bool
}

// Value is what the view renders
func (s State) Value() bool {
	if s.Pending {
		return s.Optimistic
	}
	return s.Confirmed
}

// Store owns the ActionState map of one rendering scope. The mutex
// only protects the map; the Pending flag is what serializes toggles.
type Store struct {
	mu     sync.Mutex
	states map[Key]State
	// gens counts toggles started per key; a status read taken under
	// an older generation is stale.
	gens      map[Key]uint64
	observers []func(Key, State)
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{states: make(map[Key]State), gens: make(map[Key]uint64)}
}

// Observe registers fn to run after every state change. It runs
// outside the store lock.
func (s *Store) Observe(fn func(Key, State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Get returns the state of key
func (s *Store) Get(key Key) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[key]
}

// Snapshot copies every state
func (s *Store) Snapshot() map[Key]State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Key]State, len(s.states))
	for k, v := range s.states {
		out[k] = v
	}
	return out
}

// Seed sets the confirmed value from a feed payload or status check.
// It is ignored while a toggle is pending so an older read cannot
// clobber the optimistic value.
func (s *Store) Seed(key Key, value bool) (State, bool) {
	return s.update(key, func(st *State) bool {
		if st.Pending {
			return false
		}
		st.Confirmed = value
		st.Optimistic = value
		st.Known = true
		return true
	})
}

// generation returns the toggle generation of key
func (s *Store) generation(key Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[key]
}

// seedAt is Seed for a read issued at generation gen. It is ignored
// when a toggle started after the read was issued.
func (s *Store) seedAt(key Key, value bool, gen uint64) (State, bool) {
	return s.update(key, func(st *State) bool {
		if st.Pending || s.gens[key] != gen {
			return false
		}
		st.Confirmed = value
		st.Optimistic = value
		st.Known = true
		return true
	})
}

// begin flips the optimistic value and marks the key pending. It
// fails if a confirmation is already outstanding.
func (s *Store) begin(key Key) (State, bool) {
	return s.update(key, func(st *State) bool {
		if st.Pending {
			return false
		}
		st.Optimistic = !st.Confirmed
		st.Pending = true
		s.gens[key]++
		return true
	})
}

// confirm adopts the server's value and clears pending
func (s *Store) confirm(key Key, value bool) State {
	st, _ := s.update(key, func(st *State) bool {
		st.Confirmed = value
		st.Optimistic = value
		st.Pending = false
		st.Known = true
		return true
	})
	return st
}

// revert restores the pre-toggle value and clears pending
func (s *Store) revert(key Key) State {
	st, _ := s.update(key, func(st *State) bool {
		st.Optimistic = st.Confirmed
		st.Pending = false
		return true
	})
	return st
}

func (s *Store) update(key Key, fn func(*State) bool) (State, bool) {
	s.mu.Lock()
	st := s.states[key]
	changed := fn(&st)
	if changed {
		s.states[key] = st
	}
	observers := append([]func(Key, State){}, s.observers...)
	s.mu.Unlock()

	if changed {
		for _, obs := range observers {
			obs(key, st)
		}
	}
	return st, changed
}
