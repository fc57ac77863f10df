package registry

import (
	"sync"
)

// State is a snapshot of one entity's current state value and attributes,
// as reported by the home-automation platform.
type State struct {
	EntityID   string
	State      string
	Attributes map[string]any
}

// Store is the read-only view of the registry handed to consumers.
type Store interface {
	// Get returns the current state of the entity, or false when the entity
	// is unknown.
	Get(entityID string) (*State, bool)
}

// Seed is a statically configured registry entry. Seeds let a deployment
// without a live platform feed still resolve fixed entities and zones.
type Seed struct {
	EntityID   string         `json:"entity-id" mapstructure:"entity-id"`
	State      string         `json:"state" mapstructure:"state"`
	Attributes map[string]any `json:"attributes" mapstructure:"attributes"`
}

var _ Store = (*Registry)(nil)

// Registry is an in-memory entity state store, safe for concurrent use.
// Writers are the platform feed; readers are the sensors' refresh cycles.
type Registry struct {
	mu     sync.RWMutex
	states map[string]*State
}

// New creates an empty Registry, optionally pre-populated from seeds.
func New(seeds ...Seed) *Registry {
	r := &Registry{
		states: make(map[string]*State),
	}

	for _, s := range seeds {
		r.Set(s.EntityID, s.State, s.Attributes)
	}

	return r
}

// Get returns the current state of the entity, or false when unknown.
func (r *Registry) Get(entityID string) (*State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.states[entityID]
	return st, ok
}

// Set replaces the entity's state snapshot. A nil attribute map is stored
// as empty so readers never see nil.
func (r *Registry) Set(entityID, state string, attributes map[string]any) {
	if entityID == "" {
		return
	}
	if attributes == nil {
		attributes = map[string]any{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[entityID] = &State{
		EntityID:   entityID,
		State:      state,
		Attributes: attributes,
	}
}

// Len returns the number of known entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.states)
}
