package topic

import (
	"fmt"
)

// Constants defining the standard topic segments.
// These act as the contract between Wayline and the home-automation platform
// feeding it entity state. Changing these values will break existing setups.
const (
	// SuffixState represents the inbound entity state topic (platform -> Wayline).
	// Structure: {root}/state/{entity_id}
	SuffixState = "state"

	// SuffixSensor groups all outbound sensor topics (Wayline -> platform).
	// Structure: {root}/sensor/{object_id}/...
	SuffixSensor = "sensor"

	// LeafState is the sensor value leaf under a sensor topic.
	LeafState = "state"

	// LeafAttributes is the JSON attribute dictionary leaf under a sensor topic.
	LeafAttributes = "attributes"

	// LeafAvailability is the online/offline leaf under a sensor topic.
	LeafAvailability = "availability"
)

// Builder encapsulates the logic for constructing MQTT topic strings.
// It keeps topic layout decisions in one place.
type Builder struct {
	// root is the base namespace for all topics (e.g. "wayline", "home/wayline").
	root string
}

// NewBuilder creates a new Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// EntityState returns the topic carrying state updates for a single entity.
// Direction: platform -> Wayline
func (b *Builder) EntityState(entityID string) string {
	return b.build(SuffixState, entityID)
}

// EntityStateWildcard returns the wildcard filter covering ALL entity state topics.
// Result: {root}/state/+
func (b *Builder) EntityStateWildcard() string {
	return b.build(SuffixState, "+")
}

// SensorState returns the topic carrying a sensor's current value.
// Direction: Wayline -> platform
func (b *Builder) SensorState(objectID string) string {
	return b.build(SuffixSensor, objectID, LeafState)
}

// SensorAttributes returns the topic carrying a sensor's attribute dictionary.
// Direction: Wayline -> platform
func (b *Builder) SensorAttributes(objectID string) string {
	return b.build(SuffixSensor, objectID, LeafAttributes)
}

// SensorAvailability returns the topic carrying a sensor's online/offline flag.
// Direction: Wayline -> platform
func (b *Builder) SensorAvailability(objectID string) string {
	return b.build(SuffixSensor, objectID, LeafAvailability)
}

// Availability returns the agent-wide availability topic. The connection
// will is registered here, so the platform sees "offline" even on an
// unclean death. Result: {root}/availability
func (b *Builder) Availability() string {
	return b.build(LeafAvailability)
}

// EntityFromStateTopic extracts the entity id from a received state topic.
// Returns false when the topic does not belong to this builder's namespace.
func (b *Builder) EntityFromStateTopic(topic string) (string, bool) {
	prefix := b.build(SuffixState, "")
	if len(topic) <= len(prefix) || topic[:len(prefix)] != prefix {
		return "", false
	}
	id := topic[len(prefix):]
	for i := 0; i < len(id); i++ {
		if id[i] == '/' {
			return "", false
		}
	}
	return id, true
}

func (b *Builder) build(segments ...string) string {
	out := b.root
	for _, s := range segments {
		out = fmt.Sprintf("%s/%s", out, s)
	}
	return out
}
