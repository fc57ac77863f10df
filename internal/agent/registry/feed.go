package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wayline-io/wayline/pkg/log"
	"github.com/wayline-io/wayline/pkg/mqtt"
	"github.com/wayline-io/wayline/pkg/mqtt/topic"
)

// statePayload is the JSON body published by the platform on entity state topics.
type statePayload struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// Feed keeps a Registry current from the platform's MQTT entity state topics.
type Feed struct {
	reg    *Registry
	client mqtt.Client
	topics *topic.Builder
	logger log.Logger
}

// NewFeed creates a Feed writing into reg.
func NewFeed(reg *Registry, client mqtt.Client, topics *topic.Builder) *Feed {
	return &Feed{
		reg:    reg,
		client: client,
		topics: topics,
		logger: log.WithName("registry-feed"),
	}
}

// Start subscribes to the entity state wildcard. Retained messages replay the
// platform's current state on connect, so the registry warms up immediately.
func (f *Feed) Start(ctx context.Context) error {
	filter := f.topics.EntityStateWildcard()

	if err := f.client.Subscribe(ctx, filter, 1, f.handleState); err != nil {
		return fmt.Errorf("failed to subscribe to entity state topics: %w", err)
	}

	f.logger.Info("Entity state feed started", "filter", filter)
	return nil
}

func (f *Feed) handleState(ctx context.Context, t string, payload []byte) {
	entityID, ok := f.topics.EntityFromStateTopic(t)
	if !ok {
		f.logger.Warn("Ignoring state message on unexpected topic", "topic", t)
		return
	}

	var body statePayload
	if err := json.Unmarshal(payload, &body); err != nil {
		f.logger.Error(err, "Failed to unmarshal entity state", "entityID", entityID)
		return
	}

	f.reg.Set(entityID, body.State, body.Attributes)
	f.logger.Debug("Entity state updated", "entityID", entityID, "state", body.State)
}
