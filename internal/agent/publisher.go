package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wayline-io/wayline/internal/agent/sensor"
	"github.com/wayline-io/wayline/pkg/log"
	"github.com/wayline-io/wayline/pkg/mqtt"
	"github.com/wayline-io/wayline/pkg/mqtt/topic"
)

// Availability payloads published on the sensor and agent availability topics.
const (
	availabilityOnline  = "online"
	availabilityOffline = "offline"
)

// Publisher mirrors sensor snapshots onto the platform's MQTT sensor topics.
// All publishes are retained, so the platform sees the last value even after
// its own restart.
type Publisher struct {
	client mqtt.Client
	topics *topic.Builder
	logger log.Logger
}

// NewPublisher creates a Publisher writing into the given topic namespace.
func NewPublisher(client mqtt.Client, topics *topic.Builder) *Publisher {
	return &Publisher{
		client: client,
		topics: topics,
		logger: log.WithName("publisher"),
	}
}

// PublishSnapshot writes the sensor value and its attribute dictionary. It is
// called from the sensor's update hook, so only snapshots carrying a state
// ever arrive here.
func (p *Publisher) PublishSnapshot(ctx context.Context, snap sensor.Snapshot) error {
	if snap.State == nil {
		return nil
	}

	state := strconv.FormatInt(*snap.State, 10)
	if err := p.client.Publish(ctx, p.topics.SensorState(snap.ObjectID), 1, true, []byte(state)); err != nil {
		return fmt.Errorf("failed to publish sensor state: %w", err)
	}

	attrs, err := json.Marshal(snap.Attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal sensor attributes: %w", err)
	}
	if err := p.client.Publish(ctx, p.topics.SensorAttributes(snap.ObjectID), 1, true, attrs); err != nil {
		return fmt.Errorf("failed to publish sensor attributes: %w", err)
	}

	p.logger.Debug("Published sensor update", "objectID", snap.ObjectID, "state", state)
	return nil
}

// PublishAvailability marks one sensor online or offline.
func (p *Publisher) PublishAvailability(ctx context.Context, objectID string, online bool) error {
	payload := availabilityOffline
	if online {
		payload = availabilityOnline
	}
	return p.client.Publish(ctx, p.topics.SensorAvailability(objectID), 1, true, []byte(payload))
}

// PublishAgentAvailability marks the whole agent online or offline on the
// topic covered by the connection will.
func (p *Publisher) PublishAgentAvailability(ctx context.Context, online bool) error {
	payload := availabilityOffline
	if online {
		payload = availabilityOnline
	}
	return p.client.Publish(ctx, p.topics.Availability(), 1, true, []byte(payload))
}
