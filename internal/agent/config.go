package agent

import (
	"fmt"

	"github.com/wayline-io/wayline/internal/agent/registry"
	"github.com/wayline-io/wayline/internal/agent/routing"
	"github.com/wayline-io/wayline/internal/agent/sensor"
	"github.com/wayline-io/wayline/internal/agent/server"
	"github.com/wayline-io/wayline/pkg/log"
	"github.com/wayline-io/wayline/pkg/mqtt"
	"github.com/wayline-io/wayline/pkg/mqtt/topic"
	"github.com/wayline-io/wayline/pkg/options"
)

// Config carries everything needed to assemble a running agent. All fields
// are expected to be completed and validated by the caller.
type Config struct {
	HttpOptions    *options.HttpOptions
	MqttOptions    *options.MqttOptions
	RoutingOptions *options.RoutingOptions

	// Sensors are the travel-time sensors to operate.
	Sensors []sensor.Config

	// Entities seed the registry with static entity state, useful without
	// an MQTT feed.
	Entities []registry.Seed
}

// NewAgent wires the registry, routing client, sensors and servers together.
func (cfg *Config) NewAgent() (*Agent, error) {
	if len(cfg.Sensors) == 0 {
		return nil, fmt.Errorf("at least one sensor must be configured")
	}

	reg := registry.New(cfg.Entities...)
	client := routing.NewClient(cfg.RoutingOptions)

	sensors := make([]*sensor.Sensor, 0, len(cfg.Sensors))
	seen := make(map[string]bool, len(cfg.Sensors))
	for _, sc := range cfg.Sensors {
		s := sensor.New(sc, client, reg)
		if seen[s.ObjectID()] {
			return nil, fmt.Errorf("duplicate sensor name %q", sc.Name)
		}
		seen[s.ObjectID()] = true
		sensors = append(sensors, s)
	}

	a := &Agent{
		sensors:  sensors,
		registry: reg,
		routing:  client,
		logger:   log.WithName("agent"),
	}

	if cfg.MqttOptions.Enabled() {
		topics := topic.NewBuilder(cfg.MqttOptions.TopicRoot)

		cc := cfg.MqttOptions.ToClientConfig()
		cc.WillTopic = topics.Availability()
		cc.WillPayload = []byte(availabilityOffline)

		mqttClient, err := mqtt.NewClient(cc)
		if err != nil {
			return nil, fmt.Errorf("failed to create mqtt client: %w", err)
		}

		a.mqtt = mqttClient
		a.topics = topics
		a.publisher = NewPublisher(mqttClient, topics)
	}

	a.server = server.NewServer(cfg.HttpOptions, sensors, a.isReady)

	return a, nil
}
