package agent

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wayline-io/wayline/internal/agent/registry"
	"github.com/wayline-io/wayline/internal/agent/routing"
	"github.com/wayline-io/wayline/internal/agent/sensor"
	"github.com/wayline-io/wayline/internal/agent/server"
	"github.com/wayline-io/wayline/pkg/log"
	"github.com/wayline-io/wayline/pkg/mqtt"
	"github.com/wayline-io/wayline/pkg/mqtt/topic"
)

// Agent is the assembled service: a set of travel-time sensors fed by the
// entity registry, exposed over HTTP and optionally mirrored to MQTT.
type Agent struct {
	sensors  []*sensor.Sensor
	registry *registry.Registry
	routing  routing.Client
	server   *server.Server

	// mqtt, topics and publisher are nil when no broker is configured.
	mqtt      mqtt.Client
	topics    *topic.Builder
	publisher *Publisher

	ready  atomic.Bool
	logger log.Logger
}

func (a *Agent) isReady() bool {
	return a.ready.Load()
}

// Run starts the agent and blocks until ctx is cancelled or a component
// fails. Startup order: MQTT connect, credential probe, sensor activation,
// then the HTTP server and refresh loops.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("Starting agent", "sensors", len(a.sensors))

	if a.mqtt != nil {
		if err := a.mqtt.Start(ctx); err != nil {
			return fmt.Errorf("failed to start mqtt client: %w", err)
		}
		defer a.mqtt.Disconnect(context.Background())

		if err := a.mqtt.AwaitConnection(ctx); err != nil {
			return fmt.Errorf("failed to establish initial mqtt connection: %w", err)
		}

		feed := registry.NewFeed(a.registry, a.mqtt, a.topics)
		if err := feed.Start(ctx); err != nil {
			return err
		}
	}

	// A credential rejection at startup is fatal before any sensor comes
	// online. Transient probe failures surface again on the first cycle.
	if err := a.routing.CheckCredentials(ctx); err != nil {
		if errors.Is(err, routing.ErrInvalidCredentials) {
			return fmt.Errorf("routing provider rejected the configured credentials: %w", err)
		}
		a.logger.Warn("Credential probe failed, continuing", "reason", err.Error())
	}

	for _, s := range a.sensors {
		if err := s.Activate(ctx); err != nil {
			return fmt.Errorf("failed to activate sensor %q: %w", s.Name(), err)
		}

		if a.publisher != nil {
			s.OnUpdate(func(snap sensor.Snapshot) {
				if err := a.publisher.PublishSnapshot(ctx, snap); err != nil {
					a.logger.Error(err, "Failed to publish sensor update", "sensor", snap.ObjectID)
				}
			})
			if err := a.publisher.PublishAvailability(ctx, s.ObjectID(), true); err != nil {
				a.logger.Error(err, "Failed to publish availability", "sensor", s.ObjectID())
			}
		}

		a.logger.Info("Sensor registered", "name", s.Name(), "objectID", s.ObjectID())
	}

	if a.publisher != nil {
		if err := a.publisher.PublishAgentAvailability(ctx, true); err != nil {
			a.logger.Error(err, "Failed to publish agent availability")
		}
	}

	a.ready.Store(true)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Start(gctx)
	})

	for _, s := range a.sensors {
		g.Go(func() error {
			return s.Run(gctx)
		})
	}

	err := g.Wait()
	a.ready.Store(false)

	a.markOffline()

	a.logger.Info("Agent stopped")
	return err
}

// markOffline retracts availability on the way out. The run context is
// already cancelled at this point, so a short detached one is used.
func (a *Agent) markOffline() {
	if a.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, s := range a.sensors {
		if err := a.publisher.PublishAvailability(ctx, s.ObjectID(), false); err != nil {
			a.logger.Error(err, "Failed to retract availability", "sensor", s.ObjectID())
		}
	}
	if err := a.publisher.PublishAgentAvailability(ctx, false); err != nil {
		a.logger.Error(err, "Failed to retract agent availability")
	}
}
