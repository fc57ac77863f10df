package sensor

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/wayline-io/wayline/internal/agent/registry"
	"github.com/wayline-io/wayline/internal/agent/resolver"
	"github.com/wayline-io/wayline/internal/agent/routing"
	"github.com/wayline-io/wayline/internal/pkg/metrics"
	"github.com/wayline-io/wayline/pkg/log"
)

// UnitOfMeasurement is the unit of the sensor's state value.
const UnitOfMeasurement = "min"

// noRouteMessage clarifies the provider's cryptic no-route error codes.
const noRouteMessage = "The routing provider could not find a route based on the input"

// Sensor is one travel-time sensor instance. It owns its configuration and
// the latest successful TravelResult; nothing is shared between instances
// beyond the read-only registry.
type Sensor struct {
	cfg      Config
	objectID string
	client   routing.Client
	store    registry.Store
	life     *lifecycle
	logger   log.Logger
	onUpdate func(Snapshot)

	mu     sync.RWMutex
	result *TravelResult
}

// New creates a Sensor from a completed, validated Config.
func New(cfg Config, client routing.Client, store registry.Store) *Sensor {
	return &Sensor{
		cfg:      cfg,
		objectID: cfg.ObjectID(),
		client:   client,
		store:    store,
		life:     newLifecycle(),
		logger:   log.WithName("sensor").WithValues("sensor", cfg.Name),
	}
}

// Name returns the configured display name.
func (s *Sensor) Name() string {
	return s.cfg.Name
}

// ObjectID returns the identifier used in topics and URLs.
func (s *Sensor) ObjectID() string {
	return s.objectID
}

// OnUpdate registers a hook invoked with a fresh snapshot after every
// successful refresh. Must be called before Run.
func (s *Sensor) OnUpdate(fn func(Snapshot)) {
	s.onUpdate = fn
}

// Activate moves the sensor into service after the setup-time checks passed.
func (s *Sensor) Activate(ctx context.Context) error {
	return s.life.activate(ctx)
}

// Lifecycle returns the sensor's current lifecycle state.
func (s *Sensor) Lifecycle() string {
	return s.life.Current()
}

// Run drives the sensor's refresh cycles until the context is canceled.
// The first cycle runs immediately, subsequent ones on the scan interval.
func (s *Sensor) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	s.Refresh(ctx)

	for {
		select {
		case <-ticker.C:
			if s.life.Current() == StateInvalid {
				s.logger.Warn("Sensor is invalid, no further refreshes will be scheduled")
				return nil
			}
			s.Refresh(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Refresh performs one resolve-fetch-update cycle. All failure modes leave
// the previously displayed result untouched.
func (s *Sensor) Refresh(ctx context.Context) {
	if err := s.life.beginRefresh(ctx); err != nil {
		// Either a cycle is still in flight or the sensor is invalid.
		s.logger.Debug("Skipping refresh", "state", s.life.Current(), "reason", err.Error())
		metrics.RefreshTotal.WithLabelValues(s.objectID, metrics.OutcomeRejected).Inc()
		return
	}
	defer s.life.finishRefresh(ctx)

	origin, err := resolver.Resolve(s.cfg.Origin.Spec(), s.store)
	if err != nil {
		s.logger.Error(err, "Unable to resolve origin")
		metrics.RefreshTotal.WithLabelValues(s.objectID, metrics.OutcomeSkipped).Inc()
		return
	}

	destination, err := resolver.Resolve(s.cfg.Destination.Spec(), s.store)
	if err != nil {
		s.logger.Error(err, "Unable to resolve destination")
		metrics.RefreshTotal.WithLabelValues(s.objectID, metrics.OutcomeSkipped).Inc()
		return
	}

	start := time.Now()
	result, err := Fetch(ctx, s.client, TravelRequest{
		Origin:      origin,
		Destination: destination,
		TravelMode:  s.cfg.Mode,
		RouteMode:   s.cfg.RouteMode,
		Traffic:     s.cfg.TrafficMode,
		UnitSystem:  s.cfg.UnitSystem,
	})
	metrics.FetchDuration.WithLabelValues(s.objectID).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, routing.ErrNoRouteFound):
		s.logger.Error(err, noRouteMessage)
		metrics.RefreshTotal.WithLabelValues(s.objectID, metrics.OutcomeNoRoute).Inc()
		return
	case errors.Is(err, routing.ErrInvalidCredentials):
		s.logger.Error(err, "Provider rejected the credentials, disabling sensor")
		s.life.invalidate(ctx)
		metrics.RefreshTotal.WithLabelValues(s.objectID, metrics.OutcomeError).Inc()
		return
	case err != nil:
		s.logger.Error(err, "Refresh cycle failed, will retry on the next tick")
		metrics.RefreshTotal.WithLabelValues(s.objectID, metrics.OutcomeError).Inc()
		return
	}

	s.setResult(result)
	metrics.RefreshTotal.WithLabelValues(s.objectID, metrics.OutcomeUpdated).Inc()

	if state, ok := s.State(); ok {
		metrics.TravelTime.WithLabelValues(s.objectID).Set(float64(state))
	}

	s.logger.Info("Sensor updated",
		"duration", result.BaseTime, "durationInTraffic", result.TrafficTime,
		"distance", result.Distance, "route", result.Route)

	if s.onUpdate != nil {
		s.onUpdate(s.Snapshot())
	}
}

// setResult atomically swaps in a freshly built result.
func (s *Sensor) setResult(r *TravelResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
}

// State returns the sensor value in rounded minutes. The second return is
// false until the first successful fetch.
func (s *Sensor) State() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		return 0, false
	}

	seconds := s.result.BaseTime
	if s.cfg.TrafficMode {
		seconds = s.result.TrafficTime
	}

	return int64(math.Round(float64(seconds) / 60)), true
}

// Attributes is the fixed attribute set exposed alongside the state value.
type Attributes struct {
	UnitSystem        string  `json:"unit_system"`
	Mode              string  `json:"mode"`
	TrafficMode       bool    `json:"traffic_mode"`
	Attribution       string  `json:"attribution,omitempty"`
	Duration          float64 `json:"duration"`
	DurationInTraffic float64 `json:"duration_in_traffic"`
	Distance          float64 `json:"distance"`
	Route             string  `json:"route"`
	Origin            string  `json:"origin"`
	Destination       string  `json:"destination"`
	OriginName        string  `json:"origin_name"`
	DestinationName   string  `json:"destination_name"`
}

// Snapshot is a complete, self-consistent view of the sensor for the HTTP
// API and the MQTT publisher. Attributes is nil until the first success.
type Snapshot struct {
	Name              string      `json:"name"`
	ObjectID          string      `json:"object_id"`
	State             *int64      `json:"state"`
	UnitOfMeasurement string      `json:"unit_of_measurement"`
	Icon              string      `json:"icon"`
	Attributes        *Attributes `json:"attributes"`
}

// Snapshot builds the current view under the read lock, so a concurrent
// result swap can never yield a half-updated attribute set.
func (s *Sensor) Snapshot() Snapshot {
	snap := Snapshot{
		Name:              s.cfg.Name,
		ObjectID:          s.objectID,
		UnitOfMeasurement: UnitOfMeasurement,
		Icon:              s.cfg.Icon(),
	}

	if state, ok := s.State(); ok {
		snap.State = &state
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		return snap
	}

	snap.Attributes = &Attributes{
		UnitSystem:        s.cfg.UnitSystem,
		Mode:              s.cfg.Mode,
		TrafficMode:       s.cfg.TrafficMode,
		Attribution:       s.result.Attribution,
		Duration:          float64(s.result.BaseTime) / 60,
		DurationInTraffic: float64(s.result.TrafficTime) / 60,
		Distance:          s.result.Distance,
		Route:             s.result.Route,
		Origin:            s.result.Origin,
		Destination:       s.result.Destination,
		OriginName:        s.result.OriginName,
		DestinationName:   s.result.DestinationName,
	}

	return snap
}
