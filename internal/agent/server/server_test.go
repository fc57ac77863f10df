package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wayline-io/wayline/internal/agent/registry"
	"github.com/wayline-io/wayline/internal/agent/routing"
	"github.com/wayline-io/wayline/internal/agent/sensor"
	"github.com/wayline-io/wayline/pkg/options"
)

type stubClient struct{}

func (stubClient) CalculateRoute(ctx context.Context, origin, destination string, modes routing.Modes) (*routing.Response, error) {
	return &routing.Response{
		Route: []routing.Route{{
			Summary: routing.Summary{BaseTime: 1800, TrafficTime: 1800, Distance: 1000},
			Waypoints: []routing.Waypoint{
				{MappedRoadName: "A"},
				{MappedRoadName: "B"},
			},
		}},
	}, nil
}

func (stubClient) CheckCredentials(ctx context.Context) error { return nil }

func testSensor(t *testing.T, name string, refreshed bool) *sensor.Sensor {
	t.Helper()

	lat, lon := 38.9, -77.04833
	cfg := sensor.Config{
		Name:        name,
		Origin:      sensor.EndpointConfig{Latitude: &lat, Longitude: &lon},
		Destination: sensor.EndpointConfig{Latitude: &lon, Longitude: &lat},
	}
	cfg.Complete()

	s := sensor.New(cfg, stubClient{}, registry.New())
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if refreshed {
		s.Refresh(context.Background())
	}
	return s
}

func newTestServer(t *testing.T, sensors []*sensor.Sensor, ready func() bool) *httptest.Server {
	t.Helper()
	srv := NewServer(options.NewHttpOptions(), sensors, ready)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestListSensors(t *testing.T) {
	sensors := []*sensor.Sensor{
		testSensor(t, "Commute Home", true),
		testSensor(t, "School Run", false),
	}
	ts := newTestServer(t, sensors, nil)

	resp, err := http.Get(ts.URL + "/api/v1/sensors")
	if err != nil {
		t.Fatalf("GET /api/v1/sensors: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var snaps []sensor.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snaps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d sensors, want 2", len(snaps))
	}
	if snaps[0].ObjectID != "commute_home" || snaps[1].ObjectID != "school_run" {
		t.Errorf("order = %q, %q", snaps[0].ObjectID, snaps[1].ObjectID)
	}
	if snaps[0].State == nil || *snaps[0].State != 30 {
		t.Errorf("refreshed sensor state = %v, want 30", snaps[0].State)
	}
	if snaps[1].State != nil {
		t.Errorf("unrefreshed sensor state = %v, want null", *snaps[1].State)
	}
}

func TestGetSensor(t *testing.T) {
	ts := newTestServer(t, []*sensor.Sensor{testSensor(t, "Commute Home", true)}, nil)

	resp, err := http.Get(ts.URL + "/api/v1/sensors/commute_home")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var snap sensor.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Name != "Commute Home" || snap.UnitOfMeasurement != "min" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestGetSensorNotFound(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp, err := http.Get(ts.URL + "/api/v1/sensors/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestReadyz(t *testing.T) {
	ready := false
	ts := newTestServer(t, nil, func() bool { return ready })

	resp, err := http.Get(ts.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}

	ready = true
	resp, err = http.Get(ts.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
