package resolver

import (
	"errors"
	"testing"

	"github.com/wayline-io/wayline/internal/agent/registry"
)

// countingStore wraps a registry and counts lookups.
type countingStore struct {
	*registry.Registry
	lookups int
}

func (c *countingStore) Get(entityID string) (*registry.State, bool) {
	c.lookups++
	return c.Registry.Get(entityID)
}

func TestResolveCoordinateLiteral(t *testing.T) {
	store := &countingStore{Registry: registry.New()}

	got, err := Resolve(Coordinate(38.9, -77.04833), store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "38.9,-77.04833" {
		t.Errorf("got %q, want %q", got, "38.9,-77.04833")
	}
	if store.lookups != 0 {
		t.Errorf("coordinate resolution performed %d registry lookups, want 0", store.lookups)
	}
}

func TestResolveMissingEntity(t *testing.T) {
	_, err := Resolve(EntityRef("device_tracker.gone"), registry.New())
	if !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("err = %v, want ErrEntityNotFound", err)
	}
}

func TestResolveFromAttributes(t *testing.T) {
	reg := registry.New()
	reg.Set("device_tracker.paulus", "not_home", map[string]any{
		"latitude":  38.9,
		"longitude": -77.04833,
	})

	got, err := Resolve(EntityRef("device_tracker.paulus"), reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "38.9,-77.04833" {
		t.Errorf("got %q, want %q", got, "38.9,-77.04833")
	}
}

func TestResolveZoneIndirection(t *testing.T) {
	reg := registry.New()
	reg.Set("device_tracker.paulus", "home", nil)
	reg.Set("zone.home", "zoning", map[string]any{
		"latitude":  39.0,
		"longitude": -77.1,
	})

	got, err := Resolve(EntityRef("device_tracker.paulus"), reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "39.0,-77.1" {
		t.Errorf("got %q, want %q", got, "39.0,-77.1")
	}
}

func TestResolveNestedEntity(t *testing.T) {
	reg := registry.New()
	reg.Set("sensor.commute_origin", "device_tracker.car", nil)
	reg.Set("device_tracker.car", "parked", map[string]any{
		"latitude":  38.9,
		"longitude": -77.04833,
	})

	got, err := Resolve(EntityRef("sensor.commute_origin"), reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "38.9,-77.04833" {
		t.Errorf("got %q, want %q", got, "38.9,-77.04833")
	}
}

func TestResolveReferenceCycle(t *testing.T) {
	reg := registry.New()
	reg.Set("sensor.a", "sensor.b", nil)
	reg.Set("sensor.b", "sensor.a", nil)

	_, err := Resolve(EntityRef("sensor.a"), reg)
	if !errors.Is(err, ErrReferenceCycle) {
		t.Errorf("err = %v, want ErrReferenceCycle", err)
	}
}

func TestResolveCoordinateState(t *testing.T) {
	reg := registry.New()
	reg.Set("sensor.dropoff", "38.9,-77.04833", nil)

	got, err := Resolve(EntityRef("sensor.dropoff"), reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "38.9,-77.04833" {
		t.Errorf("got %q, want %q", got, "38.9,-77.04833")
	}
}

func TestResolveInvalidState(t *testing.T) {
	reg := registry.New()
	reg.Set("sensor.broken", "unknown", nil)

	_, err := Resolve(EntityRef("sensor.broken"), reg)
	if !errors.Is(err, ErrNotALocation) {
		t.Errorf("err = %v, want ErrNotALocation", err)
	}
}

func TestCoordinatePattern(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{"38.9,-77.04833", true},
		{"-38.9,-77.04833", true},
		{"8.9,177.04833", true},
		{"38,-77", false},
		{"38.9, -77.04833", false},
		{"home", false},
		{"123.9,-77.04833", false},
	}

	for _, tt := range tests {
		if got := coordinatePattern.MatchString(tt.state); got != tt.want {
			t.Errorf("pattern match %q = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestLocationSpecString(t *testing.T) {
	if got := Coordinate(39.0, -77.1).String(); got != "39.0,-77.1" {
		t.Errorf("Coordinate.String() = %q, want %q", got, "39.0,-77.1")
	}
	if got := EntityRef("zone.home").String(); got != "zone.home" {
		t.Errorf("EntityRef.String() = %q, want %q", got, "zone.home")
	}
}
