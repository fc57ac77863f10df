package registry

import (
	"context"
	"testing"

	"github.com/wayline-io/wayline/pkg/mqtt/topic"
)

func TestRegistrySetGet(t *testing.T) {
	r := New()

	if _, ok := r.Get("device_tracker.paulus"); ok {
		t.Fatal("expected unknown entity")
	}

	r.Set("device_tracker.paulus", "home", map[string]any{"latitude": 38.9})

	st, ok := r.Get("device_tracker.paulus")
	if !ok {
		t.Fatal("expected entity to exist")
	}
	if st.State != "home" {
		t.Errorf("state = %q, want %q", st.State, "home")
	}
	if st.Attributes["latitude"] != 38.9 {
		t.Errorf("latitude = %v, want 38.9", st.Attributes["latitude"])
	}
}

func TestRegistryNilAttributes(t *testing.T) {
	r := New()
	r.Set("sensor.x", "42", nil)

	st, _ := r.Get("sensor.x")
	if st.Attributes == nil {
		t.Error("attributes should never be nil")
	}
}

func TestRegistrySeeds(t *testing.T) {
	r := New(
		Seed{EntityID: "zone.home", State: "zoning", Attributes: map[string]any{"latitude": 39.0, "longitude": -77.1}},
		Seed{EntityID: "", State: "ignored"},
	)

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (empty ids are dropped)", r.Len())
	}
	if _, ok := r.Get("zone.home"); !ok {
		t.Error("seeded zone.home missing")
	}
}

func TestFeedHandleState(t *testing.T) {
	r := New()
	f := NewFeed(r, nil, topic.NewBuilder("wayline"))

	ctx := context.Background()

	f.handleState(ctx, "wayline/state/zone.home", []byte(`{"state":"zoning","attributes":{"latitude":39.0,"longitude":-77.1}}`))

	st, ok := r.Get("zone.home")
	if !ok {
		t.Fatal("zone.home not stored")
	}
	if st.State != "zoning" {
		t.Errorf("state = %q, want %q", st.State, "zoning")
	}
	if st.Attributes["longitude"] != -77.1 {
		t.Errorf("longitude = %v, want -77.1", st.Attributes["longitude"])
	}

	// Bad payloads and foreign topics must not add entries.
	f.handleState(ctx, "wayline/state/zone.work", []byte(`{`))
	f.handleState(ctx, "other/state/zone.work", []byte(`{"state":"ok"}`))
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}
