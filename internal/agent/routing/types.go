package routing

import (
	"context"
	"fmt"
)

// Modes is the ordered mode-flag triple selecting the provider's path-finding
// behavior: route preference, travel mode, traffic toggle.
type Modes struct {
	RouteMode  string
	TravelMode string
	Traffic    bool
}

// String renders the triple in the provider's wire format,
// e.g. "fastest;car;traffic:disabled".
func (m Modes) String() string {
	traffic := "traffic:disabled"
	if m.Traffic {
		traffic = "traffic:enabled"
	}
	return fmt.Sprintf("%s;%s;%s", m.RouteMode, m.TravelMode, traffic)
}

// Client is the single outbound operation this system performs: compute a
// route between two coordinate pairs under a set of mode flags.
type Client interface {
	// CalculateRoute issues one blocking route request. origin and destination
	// are "lat,lon" strings.
	CalculateRoute(ctx context.Context, origin, destination string, modes Modes) (*Response, error)

	// CheckCredentials probes the provider with a known-good coordinate pair.
	// It returns ErrInvalidCredentials when the credential pair is rejected.
	CheckCredentials(ctx context.Context) error
}

// Response is the provider's route payload, reduced to the fields this
// system consumes.
type Response struct {
	Route             []Route            `json:"route"`
	SourceAttribution *SourceAttribution `json:"sourceAttribution,omitempty"`
}

// Route is one computed route alternative. The provider returns the best
// match first; only Route[0] is read.
type Route struct {
	Summary   Summary    `json:"summary"`
	Waypoints []Waypoint `json:"waypoint"`
}

// Summary carries the route's aggregate metrics.
type Summary struct {
	// BaseTime is the travel time in seconds without traffic.
	BaseTime int64 `json:"baseTime"`

	// TrafficTime is the traffic-adjusted travel time in seconds. Only
	// meaningful for vehicle modes.
	TrafficTime int64 `json:"trafficTime"`

	// Distance is the route length in meters.
	Distance float64 `json:"distance"`

	// Text is the provider's short human-readable route description.
	Text string `json:"text"`
}

// Waypoint is a matched route endpoint.
type Waypoint struct {
	MappedRoadName string `json:"mappedRoadName"`
}

// SourceAttribution lists the data suppliers behind the route.
type SourceAttribution struct {
	Suppliers []Supplier `json:"supplier"`
}

// Supplier is one attributed data source.
type Supplier struct {
	Title string `json:"title"`
}
