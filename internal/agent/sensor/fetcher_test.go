package sensor

import (
	"context"
	"errors"
	"testing"

	"github.com/wayline-io/wayline/internal/agent/routing"
)

// fakeClient returns a canned response or error for every route request.
type fakeClient struct {
	resp  *routing.Response
	err   error
	calls int
	modes routing.Modes
}

func (f *fakeClient) CalculateRoute(ctx context.Context, origin, destination string, modes routing.Modes) (*routing.Response, error) {
	f.calls++
	f.modes = modes
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeClient) CheckCredentials(ctx context.Context) error {
	if errors.Is(f.err, routing.ErrInvalidCredentials) {
		return f.err
	}
	return nil
}

func routeResponse(baseTime, trafficTime int64, distance float64) *routing.Response {
	return &routing.Response{
		Route: []routing.Route{{
			Summary: routing.Summary{
				BaseTime:    baseTime,
				TrafficTime: trafficTime,
				Distance:    distance,
				Text:        "The trip takes 30 mins.",
			},
			Waypoints: []routing.Waypoint{
				{MappedRoadName: "US-29 - K St NW"},
				{MappedRoadName: "Service Rd S"},
			},
		}},
	}
}

func TestFetchDistanceConversion(t *testing.T) {
	tests := []struct {
		name       string
		unitSystem string
		meters     float64
		want       float64
	}{
		{"imperial miles", UnitSystemImperial, 1609344, 1000.0},
		{"metric kilometers", UnitSystemMetric, 1609344, 1609.344},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{resp: routeResponse(1800, 1800, tt.meters)}

			res, err := Fetch(context.Background(), client, TravelRequest{
				Origin:      "38.9,-77.04833",
				Destination: "39.0,-77.1",
				TravelMode:  TravelModeCar,
				RouteMode:   RouteModeFastest,
				UnitSystem:  tt.unitSystem,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Distance != tt.want {
				t.Errorf("Distance = %v, want %v", res.Distance, tt.want)
			}
		})
	}
}

func TestFetchTrafficTimeByMode(t *testing.T) {
	tests := []struct {
		mode string
		want int64
	}{
		{TravelModeCar, 2400},
		{TravelModeTruck, 2400},
		{TravelModePedestrian, 1800},
		{TravelModeBicycle, 1800},
		{TravelModePublic, 1800},
		{TravelModePublicTimeTable, 1800},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			client := &fakeClient{resp: routeResponse(1800, 2400, 1000)}

			res, err := Fetch(context.Background(), client, TravelRequest{
				Origin:      "38.9,-77.04833",
				Destination: "39.0,-77.1",
				TravelMode:  tt.mode,
				RouteMode:   RouteModeFastest,
				UnitSystem:  UnitSystemMetric,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.TrafficTime != tt.want {
				t.Errorf("TrafficTime = %d, want %d", res.TrafficTime, tt.want)
			}
			if res.BaseTime != 1800 {
				t.Errorf("BaseTime = %d, want 1800", res.BaseTime)
			}
		})
	}
}

func TestFetchModeFlags(t *testing.T) {
	client := &fakeClient{resp: routeResponse(1800, 1800, 1000)}

	_, err := Fetch(context.Background(), client, TravelRequest{
		Origin:      "38.9,-77.04833",
		Destination: "39.0,-77.1",
		TravelMode:  TravelModeTruck,
		RouteMode:   RouteModeShortest,
		Traffic:     true,
		UnitSystem:  UnitSystemMetric,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := client.modes.String(); got != "shortest;truck;traffic:enabled" {
		t.Errorf("modes = %q", got)
	}
}

func TestFetchAttribution(t *testing.T) {
	resp := routeResponse(1800, 1800, 1000)
	resp.SourceAttribution = &routing.SourceAttribution{
		Suppliers: []routing.Supplier{{Title: "A"}, {Title: "B"}},
	}
	client := &fakeClient{resp: resp}

	res, err := Fetch(context.Background(), client, TravelRequest{
		Origin:      "38.9,-77.04833",
		Destination: "39.0,-77.1",
		TravelMode:  TravelModeCar,
		RouteMode:   RouteModeFastest,
		UnitSystem:  UnitSystemMetric,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "With the support of A,B. All information is provided without warranty of any kind."
	if res.Attribution != want {
		t.Errorf("Attribution = %q, want %q", res.Attribution, want)
	}
}

func TestFetchNoAttribution(t *testing.T) {
	client := &fakeClient{resp: routeResponse(1800, 1800, 1000)}

	res, err := Fetch(context.Background(), client, TravelRequest{
		Origin:      "38.9,-77.04833",
		Destination: "39.0,-77.1",
		TravelMode:  TravelModeCar,
		RouteMode:   RouteModeFastest,
		UnitSystem:  UnitSystemMetric,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attribution != "" {
		t.Errorf("Attribution = %q, want empty", res.Attribution)
	}
}

func TestFetchPropagatesErrors(t *testing.T) {
	client := &fakeClient{err: routing.ErrNoRouteFound}

	_, err := Fetch(context.Background(), client, TravelRequest{
		Origin:      "38.9,-77.04833",
		Destination: "39.0,-77.1",
		TravelMode:  TravelModeCar,
		RouteMode:   RouteModeFastest,
		UnitSystem:  UnitSystemMetric,
	})
	if !errors.Is(err, routing.ErrNoRouteFound) {
		t.Errorf("err = %v, want ErrNoRouteFound", err)
	}
}
