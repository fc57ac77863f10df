package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wayline-io/wayline/pkg/options"
)

const routeReply = `{
	"response": {
		"route": [{
			"summary": {
				"baseTime": 1800,
				"trafficTime": 2100,
				"distance": 23824,
				"text": "The trip takes 23.8 km and 30 mins."
			},
			"waypoint": [
				{"mappedRoadName": "US-29 - K St NW"},
				{"mappedRoadName": "Service Rd S"}
			]
		}],
		"sourceAttribution": {
			"supplier": [{"title": "NAVTEQ"}, {"title": "TomTom"}]
		}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&options.RoutingOptions{
		Endpoint: srv.URL,
		AppID:    "test-id",
		AppCode:  "test-code",
		Timeout:  5 * time.Second,
	}), srv
}

func TestCalculateRouteSuccess(t *testing.T) {
	var query map[string]string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"app_id":    r.URL.Query().Get("app_id"),
			"app_code":  r.URL.Query().Get("app_code"),
			"waypoint0": r.URL.Query().Get("waypoint0"),
			"waypoint1": r.URL.Query().Get("waypoint1"),
			"mode":      r.URL.Query().Get("mode"),
		}
		w.Write([]byte(routeReply))
	})

	resp, err := client.CalculateRoute(context.Background(), "38.9,-77.04833", "39.0,-77.1", Modes{
		RouteMode:  "fastest",
		TravelMode: "car",
		Traffic:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if query["waypoint0"] != "geo!38.9,-77.04833" {
		t.Errorf("waypoint0 = %q", query["waypoint0"])
	}
	if query["waypoint1"] != "geo!39.0,-77.1" {
		t.Errorf("waypoint1 = %q", query["waypoint1"])
	}
	if query["mode"] != "fastest;car;traffic:enabled" {
		t.Errorf("mode = %q", query["mode"])
	}
	if query["app_id"] != "test-id" || query["app_code"] != "test-code" {
		t.Errorf("credentials not sent: %v", query)
	}

	sum := resp.Route[0].Summary
	if sum.BaseTime != 1800 || sum.TrafficTime != 2100 || sum.Distance != 23824 {
		t.Errorf("summary = %+v", sum)
	}
	if resp.Route[0].Waypoints[0].MappedRoadName != "US-29 - K St NW" {
		t.Errorf("waypoint[0] = %+v", resp.Route[0].Waypoints[0])
	}
	if len(resp.SourceAttribution.Suppliers) != 2 {
		t.Errorf("suppliers = %+v", resp.SourceAttribution.Suppliers)
	}
}

func TestCalculateRouteNoRoute(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"type":"ApplicationError","subtype":"NoRouteFound","details":"Error is NGEO_ERROR_GRAPH_DISCONNECTED"}`))
	})

	_, err := client.CalculateRoute(context.Background(), "0.0,0.0", "1.0,1.0", Modes{RouteMode: "fastest", TravelMode: "car"})
	if !errors.Is(err, ErrNoRouteFound) {
		t.Errorf("err = %v, want ErrNoRouteFound", err)
	}
}

func TestCalculateRouteInvalidCredentials(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http 401", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{}`))
		}},
		{"error subtype", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"type":"PermissionError","subtype":"InvalidCredentials","details":"invalid app_code"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			_, err := client.CalculateRoute(context.Background(), "38.9,-77.04833", "39.0,-77.1", Modes{RouteMode: "fastest", TravelMode: "car"})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestCalculateRouteEmptyRouteSet(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"route":[]}}`))
	})

	_, err := client.CalculateRoute(context.Background(), "38.9,-77.04833", "39.0,-77.1", Modes{RouteMode: "fastest", TravelMode: "car"})
	if !errors.Is(err, ErrNoRouteFound) {
		t.Errorf("err = %v, want ErrNoRouteFound", err)
	}
}

func TestCheckCredentialsProbe(t *testing.T) {
	var gotWaypoints [2]string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotWaypoints[0] = r.URL.Query().Get("waypoint0")
		gotWaypoints[1] = r.URL.Query().Get("waypoint1")
		w.Write([]byte(routeReply))
	})

	if err := client.CheckCredentials(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotWaypoints[0] != "geo!38.9,-77.04833" || gotWaypoints[1] != "geo!39.0,-77.1" {
		t.Errorf("probe waypoints = %v", gotWaypoints)
	}
}

func TestModesString(t *testing.T) {
	tests := []struct {
		modes Modes
		want  string
	}{
		{Modes{"fastest", "car", false}, "fastest;car;traffic:disabled"},
		{Modes{"shortest", "pedestrian", false}, "shortest;pedestrian;traffic:disabled"},
		{Modes{"fastest", "truck", true}, "fastest;truck;traffic:enabled"},
	}

	for _, tt := range tests {
		if got := tt.modes.String(); got != tt.want {
			t.Errorf("Modes.String() = %q, want %q", got, tt.want)
		}
	}
}
