package sensor

import (
	"context"
	"fmt"
	"strings"

	"github.com/wayline-io/wayline/internal/agent/routing"
)

const metersPerMile = 1609.344

// attributionFormat wraps the joined supplier titles into the disclaimer
// sentence shown verbatim in the sensor attributes.
const attributionFormat = "With the support of %s. All information is provided without warranty of any kind."

// TravelRequest is one fully resolved route query. A request is only built
// when both endpoints resolved to coordinate strings.
type TravelRequest struct {
	Origin      string
	Destination string
	TravelMode  string
	RouteMode   string
	Traffic     bool
	UnitSystem  string
}

// TravelResult is the flattened outcome of one successful route fetch.
// It is immutable once built; a new result replaces the old one wholesale.
type TravelResult struct {
	// BaseTime and TrafficTime are travel durations in seconds. TrafficTime
	// equals BaseTime for non-vehicle travel modes.
	BaseTime    int64
	TrafficTime int64

	// Distance is converted into the configured unit system (km or miles).
	Distance float64

	// Route is the provider's short route description.
	Route string

	// OriginName and DestinationName are the mapped road names of the two
	// route endpoints.
	OriginName      string
	DestinationName string

	// Origin and Destination echo the resolved coordinate strings the result
	// was computed for.
	Origin      string
	Destination string

	// Attribution is the supplier disclaimer, or "" when the provider sent no
	// source attribution.
	Attribution string
}

// Fetch performs one blocking route computation and flattens the provider's
// response. Callers own dispatching it off any latency-sensitive path.
func Fetch(ctx context.Context, client routing.Client, req TravelRequest) (*TravelResult, error) {
	resp, err := client.CalculateRoute(ctx, req.Origin, req.Destination, routing.Modes{
		RouteMode:  req.RouteMode,
		TravelMode: req.TravelMode,
		Traffic:    req.Traffic,
	})
	if err != nil {
		return nil, err
	}

	route := resp.Route[0]
	summary := route.Summary

	result := &TravelResult{
		BaseTime:        summary.BaseTime,
		TrafficTime:     summary.BaseTime,
		Distance:        convertDistance(summary.Distance, req.UnitSystem),
		Route:           summary.Text,
		OriginName:      route.Waypoints[0].MappedRoadName,
		DestinationName: route.Waypoints[1].MappedRoadName,
		Origin:          req.Origin,
		Destination:     req.Destination,
	}

	if vehicleModes[req.TravelMode] {
		result.TrafficTime = summary.TrafficTime
	}

	if resp.SourceAttribution != nil {
		result.Attribution = buildAttribution(resp.SourceAttribution)
	}

	return result, nil
}

// convertDistance turns the provider's meters into the configured unit.
func convertDistance(meters float64, unitSystem string) float64 {
	if unitSystem == UnitSystemImperial {
		return meters / metersPerMile
	}
	return meters / 1000
}

// buildAttribution joins all supplier titles with a comma inside the fixed
// disclaimer sentence.
func buildAttribution(sa *routing.SourceAttribution) string {
	titles := make([]string, 0, len(sa.Suppliers))
	for _, s := range sa.Suppliers {
		if s.Title != "" {
			titles = append(titles, s.Title)
		}
	}
	if len(titles) == 0 {
		return ""
	}

	return fmt.Sprintf(attributionFormat, strings.Join(titles, ","))
}
