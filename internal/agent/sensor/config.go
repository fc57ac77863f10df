package sensor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wayline-io/wayline/internal/agent/resolver"
)

// Travel modes accepted by the routing provider.
const (
	TravelModeBicycle         = "bicycle"
	TravelModeCar             = "car"
	TravelModePedestrian      = "pedestrian"
	TravelModePublic          = "publicTransport"
	TravelModePublicTimeTable = "publicTransportTimeTable"
	TravelModeTruck           = "truck"
)

// Route preferences.
const (
	RouteModeFastest  = "fastest"
	RouteModeShortest = "shortest"
)

// Unit systems for the reported distance.
const (
	UnitSystemMetric   = "metric"
	UnitSystemImperial = "imperial"
)

const (
	// DefaultName is used when the configuration does not name the sensor.
	DefaultName = "Travel Time"

	// DefaultScanInterval is the refresh period when none is configured.
	DefaultScanInterval = 5 * time.Minute
)

var travelModes = map[string]bool{
	TravelModeBicycle:         true,
	TravelModeCar:             true,
	TravelModePedestrian:      true,
	TravelModePublic:          true,
	TravelModePublicTimeTable: true,
	TravelModeTruck:           true,
}

// vehicleModes are the travel modes for which the provider's traffic time is
// meaningful. For every other mode traffic time is defined to equal base time.
var vehicleModes = map[string]bool{
	TravelModeCar:   true,
	TravelModeTruck: true,
}

// EndpointConfig describes one end of the route: either a fixed coordinate
// pair or an entity reference, never both.
type EndpointConfig struct {
	Latitude  *float64 `json:"latitude,omitempty" mapstructure:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" mapstructure:"longitude"`
	EntityID  string   `json:"entity-id,omitempty" mapstructure:"entity-id"`
}

// Validate checks the exactly-one-of constraint on the endpoint fields.
func (e *EndpointConfig) Validate(field string) []error {
	errs := []error{}

	hasCoords := e.Latitude != nil || e.Longitude != nil
	switch {
	case hasCoords && e.EntityID != "":
		errs = append(errs, fmt.Errorf("%s: latitude/longitude and entity-id are mutually exclusive", field))
	case !hasCoords && e.EntityID == "":
		errs = append(errs, fmt.Errorf("%s: either latitude+longitude or entity-id is required", field))
	case hasCoords && (e.Latitude == nil || e.Longitude == nil):
		errs = append(errs, fmt.Errorf("%s: latitude and longitude must be given together", field))
	}

	if e.Latitude != nil && (*e.Latitude < -90 || *e.Latitude > 90) {
		errs = append(errs, fmt.Errorf("%s: latitude out of range", field))
	}
	if e.Longitude != nil && (*e.Longitude < -180 || *e.Longitude > 180) {
		errs = append(errs, fmt.Errorf("%s: longitude out of range", field))
	}

	return errs
}

// Spec converts the validated endpoint into the resolver's tagged union.
func (e *EndpointConfig) Spec() resolver.LocationSpec {
	if e.EntityID != "" {
		return resolver.EntityRef(e.EntityID)
	}
	return resolver.Coordinate(*e.Latitude, *e.Longitude)
}

// Config is the static, per-sensor configuration.
type Config struct {
	Name         string         `json:"name" mapstructure:"name"`
	Mode         string         `json:"mode" mapstructure:"mode"`
	RouteMode    string         `json:"route-mode" mapstructure:"route-mode"`
	TrafficMode  bool           `json:"traffic-mode" mapstructure:"traffic-mode"`
	UnitSystem   string         `json:"unit-system" mapstructure:"unit-system"`
	ScanInterval time.Duration  `json:"scan-interval" mapstructure:"scan-interval"`
	Origin       EndpointConfig `json:"origin" mapstructure:"origin"`
	Destination  EndpointConfig `json:"destination" mapstructure:"destination"`
}

// Complete fills in defaulted fields.
func (c *Config) Complete() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Mode == "" {
		c.Mode = TravelModeCar
	}
	if c.RouteMode == "" {
		c.RouteMode = RouteModeFastest
	}
	if c.UnitSystem == "" {
		c.UnitSystem = UnitSystemMetric
	}
	if c.ScanInterval <= 0 {
		c.ScanInterval = DefaultScanInterval
	}
}

// Validate checks the whole sensor configuration. Call Complete first.
func (c *Config) Validate() []error {
	errs := []error{}

	if !travelModes[c.Mode] {
		errs = append(errs, fmt.Errorf("unknown travel mode %q", c.Mode))
	}
	if c.RouteMode != RouteModeFastest && c.RouteMode != RouteModeShortest {
		errs = append(errs, fmt.Errorf("unknown route mode %q", c.RouteMode))
	}
	if c.UnitSystem != UnitSystemMetric && c.UnitSystem != UnitSystemImperial {
		errs = append(errs, fmt.Errorf("unknown unit system %q", c.UnitSystem))
	}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, errors.New("sensor name must not be blank"))
	}

	errs = append(errs, c.Origin.Validate("origin")...)
	errs = append(errs, c.Destination.Validate("destination")...)

	return errs
}

// ObjectID derives the stable topic/URL identifier from the sensor name.
func (c *Config) ObjectID() string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(c.Name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Icon returns the frontend icon for the configured travel mode.
func (c *Config) Icon() string {
	switch c.Mode {
	case TravelModeBicycle:
		return "mdi:bike"
	case TravelModePedestrian:
		return "mdi:walk"
	case TravelModePublic, TravelModePublicTimeTable:
		return "mdi:bus"
	case TravelModeTruck:
		return "mdi:truck"
	default:
		return "mdi:car"
	}
}
