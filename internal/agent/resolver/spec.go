package resolver

import (
	"strconv"
	"strings"
)

type specKind int

const (
	kindCoordinate specKind = iota + 1
	kindEntityRef
)

// LocationSpec is a tagged union of the two ways a location can be given in
// configuration: a fixed coordinate pair, or a reference into the entity
// registry. The variant is decided once at validation time, so nothing
// downstream has to sniff strings at runtime.
type LocationSpec struct {
	kind     specKind
	lat, lon float64
	entityID string
}

// Coordinate returns a LocationSpec for a fixed latitude/longitude pair.
func Coordinate(lat, lon float64) LocationSpec {
	return LocationSpec{kind: kindCoordinate, lat: lat, lon: lon}
}

// EntityRef returns a LocationSpec referring to a registry entity.
func EntityRef(entityID string) LocationSpec {
	return LocationSpec{kind: kindEntityRef, entityID: entityID}
}

// IsEntityRef reports whether the spec must be resolved through the registry.
func (s LocationSpec) IsEntityRef() bool {
	return s.kind == kindEntityRef
}

// EntityID returns the referenced entity id, or "" for coordinate specs.
func (s LocationSpec) EntityID() string {
	return s.entityID
}

// String renders the spec for logs and the sensor attribute set.
func (s LocationSpec) String() string {
	switch s.kind {
	case kindCoordinate:
		return formatCoordinate(s.lat, s.lon)
	case kindEntityRef:
		return s.entityID
	default:
		return ""
	}
}

// formatCoordinate renders a "lat,lon" pair with the shortest exact
// representation, so 38.9 stays "38.9" and not "38.900000".
func formatCoordinate(lat, lon float64) string {
	return formatDegrees(lat) + "," + formatDegrees(lon)
}

// formatDegrees renders one coordinate component. Whole degrees keep a ".0"
// suffix so the output always looks like a decimal pair (39.0, not 39).
func formatDegrees(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
