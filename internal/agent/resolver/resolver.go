package resolver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/wayline-io/wayline/internal/agent/registry"
	"github.com/wayline-io/wayline/pkg/log"
)

// maxRefDepth caps nested entity dereferencing. Entity A may point at entity B
// which points at entity C, but a reference cycle must not loop forever.
const maxRefDepth = 5

// coordinatePattern matches a bare "lat,lon" state value.
var coordinatePattern = regexp.MustCompile(`^-?\d{1,2}\.\d+,-?\d{1,3}\.\d+$`)

var (
	// ErrEntityNotFound means the referenced entity is absent from the registry.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrNotALocation means the entity exists but neither its attributes, its
	// zone, a nested reference nor its state value yield a coordinate pair.
	ErrNotALocation = errors.New("state is not a valid set of coordinates")

	// ErrReferenceCycle means nested entity references exceeded the depth cap,
	// which almost always indicates entities pointing at each other.
	ErrReferenceCycle = errors.New("entity reference chain too deep")
)

// Resolve turns a LocationSpec into a "lat,lon" string the routing provider
// accepts. Coordinate specs return their literal value without touching the
// store. Entity references walk the fallback chain: own location attributes,
// the zone named by the state value, a nested entity reference, and finally a
// state value that is itself a coordinate pair.
func Resolve(spec LocationSpec, store registry.Store) (string, error) {
	if !spec.IsEntityRef() {
		return spec.String(), nil
	}

	return resolveEntity(store, spec.EntityID(), 0)
}

func resolveEntity(store registry.Store, entityID string, depth int) (string, error) {
	if depth > maxRefDepth {
		return "", fmt.Errorf("%w: %s", ErrReferenceCycle, entityID)
	}

	entity, ok := store.Get(entityID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}

	// The entity carries its own location attributes.
	if loc, ok := locationFromAttributes(entity); ok {
		return loc, nil
	}

	// The state value names a zone the device is in.
	if zone, ok := store.Get("zone." + entity.State); ok {
		if loc, ok := locationFromAttributes(zone); ok {
			log.Debug("Entity is in a zone, using zone location",
				"entityID", entityID, "zone", zone.EntityID)
			return loc, nil
		}
	}

	// The state value names another entity to dereference.
	if entity.State != entityID {
		if _, ok := store.Get(entity.State); ok {
			log.Debug("Resolving nested entity reference",
				"entityID", entityID, "nested", entity.State)
			return resolveEntity(store, entity.State, depth+1)
		}
	}

	// The state value is already a coordinate pair.
	if coordinatePattern.MatchString(entity.State) {
		return entity.State, nil
	}

	return "", fmt.Errorf("%w: entity %s has state %q", ErrNotALocation, entityID, entity.State)
}

// locationFromAttributes builds the "lat,lon" string from an entity's
// latitude/longitude attributes, if both are present.
func locationFromAttributes(entity *registry.State) (string, bool) {
	lat, ok := coordAttribute(entity.Attributes["latitude"])
	if !ok {
		return "", false
	}
	lon, ok := coordAttribute(entity.Attributes["longitude"])
	if !ok {
		return "", false
	}

	return lat + "," + lon, true
}

// coordAttribute renders a single latitude or longitude attribute value.
// JSON decoding yields float64, static seeds may carry ints or strings.
func coordAttribute(v any) (string, bool) {
	switch c := v.(type) {
	case float64:
		return formatDegrees(c), true
	case float32:
		return formatDegrees(float64(c)), true
	case int:
		return formatDegrees(float64(c)), true
	case int64:
		return formatDegrees(float64(c)), true
	case string:
		if c == "" {
			return "", false
		}
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			return "", false
		}
		return c, true
	default:
		return "", false
	}
}
