package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wayline-io/wayline/pkg/log"
	"github.com/wayline-io/wayline/pkg/options"
)

// Known-good coordinate pair used for the startup credential probe.
const (
	probeOrigin      = "38.9,-77.04833"
	probeDestination = "39.0,-77.1"
)

var _ Client = (*httpClient)(nil)

// httpClient talks to a HERE-style calculateroute endpoint over HTTPS.
type httpClient struct {
	endpoint string
	appID    string
	appCode  string
	hc       *http.Client
	logger   log.Logger
}

// NewClient creates a routing client from the given options.
func NewClient(opts *options.RoutingOptions) Client {
	return &httpClient{
		endpoint: opts.Endpoint,
		appID:    opts.AppID,
		appCode:  opts.AppCode,
		hc: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: log.WithName("routing"),
	}
}

// calculateRouteReply is the provider's top-level JSON envelope. Successful
// replies carry "response"; failures carry the error fields inline.
type calculateRouteReply struct {
	Response *Response `json:"response"`
	apiError
}

func (c *httpClient) CalculateRoute(ctx context.Context, origin, destination string, modes Modes) (*Response, error) {
	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("app_code", c.appCode)
	q.Set("waypoint0", "geo!"+origin)
	q.Set("waypoint1", "geo!"+destination)
	q.Set("mode", modes.String())
	q.Set("departure", "now")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build route request: %w", err)
	}

	c.logger.Debug("Requesting route",
		"origin", origin, "destination", destination, "mode", modes.String())

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read route response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: provider returned %s", ErrInvalidCredentials, resp.Status)
	}

	var reply calculateRouteReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to decode route response: %w", err)
	}

	if reply.Subtype != "" || reply.Type != "" {
		return nil, reply.apiError.toError()
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected provider status %s", resp.Status)
	}

	if reply.Response == nil || len(reply.Response.Route) == 0 {
		return nil, fmt.Errorf("%w: provider returned an empty route set", ErrNoRouteFound)
	}

	if len(reply.Response.Route[0].Waypoints) < 2 {
		return nil, fmt.Errorf("malformed route response: %d waypoints", len(reply.Response.Route[0].Waypoints))
	}

	return reply.Response, nil
}

// CheckCredentials issues one route request for a pair of coordinates that is
// known to route, using the cheapest mode triple. All errors are returned as
// is; the caller decides which failures are fatal.
func (c *httpClient) CheckCredentials(ctx context.Context) error {
	_, err := c.CalculateRoute(ctx, probeOrigin, probeDestination, Modes{
		RouteMode:  "fastest",
		TravelMode: "car",
		Traffic:    false,
	})

	return err
}
