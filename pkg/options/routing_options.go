package options

import (
	"errors"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*RoutingOptions)(nil)

// RoutingOptions contains the routing provider endpoint and credentials.
type RoutingOptions struct {
	// Endpoint is the base URL of the provider's calculateroute operation.
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// AppID and AppCode form the provider credential pair.
	AppID   string `json:"app-id" mapstructure:"app-id"`
	AppCode string `json:"app-code" mapstructure:"app-code"`

	// Timeout bounds a single route request end to end.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewRoutingOptions creates a RoutingOptions object with default parameters.
func NewRoutingOptions() *RoutingOptions {
	return &RoutingOptions{
		Endpoint: "https://route.api.here.com/routing/7.2/calculateroute.json",
		Timeout:  30 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *RoutingOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errs := []error{}

	if o.AppID == "" {
		errs = append(errs, errors.New("routing app-id is required"))
	}
	if o.AppCode == "" {
		errs = append(errs, errors.New("routing app-code is required"))
	}
	if u, err := url.Parse(o.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errors.New("routing endpoint must be an absolute URL"))
	}

	return errs
}

// AddFlags adds flags for RoutingOptions to the specified FlagSet.
func (o *RoutingOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Endpoint, "routing.endpoint", o.Endpoint, "Base URL of the routing provider's calculateroute operation.")
	fs.StringVar(&o.AppID, "routing.app-id", o.AppID, "Routing provider application ID.")
	fs.StringVar(&o.AppCode, "routing.app-code", o.AppCode, "Routing provider application code.")
	fs.DurationVar(&o.Timeout, "routing.timeout", o.Timeout, "Timeout for a single route request.")
}
