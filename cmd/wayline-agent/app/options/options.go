package options

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/wayline-io/wayline/internal/agent"
	"github.com/wayline-io/wayline/internal/agent/registry"
	"github.com/wayline-io/wayline/internal/agent/sensor"
	"github.com/wayline-io/wayline/pkg/app"
	"github.com/wayline-io/wayline/pkg/log"
	"github.com/wayline-io/wayline/pkg/options"
)

var _ app.Options = (*AgentOptions)(nil)

// AgentOptions aggregates every option group of the wayline-agent command.
// The sensor and entity lists have no flag representation; they come from the
// configuration file or environment only.
type AgentOptions struct {
	Http    *options.HttpOptions    `json:"http" mapstructure:"http"`
	Mqtt    *options.MqttOptions    `json:"mqtt" mapstructure:"mqtt"`
	Routing *options.RoutingOptions `json:"routing" mapstructure:"routing"`
	Log     *log.Options            `json:"log" mapstructure:"log"`

	Sensors  []sensor.Config `json:"sensors" mapstructure:"sensors"`
	Entities []registry.Seed `json:"entities" mapstructure:"entities"`
}

// NewAgentOptions creates an AgentOptions with default parameters.
func NewAgentOptions() *AgentOptions {
	return &AgentOptions{
		Http:    options.NewHttpOptions(),
		Mqtt:    options.NewMqttOptions(),
		Routing: options.NewRoutingOptions(),
		Log:     log.NewOptions(),
	}
}

// AddFlags binds all option groups to the command's flag set.
func (o *AgentOptions) AddFlags(fs *pflag.FlagSet) {
	o.Http.AddFlags(fs)
	o.Mqtt.AddFlags(fs)
	o.Routing.AddFlags(fs)
	o.Log.AddFlags(fs)
}

// Complete merges the file/env configuration in, initializes logging and
// applies per-sensor defaults.
func (o *AgentOptions) Complete() error {
	if err := app.UnmarshalOptions(o); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	log.Init(o.Log)

	for i := range o.Sensors {
		o.Sensors[i].Complete()
	}

	return nil
}

// Validate checks all option groups and the sensor list together.
func (o *AgentOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.Http.Validate()...)
	errs = append(errs, o.Mqtt.Validate()...)
	errs = append(errs, o.Routing.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	if len(o.Sensors) == 0 {
		errs = append(errs, errors.New("at least one sensor must be configured"))
	}
	for i := range o.Sensors {
		for _, err := range o.Sensors[i].Validate() {
			errs = append(errs, fmt.Errorf("sensors[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// Config converts the validated options into the agent's configuration.
func (o *AgentOptions) Config() *agent.Config {
	return &agent.Config{
		HttpOptions:    o.Http,
		MqttOptions:    o.Mqtt,
		RoutingOptions: o.Routing,
		Sensors:        o.Sensors,
		Entities:       o.Entities,
	}
}
