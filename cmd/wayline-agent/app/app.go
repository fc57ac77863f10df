package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/wayline-io/wayline/cmd/wayline-agent/app/options"
	"github.com/wayline-io/wayline/pkg/app"
)

const (
	commandName = "wayline-agent"
	commandDesc = `The Wayline agent periodically computes travel times between two
locations through an external routing provider and exposes them as
sensors, over a small HTTP API and optionally over MQTT.

Locations are fixed coordinates or references to tracked entities,
so a sensor can follow a phone or a vehicle as it moves.`
)

// NewApp assembles the wayline-agent command.
func NewApp() *app.App {
	opts := options.NewAgentOptions()
	return app.NewApp(
		commandName,
		"Launch the Wayline travel-time agent",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
		app.WithSubcommand(newCheckCommand()),
	)
}

func run(opts *options.AgentOptions) app.RunFunc {
	return func() error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ag, err := opts.Config().NewAgent()
		if err != nil {
			return fmt.Errorf("failed to create agent: %w", err)
		}

		return ag.Run(ctx)
	}
}
