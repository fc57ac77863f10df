package app

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/wayline-io/wayline/cmd/wayline-agent/app/options"
	"github.com/wayline-io/wayline/internal/agent/sensor"
	"github.com/wayline-io/wayline/pkg/app"
)

// newCheckCommand builds the "check" subcommand: load and validate the
// configuration, then print the resulting sensor table without starting
// anything.
func newCheckCommand() *cobra.Command {
	opts := options.NewAgentOptions()

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print the sensor table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadConfig(cmd.Flags(), commandName); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := opts.Complete(); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("NAME", "OBJECT ID", "MODE", "TRAFFIC", "UNITS", "INTERVAL", "ORIGIN", "DESTINATION")
			for i := range opts.Sensors {
				sc := &opts.Sensors[i]
				table.AddRow(sc.Name, sc.ObjectID(), sc.Mode, sc.TrafficMode,
					sc.UnitSystem, sc.ScanInterval, endpointString(sc.Origin), endpointString(sc.Destination))
			}

			fmt.Fprintln(cmd.OutOrStdout(), table)
			fmt.Fprintf(cmd.OutOrStdout(), "\nConfiguration OK: %d sensor(s)\n", len(opts.Sensors))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.SortFlags = false
	opts.AddFlags(fs)
	app.AddConfigFlag(fs, commandName)

	return cmd
}

func endpointString(e sensor.EndpointConfig) string {
	if e.EntityID != "" {
		return e.EntityID
	}
	return fmt.Sprintf("%v,%v", *e.Latitude, *e.Longitude)
}
