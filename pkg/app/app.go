package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wayline-io/wayline/pkg/log"
)

// RunFunc is the application's startup callback.
type RunFunc func() error

// Options abstracts a command's configurable option groups.
type Options interface {
	// AddFlags binds the option fields to the command's flag set.
	AddFlags(fs *pflag.FlagSet)

	// Complete fills in defaults that depend on other options.
	Complete() error

	// Validate checks all option values together.
	Validate() error
}

// App encapsulates a cobra command with unified flag, config file and
// logging setup.
type App struct {
	name        string
	short       string
	description string
	options     Options
	runFunc     RunFunc
	subcommands []*cobra.Command

	cmd *cobra.Command
}

// Option configures an App during construction.
type Option func(*App)

// WithDescription sets the long description shown in help output.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithOptions attaches the command's option groups.
func WithOptions(opts Options) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc sets the application startup callback.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithSubcommand registers an additional cobra subcommand.
func WithSubcommand(cmd *cobra.Command) Option {
	return func(a *App) {
		a.subcommands = append(a.subcommands, cmd)
	}
}

// NewApp builds an App from the given name, short description and options.
func NewApp(name string, short string, opts ...Option) *App {
	a := &App{
		name:  name,
		short: short,
	}

	for _, o := range opts {
		o(a)
	}

	a.buildCommand()
	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.short,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd)
		},
	}

	fs := cmd.Flags()
	fs.SortFlags = false

	if a.options != nil {
		a.options.AddFlags(fs)
	}

	AddConfigFlag(fs, a.name)

	for _, sub := range a.subcommands {
		cmd.AddCommand(sub)
	}

	a.cmd = cmd
}

// Command returns the underlying cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// Run executes the application. Errors are printed and returned for the
// caller to convert into a process exit code.
func (a *App) Run() error {
	if err := a.cmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return err
	}
	return nil
}

func (a *App) run(cmd *cobra.Command) error {
	if err := LoadConfig(cmd.Flags(), a.name); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if a.options != nil {
		if err := a.options.Complete(); err != nil {
			return err
		}
		if err := a.options.Validate(); err != nil {
			return err
		}
	}

	log.Info("Starting application", "name", a.name)

	if a.runFunc != nil {
		return a.runFunc()
	}

	return nil
}
