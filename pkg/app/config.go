package app

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wayline-io/wayline/pkg/log"
)

const configFlagName = "config"

// envPrefix is the prefix for environment variable overrides,
// e.g. WAYLINE_ROUTING_APP_ID maps to routing.app-id.
const envPrefix = "WAYLINE"

// AddConfigFlag registers the --config flag on the command's flag set.
func AddConfigFlag(fs *pflag.FlagSet, name string) {
	fs.StringP(configFlagName, "c", "", fmt.Sprintf(
		"Path to the %s configuration file (YAML).", name))
}

// LoadConfig wires viper to the flag set, the optional config file and the
// environment, then keeps watching the file for changes.
func LoadConfig(fs *pflag.FlagSet, name string) error {
	v := viper.GetViper()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	cfgFile, _ := fs.GetString(configFlagName)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath(fmt.Sprintf("/etc/%s", name))
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine when everything comes from flags/env,
		// but an explicitly named file must exist.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Info("Loaded configuration file", "file", v.ConfigFileUsed())

		v.OnConfigChange(func(e fsnotify.Event) {
			// Changes take effect on the next restart. We only surface them so
			// operators can tell a stale process from a fresh one.
			log.Info("Configuration file changed, restart to apply", "file", e.Name, "op", e.Op.String())
		})
		v.WatchConfig()
	}

	return nil
}

// UnmarshalOptions decodes the merged viper configuration into the given
// options struct. Call it from Options.Complete implementations.
func UnmarshalOptions(opts any) error {
	return viper.Unmarshal(opts)
}
