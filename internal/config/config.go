// Package config loads server configuration from defaults, an optional JSON
// config file, and environment variables.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// ConfigFileName is the optional JSON config file looked up in the config dir.
const ConfigFileName = "campaign_api.cfg.json"

// Load reads configuration and sets default values. configDir is the
// directory searched for the config file; a missing file is not an error,
// the defaults and environment apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("server.addr", ":8080")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.poolSize", 10)

	viper.SetDefault("sqlite.path", "./campaign.db")

	viper.SetConfigName(ConfigFileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	viper.SetEnvPrefix("campaign")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
