package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from an optional YAML file and the
// environment. Environment variables use the LIBRARY_ prefix with dots
// replaced by underscores (e.g. LIBRARY_SERVER_PORT).
func LoadConfig() (*Config, error) {
	setDefaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("LIBRARY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing file is fine, the environment alone may configure everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.read_timeout", "15s")
	// The /events stream holds its response open indefinitely, so the
	// server-wide write timeout stays disabled unless overridden.
	viper.SetDefault("server.write_timeout", "0s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.access_token_ttl", "1h")
	viper.SetDefault("mfa.issuer", "EventApp")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("cors.allowed_origin", "*")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.environment", "development")
}
