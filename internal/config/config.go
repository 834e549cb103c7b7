package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type StoreConfig struct {
	// Driver selects the snapshot backend: "file" or "postgres".
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type SchedulerConfig struct {
	// Times of day the check pass fires, "HH:MM".
	Times      []string `mapstructure:"times"`
	Timezone   string   `mapstructure:"timezone"`
	Thresholds []int    `mapstructure:"thresholds"`
	DailyCap   int      `mapstructure:"daily_cap"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("RPTRACKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about. Keys without
	// a default must be bound explicitly or an env-only setup never sees them.
	for _, key := range []string{"jwt.secret", "store.dsn", "scheduler.timezone"} {
		viper.MustBindEnv(key)
	}

	viper.SetDefault("server.port", 5000)
	viper.SetDefault("store.driver", "file")
	viper.SetDefault("store.path", "database.json")
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("scheduler.times", []string{"09:00", "12:00", "17:00"})
	viper.SetDefault("scheduler.thresholds", []int{30, 15})
	viper.SetDefault("scheduler.daily_cap", 3)
	viper.SetDefault("rate_limit.rps", 20)
	viper.SetDefault("rate_limit.burst", 40)

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional; defaults plus env cover a bare setup.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required (set RPTRACKER_JWT_SECRET)")
	}
	return &config, nil
}
