package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"      validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"    validate:"required"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Progression ProgressionConfig `mapstructure:"progression" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// DatabaseConfig selects and configures the persistence backend.
// The memory driver keeps everything in process and needs no URL.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL    string `mapstructure:"url"    validate:"required_if=Driver postgres,omitempty,url"`
}

// RedisConfig configures the optional catalog cache.
type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Addr       string        `mapstructure:"addr"        validate:"required_if=Enabled true,omitempty,hostname_port"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"          validate:"gte=0,lte=15"`
	CatalogTTL time.Duration `mapstructure:"catalog_ttl" validate:"gte=0"`
}

// ProgressionConfig holds the tunable parts of the XP economy.
type ProgressionConfig struct {
	// PostXPReward is the XP awarded for each content post.
	PostXPReward int `mapstructure:"post_xp_reward" validate:"gte=0"`
}
