package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultAdminPassword is the password seeded when nothing else is configured.
const DefaultAdminPassword = "123456"

// Config holds all application configurations.
type Config struct {
	Server struct {
		Port            string `mapstructure:"port"`
		ShutdownTimeout int    `mapstructure:"shutdown_timeout_seconds"`
	} `mapstructure:"server"`
	Database struct {
		Driver   string `mapstructure:"driver"`
		Path     string `mapstructure:"path"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		LogSQL   bool   `mapstructure:"log_sql"`
	} `mapstructure:"database"`
	Admin struct {
		Password     string `mapstructure:"password"`
		PasswordHash string `mapstructure:"password_hash"`
	} `mapstructure:"admin"`
	Ledger struct {
		DecrementStock bool `mapstructure:"decrement_stock"`
	} `mapstructure:"ledger"`
	Pagination struct {
		DefaultLimit int `mapstructure:"default_limit"`
		MaxLimit     int `mapstructure:"max_limit"`
	} `mapstructure:"pagination"`
	Kafka struct {
		Enabled bool     `mapstructure:"enabled"`
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Log struct {
		Level  string `mapstructure:"level"`
		Output string `mapstructure:"output"`
	} `mapstructure:"log"`
}

// UsesDefaultAdminPassword reports whether the admin gate falls back to the
// built-in password.
func (c *Config) UsesDefaultAdminPassword() bool {
	return c.Admin.PasswordHash == "" && c.Admin.Password == DefaultAdminPassword
}

// LoadConfig reads configuration from config.yml in the given directories
// (./config when none are given). Environment variables prefixed with LEDGER_
// override file values, e.g. LEDGER_ADMIN_PASSWORD or LEDGER_KAFKA_ENABLED.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ledger")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults and environment are used.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":3000")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/ledger.sqlite")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "ledger_db")
	v.SetDefault("database.log_sql", false)
	v.SetDefault("admin.password", DefaultAdminPassword)
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("ledger.decrement_stock", false)
	v.SetDefault("pagination.default_limit", 10)
	v.SetDefault("pagination.max_limit", 100)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.topic", "ledger-events")
	v.SetDefault("kafka.group_id", "ledger-tail")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "json")
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Pagination.DefaultLimit <= 0 {
		return fmt.Errorf("pagination.default_limit must be positive, got %d", c.Pagination.DefaultLimit)
	}
	if c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return fmt.Errorf("pagination.max_limit (%d) is below default_limit (%d)", c.Pagination.MaxLimit, c.Pagination.DefaultLimit)
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.New("kafka is enabled but brokers or topic are missing")
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return errors.New("admin.password or admin.password_hash must be set")
	}
	return nil
}
