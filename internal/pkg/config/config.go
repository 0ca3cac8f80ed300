package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env                string `env:"STOREFRONT_ENV,       default=development"`
	MaxInvalidAttempts int    `env:"MAX_INVALID_ATTEMPTS, default=3"`

	Log  LogConfig
	Data DataConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,  default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=true"`
	File   string `env:"LOG_FILE"`
}

type DataConfig struct {
	Dir              string `env:"DATA_DIR,          default=."`
	UsersFile        string `env:"USERS_FILE,        default=users.txt"`
	ProductsFile     string `env:"PRODUCTS_FILE,     default=products.txt"`
	TransactionsFile string `env:"TRANSACTIONS_FILE, default=transactions.txt"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith resolves the configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if cfg.MaxInvalidAttempts <= 0 {
		return nil, fmt.Errorf("MAX_INVALID_ATTEMPTS must be positive, got %d", cfg.MaxInvalidAttempts)
	}
	return &cfg, nil
}
