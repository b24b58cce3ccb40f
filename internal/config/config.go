package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

type Config struct {
	IsTestMode     bool     `env:"TEST_MODE" envDefault:"false"`
	Address        string   `env:"ADDRESS" envDefault:"0.0.0.0:9090"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Secret is a server-side pepper mixed into every password before hashing.
	Secret           string `env:"SECRET,notEmpty"`
	BcryptHasherCost int    `env:"BCRYPT_HASHER_COST" envDefault:"12"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	UsersFilePath  string `env:"USERS_FILE_PATH" envDefault:"data/users.txt"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/users.db"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.StorageBackend != StorageFile && cfg.StorageBackend != StorageSQLite {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND value: %q", cfg.StorageBackend)
	}
	return cfg, nil
}
