package config

import "fmt"

const (
	StoreTypePostgres = "postgres"
	StoreTypeMemory   = "memory"
)

// StoreConfig selects the product store backend. The in-memory backend
// exists for local runs without a database; postgres is the default.
type StoreConfig struct {
	Type       string `koanf:"type"`
	Migrations struct {
		Auto bool   `koanf:"auto"`
		Path string `koanf:"path"`
	} `koanf:"migrations"`
}

func (c *StoreConfig) Validate() error {
	switch c.Type {
	case StoreTypePostgres, StoreTypeMemory:
	default:
		return fmt.Errorf("invalid store type: %q", c.Type)
	}
	if c.Type == StoreTypePostgres && c.Migrations.Auto && c.Migrations.Path == "" {
		return fmt.Errorf("store migrations enabled but path is not configured")
	}
	return nil
}
