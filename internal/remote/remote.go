// Package remote pushes vessel documents to the hosted document store.
// The push is one-way and best effort: the local mirror stays
// authoritative, write failures are logged and dropped, and nothing here
// is ever read back by the synchronization loop.
package remote

import (
	"context"
	"fmt"

	"maritime-watch/internal/models"
)

// Mirror is one hosted document store holding two collections, both
// overwritten wholesale per vessel: operator profiles and vessel states.
type Mirror interface {
	PutProfile(ctx context.Context, doc models.ProfileDoc) error
	PutVesselState(ctx context.Context, doc models.VesselStateDoc) error
	Close() error
}

// Config selects and configures the hosted store driver
type Config struct {
	Driver string `mapstructure:"driver"`
	Debug  bool   `mapstructure:"debug"`
	Mysql  struct {
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Host     string `mapstructure:"host"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mysql"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		Db       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	// WritesPerSec throttles pushes to the hosted store; Burst rides out
	// short bursts of local mutations
	WritesPerSec float64 `mapstructure:"writes_per_sec"`
	Burst        int     `mapstructure:"burst"`
}

// Open returns the configured mirror. Driver "none" (or empty) disables
// remote mirroring entirely.
func Open(cfg Config) (Mirror, error) {
	switch cfg.Driver {
	case "mysql":
		return openGorm(cfg)

	case "redis":
		return openRedis(cfg)

	case "none", "":
		return noopMirror{}, nil

	default:
		return nil, fmt.Errorf("unknown remote driver %s", cfg.Driver)
	}
}

type noopMirror struct{}

func (noopMirror) PutProfile(ctx context.Context, doc models.ProfileDoc) error { return nil }
func (noopMirror) PutVesselState(ctx context.Context, doc models.VesselStateDoc) error {
	return nil
}
func (noopMirror) Close() error { return nil }
