package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"maritime-watch/internal/models"
)

type redisMirror struct {
	rdb *redis.Client
}

func openRedis(cfg Config) (Mirror, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("missing connection info")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Db,
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return &redisMirror{rdb: rdb}, nil
}

func profileKey(vesselId string) string {
	return fmt.Sprintf("profile:%s", vesselId)
}

func vesselStateKey(vesselId string) string {
	return fmt.Sprintf("vessel:%s:state", vesselId)
}

func (m *redisMirror) PutProfile(ctx context.Context, doc models.ProfileDoc) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, profileKey(doc.VesselId), b, 0).Err()
}

func (m *redisMirror) PutVesselState(ctx context.Context, doc models.VesselStateDoc) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, vesselStateKey(doc.VesselId), b, 0).Err()
}

func (m *redisMirror) Close() error {
	return m.rdb.Close()
}
