package rank

import (
	"context"

	"github.com/tomz197/archers/internal/config"
)

// Open builds the store the settings select.
func Open(ctx context.Context, s config.LeaderboardSettings) (Store, error) {
	if s.Backend != config.BackendRedis {
		return NewMemoryStore(), nil
	}
	return NewRedisStore(ctx, RedisOptions{
		Addr:     s.Addr,
		Password: s.Password,
		DB:       s.DB,
		Key:      s.Key,
	})
}
