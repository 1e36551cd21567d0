package rank

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultKey is the sorted set holding the leaderboard.
const DefaultKey = "archers:honor"

// RedisStore keeps the leaderboard in a Redis sorted set, member = username,
// score = packed result.
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ Store = (*RedisStore)(nil)

// RedisOptions locates the Redis server.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return NewRedisStoreWithClient(client, opts.Key), nil
}

// NewRedisStoreWithClient wraps an existing client. An empty key uses DefaultKey.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

// Record only ever raises the stored score; GT makes the compare and write a
// single command, so concurrent servers cannot lower it.
func (r *RedisStore) Record(ctx context.Context, username string, lvl int, won bool) error {
	err := r.client.ZAddArgs(ctx, r.key, redis.ZAddArgs{
		GT:      true,
		Members: []redis.Z{{Score: score(lvl, won), Member: username}},
	}).Err()
	if err != nil {
		return fmt.Errorf("record score of %q: %w", username, err)
	}
	return nil
}

// Top reads the best n members. Redis orders equal scores by reverse member
// name, so every member tied with the last one is fetched too and the cut is
// made after sorting by username.
func (r *RedisStore) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	members, err := r.client.ZRevRangeWithScores(ctx, r.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	var tied []redis.Z
	if len(members) == n {
		edge := strconv.FormatFloat(members[n-1].Score, 'f', -1, 64)
		tied, err = r.client.ZRangeByScoreWithScores(ctx, r.key, &redis.ZRangeBy{Min: edge, Max: edge}).Result()
		if err != nil {
			return nil, fmt.Errorf("read leaderboard ties: %w", err)
		}
	}
	return cutTop(members, tied, n), nil
}

// cutTop merges the members above the boundary score with every member tied
// at it, sorts them and keeps n.
func cutTop(members, tied []redis.Z, n int) []Entry {
	entries := make([]Entry, 0, len(members)+len(tied))
	add := func(m redis.Z) {
		name, ok := m.Member.(string)
		if !ok {
			return
		}
		lvl, won := unscore(m.Score)
		entries = append(entries, Entry{Username: name, Level: lvl, Won: won})
	}

	if len(tied) == 0 {
		for _, m := range members {
			add(m)
		}
	} else {
		edge := members[len(members)-1].Score
		for _, m := range members {
			if m.Score > edge {
				add(m)
			}
		}
		for _, m := range tied {
			add(m)
		}
	}

	sortEntries(entries)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
