package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores content as two fields of one hash.
type Redis struct {
	ns  string
	rdb *redis.Client
}

// OpenRedis connects lazily to the server at url (redis://host:port/db).
func OpenRedis(url, namespace string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("store: redis: %w", err)
	}
	return &Redis{ns: namespace, rdb: redis.NewClient(opt)}, nil
}

func (r *Redis) Available(ctx context.Context) bool {
	return r.rdb.Ping(ctx).Err() == nil
}

func (r *Redis) Load(ctx context.Context) (Content, bool, error) {
	vals, err := r.rdb.HGetAll(ctx, r.ns).Result()
	if err != nil {
		return Content{}, false, fmt.Errorf("store: redis: load: %w", err)
	}
	if len(vals) == 0 {
		return Content{}, false, nil
	}
	return Content{Title: vals[KeyTitle], Body: vals[KeyBody]}, true, nil
}

func (r *Redis) Save(ctx context.Context, c Content) error {
	if err := r.rdb.HSet(ctx, r.ns, KeyTitle, c.Title, KeyBody, c.Body).Err(); err != nil {
		return fmt.Errorf("store: redis: save: %w", err)
	}
	return nil
}

func (r *Redis) Close() error { return r.rdb.Close() }
