package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/redis/go-redis/v9"
)

// Redis provides caching of resolved authors in Redis.
type Redis struct {
	cli *redis.Client
	ttl time.Duration
}

var _ engagement.AuthorCache = (*Redis)(nil)

// Connect connects to the Redis server and pings the server to ensure the
// connection is working. Cached authors expire after ttl.
func Connect(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	cli := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{
		cli: cli,
		ttl: ttl,
	}, nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.cli.Close()
}

// Ping checks that the server answers.
func (r *Redis) Ping(ctx context.Context) error {
	return r.cli.Ping(ctx).Err()
}

const authorPrefix = "authors"

func authorKey(ref engagement.ActorRef) string {
	return fmt.Sprintf("%s:%s:%s", authorPrefix, ref.Kind, ref.ID)
}

// GetAuthor returns the cached author for ref. The boolean is false on a
// cache miss.
func (r *Redis) GetAuthor(ctx context.Context, ref engagement.ActorRef) (engagement.Author, bool, error) {
	cmd := r.cli.HGetAll(ctx, authorKey(ref))
	vals, err := cmd.Result()
	if err != nil {
		return engagement.Author{}, false, fmt.Errorf("hgetall: %w", err)
	}
	if len(vals) == 0 {
		return engagement.Author{}, false, nil
	}

	var a author
	if err := cmd.Scan(&a); err != nil {
		return engagement.Author{}, false, fmt.Errorf("scan: %w", err)
	}
	return a.Author(), true, nil
}

// SetAuthor stores the author under authors:KIND:ID and sets its expiry in the
// same transaction.
func (r *Redis) SetAuthor(ctx context.Context, ref engagement.ActorRef, a engagement.Author) error {
	key := authorKey(ref)
	_, err := r.cli.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, newAuthor(a))
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set author: %w", err)
	}
	return nil
}
