package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RunLockRepository struct {
	client *redis.Client
}

func NewRunLockRepository(client *redis.Client) *RunLockRepository {
	return &RunLockRepository{
		client: client,
	}
}

// Acquire takes the lock at key for ttl. ok is false when another holder owns it.
func (r *RunLockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error) {
	token := uuid.NewString()

	ok, err = r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		// on failure the ttl still frees the key
		_ = releaseScript.Run(ctx, r.client, []string{key}, token).Err()
	}

	return release, true, nil
}
