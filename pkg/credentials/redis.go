// pkg/credentials/redis.go
package credentials

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "raindoor:credential:"

type redisStore struct {
	cli *redis.Client
}

// NewRedisStore constructs a redis-backed credential store. Entries do not
// expire; Shopify access tokens stay valid until uninstall.
func NewRedisStore(cli *redis.Client) Store {
	return &redisStore{cli: cli}
}

func (r *redisStore) Get(ctx context.Context, shop string) (Credential, error) {
	b, err := r.cli.Get(ctx, redisKeyPrefix+shop).Bytes()
	if errors.Is(err, redis.Nil) {
		return Credential{}, ErrNotFound
	}
	if err != nil {
		return Credential{}, err
	}
	var c Credential
	if err := json.Unmarshal(b, &c); err != nil {
		return Credential{}, err
	}
	return c, nil
}

func (r *redisStore) Put(ctx context.Context, cred Credential) error {
	b, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return r.cli.Set(ctx, redisKeyPrefix+cred.Shop, b, 0).Err()
}

func (r *redisStore) Delete(ctx context.Context, shop string) error {
	return r.cli.Del(ctx, redisKeyPrefix+shop).Err()
}
