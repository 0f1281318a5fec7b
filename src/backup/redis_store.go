package backup

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisStore keeps the snapshot on a network-addressable Redis server.
// The key embeds the service address of this controller so that several
// controllers can share one server.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *logrus.Entry
}

// NewRedisStore connects to the Redis server at addr. A connection
// failure is returned to the caller, who treats it as non-fatal.
func NewRedisStore(addr string, serviceAddr string, logger *logrus.Entry) (*RedisStore, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("backup: cannot connect to %s: %v", addr, err)
	}

	// Ask the server to snapshot to disk at least once a minute when the
	// universe has changed. Best effort; some deployments lock CONFIG.
	if err := client.ConfigSet(ctx, "save", "60 1").Err(); err != nil {
		logger.WithError(err).Error("Unable to set Redis snapshot settings")
	}

	return &RedisStore{
		client: client,
		key:    fmt.Sprintf("vulcan:%s:universe", serviceAddr),
		logger: logger,
	}, nil
}

// SetSnapshot implements the SnapshotStore interface.
func (r *RedisStore) SetSnapshot(data []byte) error {
	return r.client.Set(context.Background(), r.key, data, 0).Err()
}

// GetSnapshot implements the SnapshotStore interface.
func (r *RedisStore) GetSnapshot() ([]byte, error) {
	data, err := r.client.Get(context.Background(), r.key).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DeleteSnapshot implements the SnapshotStore interface.
func (r *RedisStore) DeleteSnapshot() error {
	return r.client.Del(context.Background(), r.key).Err()
}

// Close implements the SnapshotStore interface.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
