package prefs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

const DefaultKeyTemplate = "prefs:{user}"

// RedisStore keeps user preferences in one redis hash per user, keyed by
// preference name.
type RedisStore struct {
	redis       *redis.Client
	keyTemplate string
}

func NewRedisStore(client *redis.Client, keyTemplate string) *RedisStore {
	if keyTemplate == "" {
		keyTemplate = DefaultKeyTemplate
	}
	return &RedisStore{redis: client, keyTemplate: keyTemplate}
}

// Connect parses the URL and pings the server before handing out a store.
func Connect(ctx context.Context, redisURL, keyTemplate string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStore(client, keyTemplate), nil
}

func (s *RedisStore) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}

func (s *RedisStore) key(userID int64) string {
	return strings.NewReplacer("{user}", strconv.FormatInt(userID, 10)).Replace(s.keyTemplate)
}

func (s *RedisStore) GetUserPreference(ctx context.Context, userID int64, name string) (string, bool, error) {
	key := s.key(userID)
	value, err := s.redis.HGet(ctx, key, name).Result()
	if err == redis.Nil {
		logger.Debug.Printf("Preference %s not found in %s", name, key)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", name, err)
	}
	return value, true, nil
}

func (s *RedisStore) SetUserPreference(ctx context.Context, userID int64, name, value string) error {
	if err := s.redis.HSet(ctx, s.key(userID), name, value).Err(); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", name, err)
	}
	return nil
}
