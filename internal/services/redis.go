package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// ChangeChannel is the pub/sub channel carrying booking change events.
const ChangeChannel = "campuspool:changes"

// InitRedis initializes the Redis client
func InitRedis(redisURL string) error {
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// PublishChange publishes a committed mutation to pub/sub and keeps the
// latest state per entity for cheap polling.
func PublishChange(ctx context.Context, entityType string, entityID uint, state string) error {
	payload := map[string]interface{}{
		"entity":    entityType,
		"id":        entityID,
		"state":     state,
		"timestamp": time.Now().Unix(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("campuspool:%s:%d:state", entityType, entityID)
	if err := RedisClient.Set(ctx, key, state, time.Hour).Err(); err != nil {
		return err
	}

	return RedisClient.Publish(ctx, ChangeChannel, data).Err()
}

// GetLastState returns the last published state of an entity.
func GetLastState(ctx context.Context, entityType string, entityID uint) (string, error) {
	key := fmt.Sprintf("campuspool:%s:%d:state", entityType, entityID)
	return RedisClient.Get(ctx, key).Result()
}
