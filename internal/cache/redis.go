// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup;
// while it is nil the action journal is disabled and publishes are no-ops.
var Rdb *redis.Client

// DefaultQueueName is the Redis list (queue) name for room action records.
var DefaultQueueName = "uno_actions"

// RoomActionRecord holds the minimal info the historian needs to persist a
// single accepted room action.
type RoomActionRecord struct {
	RoomCode      string                 `json:"room_code"`
	ActionIndex   int                    `json:"action_index"`
	ActorID       uuid.UUID              `json:"actor_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
//
// On ping failure Rdb stays nil so the journal simply stays off.
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	Rdb = client
	return nil
}

// PublishRoomAction serializes the record to JSON and pushes it onto the
// journal queue. A quick network send at most; callers never block game
// logic on it.
func PublishRoomAction(ctx context.Context, record RoomActionRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal RoomActionRecord: %w", err)
	}

	queueName := getEnv("JOURNAL_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
