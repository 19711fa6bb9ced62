package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chatKey     = "board:chat:recent"
	chatMaxLen  = 200
	chatHistTTL = 24 * time.Hour
)

// ChatMessage is one relayed chat entry recorded for late readers. The
// live relay itself is stateless; this list is a convenience history.
type ChatMessage struct {
	Sender    string          `json:"sender"`
	Message   json.RawMessage `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
}

// RedisClient wraps the Redis client used for the recent-chat history.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects and pings the Redis instance.
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Printf("[Redis] Connected to %s", addr)
	return &RedisClient{client: client}, nil
}

// AddChatMessage appends a chat entry, capping the list and refreshing its
// TTL.
func (r *RedisClient) AddChatMessage(ctx context.Context, m *ChatMessage) error {
	m.Timestamp = time.Now()

	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	if err := r.client.RPush(ctx, chatKey, data).Err(); err != nil {
		log.Printf("[Redis] Failed to record chat message: %v", err)
		return err
	}

	r.client.LTrim(ctx, chatKey, -chatMaxLen, -1)
	r.client.Expire(ctx, chatKey, chatHistTTL)

	return nil
}

// RecentChatMessages returns the last count chat entries, oldest first.
func (r *RedisClient) RecentChatMessages(ctx context.Context, count int64) ([]ChatMessage, error) {
	results, err := r.client.LRange(ctx, chatKey, -count, -1).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]ChatMessage, 0, len(results))
	for _, data := range results {
		var m ChatMessage
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			continue
		}
		messages = append(messages, m)
	}

	return messages, nil
}

// ClearChatHistory drops the recorded history.
func (r *RedisClient) ClearChatHistory(ctx context.Context) error {
	return r.client.Del(ctx, chatKey).Err()
}

// Health checks if Redis is reachable.
func (r *RedisClient) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisClient) Close() error {
	return r.client.Close()
}
