package credstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each slot under its own key and writes both in one
// MULTI/EXEC transaction.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisBackend uses prefix to namespace keys (ex: "linkveo:").
func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

// SlotKey returns the Redis key for a credential slot.
func (b *RedisBackend) SlotKey(slot string) string {
	return b.prefix + "credentials:" + slot
}

func (b *RedisBackend) Read(ctx context.Context) (Slots, error) {
	vals, err := b.client.MGet(ctx, b.SlotKey(SlotToken), b.SlotKey(SlotUser)).Result()
	if err != nil {
		return Slots{}, fmt.Errorf("failed to get credentials: %w", err)
	}
	return Slots{Token: asString(vals, 0), User: asString(vals, 1)}, nil
}

func (b *RedisBackend) Write(ctx context.Context, slots Slots) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, b.SlotKey(SlotToken), slots.Token, 0)
		pipe.Set(ctx, b.SlotKey(SlotUser), slots.User, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

func (b *RedisBackend) Clear(ctx context.Context) error {
	if err := b.client.Del(ctx, b.SlotKey(SlotToken), b.SlotKey(SlotUser)).Err(); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// asString reads an MGET result slot; missing keys come back as nil.
func asString(vals []interface{}, i int) string {
	if i >= len(vals) {
		return ""
	}
	s, _ := vals[i].(string)
	return s
}
