package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "academy-session||"

var _ TxStorage = (*RedisStorage)(nil)

// RedisStorage keeps one hash per client, one field per slot.
type RedisStorage struct {
	redisClient *redis.Client
}

func NewRedisStorage(redisClient *redis.Client) *RedisStorage {
	return &RedisStorage{
		redisClient: redisClient,
	}
}

func sessionKey(clientID string) string {
	return sessionKeyPrefix + clientID
}

func (s *RedisStorage) Get(ctx context.Context, clientID, slot string) ([]byte, error) {
	value, err := s.redisClient.HGet(ctx, sessionKey(clientID), slot).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("hget %s: %w", slot, err)
	}
	return value, nil
}

func (s *RedisStorage) Set(ctx context.Context, clientID, slot string, value []byte) error {
	if err := s.redisClient.HSet(ctx, sessionKey(clientID), slot, value).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", slot, err)
	}
	return nil
}

func (s *RedisStorage) Remove(ctx context.Context, clientID, slot string) error {
	if err := s.redisClient.HDel(ctx, sessionKey(clientID), slot).Err(); err != nil {
		return fmt.Errorf("hdel %s: %w", slot, err)
	}
	return nil
}

// SetAndRemove runs both writes in one MULTI/EXEC, so readers see either the old or the new pair.
func (s *RedisStorage) SetAndRemove(ctx context.Context, clientID, setSlot string, value []byte, removeSlot string) error {
	key := sessionKey(clientID)
	_, err := s.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, setSlot, value)
		pipe.HDel(ctx, key, removeSlot)
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx set %s, remove %s: %w", setSlot, removeSlot, err)
	}
	return nil
}
