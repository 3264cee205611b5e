package login

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/academy/internal/auth"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultSubmitGuardTTL = 10 * time.Second
	submitGuardKeyPrefix  = "academy-login-submitting||"
)

// SubmitGuard holds a form instance in Submitting, rejecting concurrent duplicates
// with auth.ErrSubmissionInProgress. The returned release func must be called when done.
type SubmitGuard interface {
	Acquire(ctx context.Context, clientID, formID string) (release func(), err error)
}

func submitGuardKey(clientID, formID string) string {
	return submitGuardKeyPrefix + clientID + "||" + formID
}

var _ SubmitGuard = (*RedisSubmitGuard)(nil)

// releaseScript deletes the guard key only if it still holds our token,
// so a late release never drops a guard taken after ours expired.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisSubmitGuard struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewRedisSubmitGuard(redisClient *redis.Client, ttl time.Duration) *RedisSubmitGuard {
	if ttl <= 0 {
		ttl = DefaultSubmitGuardTTL
	}
	return &RedisSubmitGuard{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (g *RedisSubmitGuard) Acquire(ctx context.Context, clientID, formID string) (func(), error) {
	key := submitGuardKey(clientID, formID)
	token := uuid.NewString()

	acquired, err := g.redisClient.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("submit guard setnx: %w", err)
	}
	if !acquired {
		return nil, auth.ErrSubmissionInProgress
	}

	return func() {
		// the request context may already be gone; the release must still happen
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.redisClient, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			log.Errorf("submit guard: release %s: %s", key, err)
		}
	}, nil
}

var _ SubmitGuard = (*LocalSubmitGuard)(nil)

// LocalSubmitGuard is the in-process SubmitGuard used with the memory session backend.
type LocalSubmitGuard struct {
	mutex    sync.Mutex
	ttl      time.Duration
	inFlight map[string]time.Time
	nowFunc  func() time.Time
}

func NewLocalSubmitGuard(ttl time.Duration) *LocalSubmitGuard {
	if ttl <= 0 {
		ttl = DefaultSubmitGuardTTL
	}
	return &LocalSubmitGuard{
		ttl:      ttl,
		inFlight: map[string]time.Time{},
		nowFunc:  time.Now,
	}
}

func (g *LocalSubmitGuard) Acquire(_ context.Context, clientID, formID string) (func(), error) {
	key := submitGuardKey(clientID, formID)

	g.mutex.Lock()
	defer g.mutex.Unlock()

	now := g.nowFunc()
	if expiresAt, ok := g.inFlight[key]; ok && now.Before(expiresAt) {
		return nil, auth.ErrSubmissionInProgress
	}
	expiresAt := now.Add(g.ttl)
	g.inFlight[key] = expiresAt

	return func() {
		g.mutex.Lock()
		defer g.mutex.Unlock()
		if g.inFlight[key].Equal(expiresAt) {
			delete(g.inFlight, key)
		}
	}, nil
}
