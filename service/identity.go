package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/YasaminRahnavard/chatFlow/model"
	"github.com/YasaminRahnavard/chatFlow/platform"
	"github.com/gin-gonic/gin"
	uuid "github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionCookie carries the server-side session key; the guest id itself
	// never travels in a request parameter.
	SessionCookie = "chatflow_session"

	sessionTTL       = 30 * 24 * time.Hour
	sessionKeyPrefix = "session:"
)

// SessionStore holds per-session guest ids keyed by session key.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, guestID string) error
}

type redisSessionStore struct {
	client *redis.Client
}

func (s *redisSessionStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *redisSessionStore) Set(ctx context.Context, key, guestID string) error {
	return s.client.Set(ctx, sessionKeyPrefix+key, guestID, sessionTTL).Err()
}

// MemorySessionStore keeps sessions in process. It backs deployments without
// Redis and the test suite.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]string)}
}

func (s *MemorySessionStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[key], nil
}

func (s *MemorySessionStore) Set(ctx context.Context, key, guestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = guestID
	return nil
}

// IdentityService resolves a request to its owner: the authenticated user
// when a valid access token is present, a session-stable guest otherwise.
type IdentityService struct {
	Sessions SessionStore
	tokens   TokenService
}

func NewIdentityService(sessions SessionStore) *IdentityService {
	if sessions == nil {
		if platform.Redis != nil {
			sessions = &redisSessionStore{client: platform.Redis}
		} else {
			sessions = NewMemorySessionStore()
		}
	}
	return &IdentityService{Sessions: sessions}
}

// Resolve never fails; absent or invalid authentication falls back to a
// guest identity created on first use.
func (s *IdentityService) Resolve(c *gin.Context) model.Owner {
	if details, err := s.tokens.ExtractTokenMetadata(c.Request); err == nil {
		return model.UserOwner(uint(details.UserID))
	}

	key, err := c.Cookie(SessionCookie)
	if err != nil || key == "" {
		key = uuid.NewString()
		c.SetCookie(SessionCookie, key, int(sessionTTL.Seconds()), "/", "", false, true)
	}

	guestID, err := s.Sessions.Get(c.Request.Context(), key)
	if err != nil {
		logger.Warnf("[%s] session store read error, %s", c.GetString("requestId"), err)
	}
	if guestID == "" {
		guestID = uuid.NewString()
		if err := s.Sessions.Set(c.Request.Context(), key, guestID); err != nil {
			logger.Warnf("[%s] session store write error, %s", c.GetString("requestId"), err)
		}
	}
	return model.GuestOwner(guestID)
}
