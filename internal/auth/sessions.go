package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/packscheduler/internal/cachemanager"
	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/log"
)

// DefaultSessionTTL is how long an idle login session stays valid.
const DefaultSessionTTL = 30 * time.Minute

// ErrSessionExpired is returned when a token no longer names a live session.
var ErrSessionExpired = errors.New("session expired")

// Token identifies a login session.
type Token string

// Session is the state kept for a logged-in user.
type Session struct {
	Token    Token
	UserID   string
	Role     domain.Role
	IssuedAt time.Time
}

// Sessions stores login sessions in a TTL cache. Each lookup extends the
// session's lifetime.
type Sessions struct {
	cache cachemanager.CacheManager[Token, Session]
	ttl   time.Duration
	now   func() time.Time
}

// NewSessions returns a session store backed by cache. A non-positive ttl
// uses DefaultSessionTTL.
func NewSessions(cache cachemanager.CacheManager[Token, Session], ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{cache: cache, ttl: ttl, now: time.Now}
}

// NewInMemorySessions returns a session store on an in-memory go-cache.
func NewInMemorySessions(ttl time.Duration) *Sessions {
	cache := cachemanager.NewInMemoryCacheManager[Token, Session]("sessions", ttl, cachemanager.DefaultCleanupInterval)
	return NewSessions(cache, ttl)
}

// Open starts a session for acct and returns its token.
func (s *Sessions) Open(ctx context.Context, acct domain.Account) Token {
	token := Token(uuid.NewString())
	s.cache.Set(ctx, token, Session{
		Token:    token,
		UserID:   acct.ID(),
		Role:     acct.Role(),
		IssuedAt: s.now(),
	}, s.ttl)
	log.Info(log.CatAuth, "Session opened", "user", acct.ID(), "role", acct.Role())
	return token
}

// Lookup returns the live session for token and extends it.
func (s *Sessions) Lookup(ctx context.Context, token Token) (Session, error) {
	if token == "" {
		return Session{}, ErrSessionExpired
	}
	session, ok := s.cache.GetWithRefresh(ctx, token, s.ttl)
	if !ok {
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

// Close ends the session for token. Closing an unknown token is a no-op.
func (s *Sessions) Close(ctx context.Context, token Token) error {
	if token == "" {
		return nil
	}
	log.Debug(log.CatAuth, "Session closed", "token", token)
	return s.cache.Delete(ctx, token)
}

// CloseAll ends every session.
func (s *Sessions) CloseAll(ctx context.Context) error {
	return s.cache.Flush(ctx)
}
