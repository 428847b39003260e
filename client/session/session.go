// Package session owns the authenticated identity and its address book. It
// is the sole source of truth for "is a user logged in" and "what role do
// they hold"; every other store only reads its snapshot.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"gomall/client/gateway"
	"gomall/internal/models"
	"gomall/internal/security"
)

// Snapshot is the read view of the session. Token is non-empty exactly when
// IsLoggedIn is true.
type Snapshot struct {
	IsLoggedIn bool
	UserID     string
	UserName   string
	Role       models.UserRole
	Token      string
}

type Store struct {
	gw    *gateway.Client
	cache *TokenCache
	log   zerolog.Logger

	// mu guards the fields below; the apply* mutation methods are their
	// only writers.
	mu             sync.Mutex
	state          Snapshot
	addresses      []models.Address
	defaultAddress *models.Address
	addressLoading bool
}

func New(gw *gateway.Client, cache *TokenCache, log zerolog.Logger) *Store {
	return &Store{
		gw:    gw,
		cache: cache,
		log:   log,
	}
}

// Token implements gateway.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

type loginPayload struct {
	Token    string          `json:"token"`
	UserID   string          `json:"userId"`
	UserName string          `json:"userName"`
	Role     models.UserRole `json:"role"`
}

func (s *Store) Login(ctx context.Context, username string, password string) gateway.Result {
	env, err := s.gw.Post(ctx, "/user/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("login request failed")
		return gateway.Fail("login failed, please try again later")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var payload loginPayload
	if err := gateway.Decode(env.Data, &payload); err != nil {
		s.log.Error().Err(err).Msg("login payload malformed")
		return gateway.Fail("login failed, please try again later")
	}

	s.applyLogin(payload)
	return gateway.OK()
}

// Register creates the account and, on success, immediately logs in with the
// same credentials so the caller never ends up half-authenticated.
func (s *Store) Register(ctx context.Context, username string, password string, email string) gateway.Result {
	env, err := s.gw.Post(ctx, "/user/register", map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("register request failed")
		return gateway.Fail("registration failed, please try again later")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	return s.Login(ctx, username, password)
}

// Logout is purely local: it clears the session, the address cache, and the
// persisted token. No network call is needed for it to succeed.
func (s *Store) Logout() {
	s.applyLogout()
}

// CheckSession restores identity from the persisted token. The token's own
// claims carry the identity fields, so no round trip is needed; the server
// still rejects a forged or revoked token on the next real call.
func (s *Store) CheckSession() bool {
	token := s.cache.Load()
	if token == "" {
		return false
	}

	claims, err := security.ParseSessionClaimsUnverified(token)
	if err != nil {
		s.log.Warn().Err(err).Msg("cached token unreadable, discarding")
		_ = s.cache.Clear()
		return false
	}

	s.applyLogin(loginPayload{
		Token:    token,
		UserID:   claims.UserID,
		UserName: claims.Username,
		Role:     models.UserRole(claims.Role),
	})
	return true
}

func (s *Store) applyLogin(payload loginPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Snapshot{
		IsLoggedIn: true,
		UserID:     payload.UserID,
		UserName:   payload.UserName,
		Role:       payload.Role,
		Token:      payload.Token,
	}
	if err := s.cache.Save(payload.Token); err != nil {
		s.log.Warn().Err(err).Msg("token cache write failed")
	}
}

func (s *Store) applyLogout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Snapshot{}
	s.addresses = nil
	s.defaultAddress = nil
	if err := s.cache.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("token cache clear failed")
	}
}
