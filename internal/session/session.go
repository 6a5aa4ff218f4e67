package session

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/models"
)

// Authenticator performs the network half of login and registration.
// Implemented by catalog.AuthService.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
}

// State is a point-in-time copy of the session.
type State struct {
	User            *models.AuthResponse
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

// Store is the process-wide session authority. All writes to session state
// and to the durable token store flow through its methods.
type Store struct {
	mu     sync.Mutex
	auth   Authenticator
	tokens *FileStore
	logger *log.Logger

	user          *models.AuthResponse
	authenticated bool
	loading       bool
	lastErr       string
}

// New creates a Store over the given authenticator and token store. The
// initial authenticated flag mirrors whether a usable credential is already
// on disk; CheckAuth validates it.
func New(auth Authenticator, tokens *FileStore, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	_, ok := tokens.AccessToken()
	return &Store{
		auth:          auth,
		tokens:        tokens,
		logger:        logger,
		authenticated: ok,
	}
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		User:            s.user,
		IsAuthenticated: s.authenticated,
		IsLoading:       s.loading,
		Err:             s.lastErr,
	}
}

// Login authenticates against the backend and, on success, performs the one
// durable credential write and marks the session authenticated. On failure
// the session stays logged out and the backend's message (or a generic one)
// is recorded as the session error.
func (s *Store) Login(ctx context.Context, req models.LoginRequest) error {
	s.setLoading()

	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		s.fail(errorMessage(err, "an error occurred during login"))
		return err
	}

	return s.establish(resp)
}

// Register creates an operator account. Identical contract to Login, against
// the registration endpoint.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) error {
	s.setLoading()

	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		s.fail(errorMessage(err, "an error occurred during registration"))
		return err
	}

	return s.establish(resp)
}

// Logout removes the durable credential and clears the in-memory session.
// Idempotent: safe to call when already logged out.
func (s *Store) Logout() {
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("failed to remove stored credential", "err", err)
	}

	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()
}

// ClearError resets the session error. No other state changes.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

// CheckAuth validates the stored credential without a network call: absent or
// expired (including undecodable) tokens force a logout. Invoked once at
// process start; it is the sole mechanism for restoring a session.
func (s *Store) CheckAuth() bool {
	token, ok := s.tokens.AccessToken()
	if !ok || TokenExpired(token) {
		s.logger.Debug("stored token absent or expired")
		s.Logout()
		return false
	}

	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
	return true
}

func (s *Store) setLoading() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.loading = false
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *Store) establish(resp *models.AuthResponse) error {
	if err := s.tokens.Write(resp.AccessToken, resp.RefreshToken); err != nil {
		s.fail("failed to store credential")
		return err
	}

	s.mu.Lock()
	s.user = resp
	s.authenticated = true
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("session established", "username", resp.Username)
	return nil
}

// errorMessage surfaces the backend envelope message when present, falling
// back to a generic message for transport errors.
func errorMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
