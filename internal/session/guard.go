package session

import (
	"fmt"

	"github.com/desertthunder/catalogctl/internal/shared"
)

// Guard gates protected operations on the session store. It is a per-call
// predicate, not a state machine: each check revalidates the stored
// credential through CheckAuth.
type Guard struct {
	store *Store
}

// NewGuard creates a Guard over the given session store.
func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Allow reports whether a protected view may render.
func (g *Guard) Allow() bool {
	return g.store.CheckAuth()
}

// Check is the command-line form of Allow: it returns a login hint instead of
// a bare false so CLI actions can surface it directly.
func (g *Guard) Check() error {
	if !g.store.CheckAuth() {
		return fmt.Errorf("%w: run 'catalogctl auth login'", shared.ErrNotAuthenticated)
	}
	return nil
}
