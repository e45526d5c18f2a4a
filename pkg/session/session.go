// Package session holds the process-wide authentication state: the session
// token and the display name of the signed-in user.
//
// A State is loaded once from a kvstore.Store and passed by pointer to every
// component that needs it. Every mutation writes through to the store before
// returning, so a restarted process observes the same session.
package session

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/jrepp/planbook/pkg/kvstore"
)

// Keys used in the backing store.
const (
	KeyToken       = "token"
	KeyDisplayName = "username"
)

// State is the current session. An empty token means anonymous.
type State struct {
	mu    sync.RWMutex
	store kvstore.Store
	log   hclog.Logger

	token       string
	displayName string
}

// Load reads the persisted session from store.
func Load(store kvstore.Store, log hclog.Logger) (*State, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}

	s := &State{
		store: store,
		log:   log,
	}

	token, _, err := store.Get(KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load session token: %w", err)
	}
	name, _, err := store.Get(KeyDisplayName)
	if err != nil {
		return nil, fmt.Errorf("failed to load display name: %w", err)
	}

	s.token = token
	s.displayName = name

	log.Debug("session loaded", "logged_in", token != "", "display_name", name)
	return s, nil
}

// Token returns the current session token, or "" when logged out.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// DisplayName returns the display name of the signed-in user.
func (s *State) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayName
}

// IsLoggedIn reports whether a session token is present.
func (s *State) IsLoggedIn() bool {
	return s.Token() != ""
}

// SetToken replaces the session token. An empty token logs the session out
// and removes the persisted key. The in-memory value is updated even when the
// store write fails; the returned error reports the failed write.
func (s *State) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	return s.persist(KeyToken, token)
}

// SetDisplayName replaces the display name, with the same persistence rules
// as SetToken.
func (s *State) SetDisplayName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.displayName = name
	return s.persist(KeyDisplayName, name)
}

// Clear logs the session out, dropping both the token and the display name.
func (s *State) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.displayName = ""

	var result *multierror.Error
	if err := s.persist(KeyToken, ""); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.persist(KeyDisplayName, ""); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// persist writes value for key, deleting the key for empty values. Callers
// hold s.mu so store writes happen in the same order as memory writes.
func (s *State) persist(key, value string) error {
	var err error
	if value == "" {
		err = s.store.Delete(key)
	} else {
		err = s.store.Set(key, value)
	}
	if err != nil {
		s.log.Error("error persisting session", "key", key, "error", err)
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}
