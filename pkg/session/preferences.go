package session

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/jrepp/planbook/pkg/kvstore"
)

// KeySidebarOpen is the store key of the sidebar preference.
const KeySidebarOpen = "sidebarOpen"

// Preferences holds layout preferences that persist alongside the session.
type Preferences struct {
	mu          sync.Mutex
	store       kvstore.Store
	sidebarOpen bool
}

// LoadPreferences reads layout preferences from store. The sidebar is open
// unless it was explicitly stored as "false".
func LoadPreferences(store kvstore.Store) (*Preferences, error) {
	v, _, err := store.Get(KeySidebarOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return &Preferences{
		store:       store,
		sidebarOpen: v != "false",
	}, nil
}

// SidebarOpen reports whether the sidebar is open.
func (p *Preferences) SidebarOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sidebarOpen
}

// SetSidebarOpen stores the sidebar state.
func (p *Preferences) SetSidebarOpen(open bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setLocked(open)
}

// ToggleSidebar flips the sidebar state and returns the new value.
func (p *Preferences) ToggleSidebar() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	open := !p.sidebarOpen
	return open, p.setLocked(open)
}

func (p *Preferences) setLocked(open bool) error {
	p.sidebarOpen = open
	if err := p.store.Set(KeySidebarOpen, strconv.FormatBool(open)); err != nil {
		return fmt.Errorf("failed to persist sidebar state: %w", err)
	}
	return nil
}
