// Package session holds the CLI's persisted authentication identity: the
// logged-in user, the bearer token, and the admin flags. The Store is the
// single source of truth for "am I logged in"; every mutation is written
// through a persistence adapter so the session survives across invocations.
package session

import (
	"fmt"
	"sync"
)

// User is the authenticated regular-user identity as returned by the portal.
type User struct {
	ID               int    `json:"id"`
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	ProfileCompleted bool   `json:"profile_completed"`
}

// UserPatch is a partial update to the stored user record. Nil fields are
// left untouched by UpdateUser.
type UserPatch struct {
	Email            *string
	FullName         *string
	ProfileCompleted *bool
}

// Session is the persisted identity record. IsAdmin and the regular-user
// fields are modeled independently, but SetAuth always clears the admin
// side: a regular login ends any admin session.
type Session struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"is_authenticated"`
	IsAdmin         bool   `json:"is_admin"`
	AdminID         *int   `json:"admin_id"`
}

// Store owns the in-memory session and writes every mutation through its
// adapter. Mutations never partially apply: the adapter save happens after
// the in-memory transition.
type Store struct {
	mu      sync.Mutex
	session Session
	adapter Adapter
}

// Open rehydrates a store from the adapter. A missing record yields the
// empty (unauthenticated) session.
func Open(adapter Adapter) (*Store, error) {
	s := &Store{adapter: adapter}

	loaded, err := adapter.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if loaded != nil {
		s.session = *loaded
	}

	return s, nil
}

// Snapshot returns a copy of the current session. The copy is safe to hold
// across calls; it does not observe later mutations.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) copyLocked() Session {
	out := s.session
	if s.session.User != nil {
		u := *s.session.User
		out.User = &u
	}
	if s.session.AdminID != nil {
		id := *s.session.AdminID
		out.AdminID = &id
	}
	return out
}

// SetAuth replaces the session with an authenticated regular-user state.
// Any active admin session is cleared.
func (s *Store) SetAuth(user User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{
		User:            &user,
		Token:           token,
		IsAuthenticated: true,
		IsAdmin:         false,
		AdminID:         nil,
	}

	return s.saveLocked()
}

// AdminLogin marks the session as an admin session. The regular-user
// fields are left untouched.
func (s *Store) AdminLogin(adminID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.IsAdmin = true
	s.session.AdminID = &adminID

	return s.saveLocked()
}

// Logout resets the session to the unauthenticated state. Idempotent.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{}

	return s.saveLocked()
}

// UpdateUser shallow-merges the patch into the stored user record. It is a
// no-op when no user is logged in.
func (s *Store) UpdateUser(patch UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.User == nil {
		return nil
	}

	if patch.Email != nil {
		s.session.User.Email = *patch.Email
	}
	if patch.FullName != nil {
		s.session.User.FullName = *patch.FullName
	}
	if patch.ProfileCompleted != nil {
		s.session.User.ProfileCompleted = *patch.ProfileCompleted
	}

	return s.saveLocked()
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

func (s *Store) saveLocked() error {
	snapshot := s.copyLocked()
	if err := s.adapter.Save(&snapshot); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
