// Package session tracks the signed-in cashier for the lifetime of the
// terminal process. Token issuance and role policy belong to the backend;
// this only remembers who the order should be attributed to.
package session

import (
	"sync"

	"github.com/swiftretail/pos-terminal/internal/models"
)

type Session struct {
	mu   sync.RWMutex
	user *models.User
}

func New() *Session {
	return &Session{}
}

func (s *Session) SignIn(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
}

func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
}

func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.User{}, false
	}

	return *s.user, true
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return ""
	}

	return s.user.ID
}
