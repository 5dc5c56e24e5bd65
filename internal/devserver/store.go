package devserver

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/youthlink/youthlink/internal/models"
)

// account is a stored user plus its credential hash.
type account struct {
	user         models.User
	passwordHash string
}

// Store is an in-memory account registry keyed by lowercased email. It backs
// the development server only; nothing it holds survives a restart.
type Store struct {
	mu          sync.Mutex
	byEmail     map[string]*account
	resetTokens map[string]string // reset token -> email
}

func NewStore() *Store {
	return &Store{
		byEmail:     make(map[string]*account),
		resetTokens: make(map[string]string),
	}
}

// Create registers a new account. It returns false when the email is taken.
func (s *Store) Create(user models.User, passwordHash string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return models.User{}, false
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.byEmail[key] = &account{user: user, passwordHash: passwordHash}
	return user, true
}

// FindByEmail returns the account for an email, if registered.
func (s *Store) FindByEmail(email string) (models.User, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, "", false
	}
	return acc.user, acc.passwordHash, true
}

// FindByID returns the account with the given id.
func (s *Store) FindByID(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.byEmail {
		if acc.user.ID == id {
			return acc.user, true
		}
	}
	return models.User{}, false
}

// IssueResetToken creates a one-time password reset token for the email.
// It returns false when the email is not registered.
func (s *Store) IssueResetToken(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.byEmail[key]; !ok {
		return "", false
	}
	token := uuid.NewString()
	s.resetTokens[token] = key
	return token, true
}

// RedeemResetToken consumes a reset token and replaces the account's
// password hash. It returns false for unknown or already-used tokens.
func (s *Store) RedeemResetToken(token, newHash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.resetTokens[token]
	if !ok {
		return false
	}
	delete(s.resetTokens, token)

	acc, ok := s.byEmail[email]
	if !ok {
		return false
	}
	acc.passwordHash = newHash
	return true
}
