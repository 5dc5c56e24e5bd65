package storage

import "context"

// TokenStore persists the bearer token under a single fixed key. Exactly one
// token is active per client profile; saving replaces the previous one.
type TokenStore struct {
	repo Repository
}

func NewTokenStore(repo Repository) *TokenStore {
	return &TokenStore{repo: repo}
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *TokenStore) Token() (string, error) {
	value, err := s.repo.Get(context.Background(), KeyAuthToken)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Save persists the bearer token.
func (s *TokenStore) Save(token string) error {
	return s.repo.Set(context.Background(), KeyAuthToken, []byte(token))
}

// Clear removes the stored token. Clearing an absent token is a no-op.
func (s *TokenStore) Clear() error {
	return s.repo.Delete(context.Background(), KeyAuthToken)
}
