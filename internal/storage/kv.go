// Package storage provides the durable client-side key-value store. Each
// logical piece of state (bearer token, notification collection) lives under
// one fixed key and is read and written wholesale.
package storage

import "context"

// Fixed keys of the client store.
const (
	KeyAuthToken     = "auth_token"
	KeyNotifications = "notifications"
)

// Repository is a flat key-value store. Get returns (nil, nil) for a missing
// key so callers can distinguish "absent" from a storage failure.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
