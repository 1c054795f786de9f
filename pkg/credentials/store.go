package credentials

import (
	"context"
	"errors"
	"time"
)

// Credential is the access token obtained for one shop by a completed
// OAuth handshake. One credential per shop; reinstallation overwrites.
type Credential struct {
	Shop        string
	AccessToken string
	InstalledAt time.Time
}

// ErrNotFound is returned when no credential exists for the shop. Callers
// must fail closed on it (no anonymous fallback).
var ErrNotFound = errors.New("credential not found")

// Store abstracts credential persistence so the handshake and export logic
// work unchanged against in-memory, redis or postgres backends.
type Store interface {
	Get(ctx context.Context, shop string) (Credential, error)
	Put(ctx context.Context, cred Credential) error
	Delete(ctx context.Context, shop string) error
}
