package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence backend injected into the storefront engine.
// Keys are opaque strings, values are whole JSON documents written
// atomically; a read that follows a completed write observes that write
// in full.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger exposes the health-check surface of backends that have one.
type Pinger interface {
	Ping(ctx context.Context) error
}
