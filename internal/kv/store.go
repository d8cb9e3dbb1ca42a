// Package kv holds the durable key-value storage used for per-device state.
// Keys and values are plain strings; structured values are JSON encoded by callers.
package kv

import (
	"context"
	"errors"
)

const (
	keyPrefix    = "repcheck"
	keySeparator = "::"
)

var ErrEmptyKey = errors.New("empty key")

type Store interface {
	// Get returns found=false (and no error) when the key is not set
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Scoper gives out stores bound to a single namespace, so many devices
// can share the same backend without seeing each other's keys
type Scoper interface {
	Scoped(namespace string) Store
}

func namespacedKey(namespace, key string) string {
	if namespace == "" {
		return keyPrefix + keySeparator + key
	}
	return keyPrefix + keySeparator + namespace + keySeparator + key
}
