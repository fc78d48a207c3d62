// Package store defines the persistence interfaces the rest of the
// application depends on, together with the shared error vocabulary and
// transaction helpers. Implementations live under internal/platform.
package store
