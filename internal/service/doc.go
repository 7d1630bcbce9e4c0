// Package service holds what the progression services share: sentinel
// errors, the typed errors that carry context, and profile provisioning.
//
// Each service lives in its own subpackage (achievement, shop, progress).
// Services depend on the interfaces in internal/store and never on a concrete
// database, so the same code runs against PostgreSQL and the in-memory store.
// XP changes are never computed as read-then-write in a service: they are
// delegated to store operations that are atomic on their own.
package service
