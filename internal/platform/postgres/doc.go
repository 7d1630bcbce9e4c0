// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver. Every XP mutation runs as a single statement or
// inside a transaction holding the profile row lock, and the schema's CHECK
// constraints back the xp and level invariants. Migrations are embedded and
// applied with goose.
package postgres
