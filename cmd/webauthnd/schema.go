package main

import (
	"context"

	"github.com/asgard/webauthnd/internal/platform/db"
)

// ensureSchema creates the tables this server depends on if they do not
// already exist. Unlike services that check schema presence against an
// externally-applied migration, webauthnd owns its (small) schema directly
// since it has no other consumer.
func ensureSchema(ctx context.Context, pgDB *db.PostgresDB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS webauthn_users (
			name TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS webauthn_credentials (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			counter BIGINT NOT NULL,
			aaguid BYTEA NOT NULL,
			public_key JSONB NOT NULL,
			flags SMALLINT NOT NULL,
			last_used TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS webauthn_user_credentials (
			user_name TEXT NOT NULL REFERENCES webauthn_users(name) ON DELETE CASCADE,
			credential_id TEXT NOT NULL REFERENCES webauthn_credentials(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (user_name, credential_id)
		)`,
		`CREATE TABLE IF NOT EXISTS webauthn_challenges (
			value TEXT PRIMARY KEY,
			used BOOLEAN NOT NULL DEFAULT false,
			used_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS webauthn_sessions (
			id TEXT PRIMARY KEY,
			session_data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS webauthn_policy (
			id SMALLINT PRIMARY KEY,
			policy JSONB NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := pgDB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
