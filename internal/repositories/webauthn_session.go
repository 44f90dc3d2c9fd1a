package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/asgard/webauthnd/internal/platform/db"
)

// SessionRepository is the Postgres-backed store.SessionStore backing the
// x-session header contract.
type SessionRepository struct {
	db *db.PostgresDB
}

func NewSessionRepository(pgDB *db.PostgresDB) *SessionRepository {
	return &SessionRepository{db: pgDB}
}

func (r *SessionRepository) Put(ctx context.Context, id string, values map[string]string) error {
	blob, err := json.Marshal(values)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO webauthn_sessions (id, session_data, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET session_data = EXCLUDED.session_data, updated_at = now()`,
		id, blob)
	return err
}

func (r *SessionRepository) Get(ctx context.Context, id string) (map[string]string, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx, `SELECT session_data FROM webauthn_sessions WHERE id = $1`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(blob, &values); err != nil {
		return nil, err
	}
	return values, nil
}
