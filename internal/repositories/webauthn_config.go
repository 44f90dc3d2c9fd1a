package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/asgard/webauthnd/internal/platform/db"
	"github.com/asgard/webauthnd/internal/webauthn/model"
)

// configSingletonID is the single well-known row the policy document is
// cached under in the config store.
const configSingletonID = 1

// ConfigRepository is the Postgres-backed store.ConfigStore.
type ConfigRepository struct {
	db *db.PostgresDB
}

func NewConfigRepository(pgDB *db.PostgresDB) *ConfigRepository {
	return &ConfigRepository{db: pgDB}
}

func (r *ConfigRepository) Get(ctx context.Context) (*model.WebauthnPolicy, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx, `SELECT policy FROM webauthn_policy WHERE id = $1`, configSingletonID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var policy model.WebauthnPolicy
	if err := json.Unmarshal(blob, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *ConfigRepository) Put(ctx context.Context, policy model.WebauthnPolicy) error {
	blob, err := json.Marshal(policy)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO webauthn_policy (id, policy) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET policy = EXCLUDED.policy`,
		configSingletonID, blob)
	return err
}
