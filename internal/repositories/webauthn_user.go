package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/asgard/webauthnd/internal/platform/db"
	"github.com/asgard/webauthnd/internal/webauthn/model"
)

// UserRepository is the Postgres-backed store.UserRepository.
type UserRepository struct {
	db *db.PostgresDB
}

func NewUserRepository(pgDB *db.PostgresDB) *UserRepository {
	return &UserRepository{db: pgDB}
}

func (r *UserRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM webauthn_users WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Get(ctx context.Context, name string) (*model.UserEntity, error) {
	var u model.UserEntity
	err := r.db.QueryRowContext(ctx, `SELECT id, name, display_name FROM webauthn_users WHERE name = $1`, name).
		Scan(&u.ID, &u.Name, &u.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Add(ctx context.Context, user model.UserEntity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO webauthn_users (id, name, display_name) VALUES ($1, $2, $3)`,
		user.ID, user.Name, user.DisplayName)
	return err
}

func (r *UserRepository) List(ctx context.Context) ([]model.UserEntity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, display_name FROM webauthn_users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.UserEntity
	for rows.Next() {
		var u model.UserEntity
		if err := rows.Scan(&u.ID, &u.Name, &u.DisplayName); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) DeleteCascade(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM webauthn_users WHERE name = $1`, name)
	return err
}

func (r *UserRepository) AddCredentialRef(ctx context.Context, name, credentialID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO webauthn_user_credentials (user_name, credential_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		name, credentialID)
	return err
}

func (r *UserRepository) CredentialIDsFor(ctx context.Context, name string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT credential_id FROM webauthn_user_credentials WHERE user_name = $1 ORDER BY created_at`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
