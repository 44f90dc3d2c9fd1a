package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/asgard/webauthnd/internal/platform/db"
	"github.com/asgard/webauthnd/internal/webauthn/cose"
	"github.com/asgard/webauthnd/internal/webauthn/model"
)

// CredentialRepository is the Postgres-backed store.CredentialRepository.
// The COSE public key is stored as a JSON-encoded cose.Key; the credential
// id space is enforced globally unique by the table's primary key
// across all registrants.
type CredentialRepository struct {
	db *db.PostgresDB
}

func NewCredentialRepository(pgDB *db.PostgresDB) *CredentialRepository {
	return &CredentialRepository{db: pgDB}
}

func (r *CredentialRepository) Get(ctx context.Context, id string) (*model.Credential, error) {
	var c model.Credential
	var pubKeyJSON []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, type, counter, aaguid, public_key, flags, last_used FROM webauthn_credentials WHERE id = $1`, id).
		Scan(&c.ID, &c.Type, &c.Counter, &c.AAGUID, &pubKeyJSON, &c.Flags, &c.Last)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var key cose.Key
	if err := json.Unmarshal(pubKeyJSON, &key); err != nil {
		return nil, err
	}
	c.CredentialPublicKey = key
	return &c, nil
}

func (r *CredentialRepository) Add(ctx context.Context, cred model.Credential) error {
	pubKeyJSON, err := json.Marshal(cred.CredentialPublicKey)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO webauthn_credentials (id, type, counter, aaguid, public_key, flags, last_used)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cred.ID, cred.Type, cred.Counter, cred.AAGUID, pubKeyJSON, cred.Flags, cred.Last)
	return err
}

func (r *CredentialRepository) Update(ctx context.Context, cred model.Credential) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE webauthn_credentials SET counter = $2, flags = $3, last_used = $4 WHERE id = $1`,
		cred.ID, cred.Counter, cred.Flags, cred.Last)
	return err
}

func (r *CredentialRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM webauthn_credentials WHERE id = $1`, id)
	return err
}
