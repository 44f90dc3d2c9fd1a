package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"

	"github.com/asgard/webauthnd/internal/platform/db"
	"github.com/asgard/webauthnd/internal/webauthn/codec"
	"github.com/asgard/webauthnd/internal/webauthn/store"
)

// ChallengeRepository is the Postgres-backed store.ChallengeStore. fetch and
// mark_used are serializable per value via an UPDATE ... WHERE used = false
// guard, which Postgres executes atomically.
type ChallengeRepository struct {
	db *db.PostgresDB
}

func NewChallengeRepository(pgDB *db.PostgresDB) *ChallengeRepository {
	return &ChallengeRepository{db: pgDB}
}

func (r *ChallengeRepository) CreateNew(ctx context.Context) (*store.Challenge, error) {
	// A collision on the 32-byte random value is cryptographically
	// negligible but handled once: a failed insert is retried with a fresh
	// value before ChallengeExistsError is returned.
	var value string
	for attempt := 0; attempt < 2; attempt++ {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("challenge: random read: %w", err)
		}
		value = codec.Base64URLEncode(b)

		_, err := r.db.ExecContext(ctx,
			`INSERT INTO webauthn_challenges (value, used, created_at) VALUES ($1, false, now())`, value)
		if err == nil {
			return &store.Challenge{Value: value, Used: false}, nil
		}
	}
	return nil, store.NewChallengeExistsError(value)
}

func (r *ChallengeRepository) Check(ctx context.Context, value string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM webauthn_challenges WHERE value = $1)`, value).Scan(&exists)
	return exists, err
}

func (r *ChallengeRepository) Fetch(ctx context.Context, value string) (*store.Challenge, error) {
	var c store.Challenge
	c.Value = value
	err := r.db.QueryRowContext(ctx,
		`SELECT used, used_at, created_at FROM webauthn_challenges WHERE value = $1`, value).
		Scan(&c.Used, &c.UsedTime, &c.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChallengeRepository) MarkUsed(ctx context.Context, value string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE webauthn_challenges SET used = true, used_at = now() WHERE value = $1 AND used = false`, value)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.NewChallengeUsedError(value)
	}
	return nil
}

func (r *ChallengeRepository) Delete(ctx context.Context, value string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM webauthn_challenges WHERE value = $1`, value)
	return err
}
