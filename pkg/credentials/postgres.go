// pkg/credentials/postgres.go
package credentials

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresStore constructs a PostgreSQL-backed credential store.
func NewPostgresStore(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Store {
	return &pgStore{dbPool: dbPool, log: log}
}

// EnsureSchema creates the credentials table if it does not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS shop_credentials (
  shop text PRIMARY KEY,
  access_token text NOT NULL,
  installed_at timestamptz NOT NULL DEFAULT NOW()
);`)
	return err
}

func (p *pgStore) Get(ctx context.Context, shop string) (Credential, error) {
	var c Credential
	err := p.dbPool.QueryRow(ctx,
		`SELECT shop, access_token, installed_at FROM shop_credentials WHERE shop=$1`, shop).
		Scan(&c.Shop, &c.AccessToken, &c.InstalledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, ErrNotFound
	}
	if err != nil {
		return Credential{}, err
	}
	return c, nil
}

func (p *pgStore) Put(ctx context.Context, cred Credential) error {
	if cred.InstalledAt.IsZero() {
		cred.InstalledAt = time.Now().UTC()
	}
	_, err := p.dbPool.Exec(ctx, `
INSERT INTO shop_credentials (shop, access_token, installed_at)
VALUES ($1, $2, $3)
ON CONFLICT (shop) DO UPDATE SET access_token=EXCLUDED.access_token, installed_at=EXCLUDED.installed_at
`, cred.Shop, cred.AccessToken, cred.InstalledAt)
	return err
}

func (p *pgStore) Delete(ctx context.Context, shop string) error {
	_, err := p.dbPool.Exec(ctx, `DELETE FROM shop_credentials WHERE shop=$1`, shop)
	return err
}
