package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/spherecast/spherecast/internal/database"
)

// Postgres stores items in the kv_items table.
type Postgres struct {
	db database.DBTX
}

func NewPostgres(db database.DBTX) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, namespace, key string) (string, error) {
	if err := checkScope(namespace, key); err != nil {
		return "", err
	}
	var value string
	err := p.db.QueryRow(ctx,
		`SELECT value FROM kv_items WHERE namespace = $1 AND key = $2`,
		namespace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select kv item: %w", err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, namespace, key, value string) error {
	if err := checkScope(namespace, key); err != nil {
		return err
	}
	_, err := p.db.Exec(ctx,
		`INSERT INTO kv_items (namespace, key, value, updated_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert kv item: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, namespace, key string) error {
	if err := checkScope(namespace, key); err != nil {
		return err
	}
	if _, err := p.db.Exec(ctx,
		`DELETE FROM kv_items WHERE namespace = $1 AND key = $2`,
		namespace, key,
	); err != nil {
		return fmt.Errorf("delete kv item: %w", err)
	}
	return nil
}
