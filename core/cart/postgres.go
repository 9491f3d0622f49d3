package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Postgres persists carts as jsonb rows, one per cart id.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Load(ctx context.Context, cartID string) ([]byte, error) {
	const q = `SELECT payload FROM carts WHERE cart_id = $1`

	var payload []byte
	if err := p.db.GetContext(ctx, &payload, q, cartID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading cart[%s]: %w", cartID, err)
	}

	return payload, nil
}

func (p *Postgres) Save(ctx context.Context, cartID string, payload []byte) error {
	const q = `
	INSERT INTO carts (cart_id, payload, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (cart_id)
	DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`

	if _, err := p.db.ExecContext(ctx, q, cartID, payload); err != nil {
		return fmt.Errorf("saving cart[%s]: %w", cartID, err)
	}

	return nil
}

func (p *Postgres) Delete(ctx context.Context, cartID string) error {
	const q = `DELETE FROM carts WHERE cart_id = $1`

	if _, err := p.db.ExecContext(ctx, q, cartID); err != nil {
		return fmt.Errorf("deleting cart[%s]: %w", cartID, err)
	}

	return nil
}
