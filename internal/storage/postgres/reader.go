package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"example.com/formintake/internal/domain"
)

// FetchAll returns every record in the store's native order.
func (db *DB) FetchAll(ctx context.Context) ([]domain.Record, error) {
	ctx, cancel := db.bound(ctx)
	defer cancel()

	rows, err := db.Pool.Query(ctx,
		`SELECT id, first_name, second_name, email, phone_number, eircode, created_at FROM records`)
	if err != nil {
		return nil, fmt.Errorf("%w: select records: %w", domain.ErrPersistence, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Record, error) {
		var r domain.Record
		err := row.Scan(&r.ID, &r.FirstName, &r.SecondName, &r.Email, &r.PhoneNumber, &r.Eircode, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan records: %w", domain.ErrPersistence, err)
	}
	if out == nil {
		out = []domain.Record{}
	}
	return out, nil
}
