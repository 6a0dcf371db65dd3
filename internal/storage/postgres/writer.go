package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"example.com/formintake/internal/domain"
)

var insertCols = []string{"first_name", "second_name", "email", "phone_number", "eircode"}

// maxBindParams is the postgres limit on parameters per statement.
const maxBindParams = 65535

var maxRowsPerStatement = maxBindParams / len(insertCols)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// InsertOne stores a validated record and returns its id.
func (db *DB) InsertOne(ctx context.Context, rec domain.Record) (int64, error) {
	ctx, cancel := db.bound(ctx)
	defer cancel()

	sql, args := buildInsert([]domain.Record{rec})
	var id int64
	if err := db.Pool.QueryRow(ctx, sql+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: insert record: %w", domain.ErrPersistence, err)
	}
	return id, nil
}

// InsertMany stores all records or none. Batches that fit one statement are
// sent as a single multi-row INSERT; larger ones are split inside a transaction.
func (db *DB) InsertMany(ctx context.Context, recs []domain.Record) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	ctx, cancel := db.bound(ctx)
	defer cancel()

	if len(recs) <= maxRowsPerStatement {
		n, err := insertChunks(ctx, db.Pool, recs)
		if err != nil {
			return 0, fmt.Errorf("%w: bulk insert: %w", domain.ErrPersistence, err)
		}
		return n, nil
	}

	var total int64
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		n, err := insertChunks(ctx, tx, recs)
		total = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: bulk insert: %w", domain.ErrPersistence, err)
	}
	return total, nil
}

func insertChunks(ctx context.Context, ex execer, recs []domain.Record) (int64, error) {
	var total int64
	for start := 0; start < len(recs); start += maxRowsPerStatement {
		end := min(start+maxRowsPerStatement, len(recs))
		sql, args := buildInsert(recs[start:end])
		ct, err := ex.Exec(ctx, sql, args...)
		if err != nil {
			return 0, err
		}
		total += ct.RowsAffected()
	}
	return total, nil
}

// buildInsert renders one multi-row INSERT with positional placeholders.
func buildInsert(recs []domain.Record) (string, []any) {
	placeholders := make([]string, 0, len(recs))
	args := make([]any, 0, len(recs)*len(insertCols))

	argi := 1
	for _, r := range recs {
		ph := make([]string, len(insertCols))
		for i := range ph {
			ph[i] = fmt.Sprintf("$%d", argi)
			argi++
		}
		args = append(args, r.FirstName, r.SecondName, r.Email, r.PhoneNumber, r.Eircode)
		placeholders = append(placeholders, "("+strings.Join(ph, ",")+")")
	}

	sql := "INSERT INTO records (" + strings.Join(insertCols, ",") + ") VALUES " +
		strings.Join(placeholders, ",")
	return sql, args
}
