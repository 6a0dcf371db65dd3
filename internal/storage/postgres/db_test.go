package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/formintake/internal/domain"
)

// openTestDB connects to TEST_DATABASE_URL and starts from an empty table.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Connect(ctx, Config{DSN: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, db.EnsureSchema(ctx, log))
	_, err = db.Pool.Exec(ctx, "TRUNCATE records RESTART IDENTITY")
	require.NoError(t, err)
	return db
}

func TestDB_EnsureSchemaTwice(t *testing.T) {
	db := openTestDB(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.NoError(t, db.EnsureSchema(context.Background(), log))
	assert.NoError(t, db.Ready(context.Background()))
}

func TestDB_InsertOneRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	rec := domain.Record{FirstName: "John", SecondName: "Doe", Email: "john@x.com", PhoneNumber: "0871234567", Eircode: "1A2B3C"}
	id, err := db.InsertOne(ctx, rec)
	require.NoError(t, err)
	assert.Positive(t, id)

	all, err := db.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, rec.FirstName, got.FirstName)
	assert.Equal(t, rec.SecondName, got.SecondName)
	assert.Equal(t, rec.Email, got.Email)
	assert.Equal(t, rec.PhoneNumber, got.PhoneNumber)
	assert.Equal(t, rec.Eircode, got.Eircode)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestDB_InsertManyAllOrNothing(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	ok := domain.Record{FirstName: "John", SecondName: "Doe", Email: "john@x.com", PhoneNumber: "0871234567", Eircode: "1A2B3C"}
	n, err := db.InsertMany(ctx, []domain.Record{ok, ok})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	tooLong := ok
	tooLong.Eircode = "1A2B3C4D"
	_, err = db.InsertMany(ctx, []domain.Record{ok, tooLong})
	require.ErrorIs(t, err, domain.ErrPersistence)

	all, err := db.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDB_InsertManyChunked(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	recs := make([]domain.Record, maxRowsPerStatement+5)
	for i := range recs {
		recs[i] = domain.Record{FirstName: "Bulk", SecondName: "Row", Email: "b@x.ie", PhoneNumber: "0870000000", Eircode: "1ABCDE"}
	}
	n, err := db.InsertMany(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, int64(len(recs)), n)
}

func TestDB_FetchAllEmpty(t *testing.T) {
	db := openTestDB(t)
	all, err := db.FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}
