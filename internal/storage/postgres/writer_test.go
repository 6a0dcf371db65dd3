package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"example.com/formintake/internal/domain"
)

func TestBuildInsert(t *testing.T) {
	recs := []domain.Record{
		{FirstName: "John", SecondName: "Doe", Email: "john@x.com", PhoneNumber: "0871234567", Eircode: "1A2B3C"},
		{FirstName: "Jane", SecondName: "Roe", Email: "jane@x.com", PhoneNumber: "0861234567", Eircode: "2B3C4D"},
	}

	sql, args := buildInsert(recs)

	assert.Equal(t,
		"INSERT INTO records (first_name,second_name,email,phone_number,eircode) VALUES ($1,$2,$3,$4,$5),($6,$7,$8,$9,$10)",
		sql)
	assert.Equal(t, []any{
		"John", "Doe", "john@x.com", "0871234567", "1A2B3C",
		"Jane", "Roe", "jane@x.com", "0861234567", "2B3C4D",
	}, args)
}

func TestMaxRowsPerStatementFitsBindLimit(t *testing.T) {
	assert.LessOrEqual(t, maxRowsPerStatement*len(insertCols), maxBindParams)

	_, args := buildInsert(make([]domain.Record, maxRowsPerStatement))
	assert.LessOrEqual(t, len(args), maxBindParams)
}

func TestInsertMany_EmptyIssuesNoStatement(t *testing.T) {
	// A nil pool would panic if any statement were attempted.
	db := &DB{}
	n, err := db.InsertMany(context.Background(), nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
