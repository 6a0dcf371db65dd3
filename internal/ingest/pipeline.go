package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"example.com/formintake/internal/domain"
	"example.com/formintake/internal/upload"
)

// Store is the persistence the pipeline writes through.
type Store interface {
	InsertOne(ctx context.Context, rec domain.Record) (int64, error)
	InsertMany(ctx context.Context, recs []domain.Record) (int64, error)
}

// Invalidator is told whenever new records were committed.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Pipeline struct {
	store       Store
	invalidator Invalidator
	log         *slog.Logger
}

// NewPipeline wires the pipeline. invalidator may be nil.
func NewPipeline(store Store, invalidator Invalidator, log *slog.Logger) *Pipeline {
	return &Pipeline{
		store:       store,
		invalidator: invalidator,
		log:         log.With("component", "ingest"),
	}
}

// SubmitResult is the outcome of a single submission. Errors is empty when the
// record was stored.
type SubmitResult struct {
	ID     int64
	Errors []string
}

// Rejection is one CSV row that failed validation, with every violated rule.
type Rejection struct {
	Row    domain.Fields `json:"row"`
	Errors []string      `json:"errors"`
}

type ImportResult struct {
	Inserted int64       `json:"inserted"`
	Invalid  []Rejection `json:"invalid"`
}

// Submit sanitizes and validates one payload and stores it when valid.
// Validation failures are part of the result; only storage failures are errors.
func (p *Pipeline) Submit(ctx context.Context, f domain.Fields) (SubmitResult, error) {
	clean := domain.Sanitize(f)
	if errs := domain.Validate(clean); len(errs) > 0 {
		return SubmitResult{Errors: domain.Messages(errs)}, nil
	}

	id, err := p.store.InsertOne(ctx, clean.Record())
	if err != nil {
		return SubmitResult{}, err
	}
	p.invalidate(ctx)
	p.log.InfoContext(ctx, "record stored", "id", id)
	return SubmitResult{ID: id}, nil
}

// ImportFile runs ImportCSV over a spooled upload. Removing the file stays
// with the caller.
func (p *Pipeline) ImportFile(ctx context.Context, f *upload.File) (ImportResult, error) {
	r, err := f.Open()
	if err != nil {
		return ImportResult{}, fmt.Errorf("open upload: %w", err)
	}
	defer r.Close()
	return p.ImportCSV(ctx, r)
}

func (p *Pipeline) invalidate(ctx context.Context) {
	if p.invalidator != nil {
		p.invalidator.Invalidate(ctx)
	}
}
