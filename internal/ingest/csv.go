package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"example.com/formintake/internal/domain"
)

const utf8BOM = "\ufeff"

// ImportCSV decodes r row by row, keeps the rows that pass validation and
// stores them with a single bulk insert. A decode failure aborts the import
// before anything is stored.
func (p *Pipeline) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	res := ImportResult{Invalid: []Rejection{}}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: header: %w", domain.ErrDecode, err)
	}
	header = append([]string(nil), header...)
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	if missing := missingColumns(header); len(missing) > 0 {
		p.log.WarnContext(ctx, "csv header lacks columns; every row will be rejected", "missing", missing)
	}

	var accepted []domain.Record
	for {
		if err := ctx.Err(); err != nil {
			return ImportResult{}, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ImportResult{}, fmt.Errorf("%w: %w", domain.ErrDecode, err)
		}

		row := domain.Sanitize(rowFields(header, rec))
		if errs := domain.Validate(row); len(errs) > 0 {
			res.Invalid = append(res.Invalid, Rejection{Row: row, Errors: domain.Messages(errs)})
			continue
		}
		accepted = append(accepted, row.Record())
	}

	if len(accepted) == 0 {
		p.log.InfoContext(ctx, "csv import: nothing to insert", "rejected", len(res.Invalid))
		return res, nil
	}

	n, err := p.store.InsertMany(ctx, accepted)
	if err != nil {
		return ImportResult{}, err
	}
	res.Inserted = n
	p.invalidate(ctx)
	p.log.InfoContext(ctx, "csv import done", "inserted", n, "rejected", len(res.Invalid))
	return res, nil
}

// missingColumns lists the validated fields the header does not name.
func missingColumns(header []string) []string {
	var missing []string
	for _, name := range domain.FieldNames() {
		if !slices.Contains(header, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// rowFields keys a decoded row by header name. Cells beyond the header are
// kept under "_<index>"; headers beyond the row stay absent.
func rowFields(header, rec []string) domain.Fields {
	f := make(domain.Fields, len(rec))
	for i, v := range rec {
		if i < len(header) {
			f[header[i]] = v
			continue
		}
		f["_"+strconv.Itoa(i)] = v
	}
	return f
}
