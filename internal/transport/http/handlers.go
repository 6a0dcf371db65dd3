package transporthttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sync/atomic"

	"example.com/formintake/internal/cache"
	"example.com/formintake/internal/config"
	"example.com/formintake/internal/domain"
	"example.com/formintake/internal/ingest"
	"example.com/formintake/internal/logger"
	"example.com/formintake/internal/upload"
)

// Ingestor runs submissions and CSV imports.
type Ingestor interface {
	Submit(ctx context.Context, f domain.Fields) (ingest.SubmitResult, error)
	ImportFile(ctx context.Context, f *upload.File) (ingest.ImportResult, error)
}

// RecordReader serves the viewer and readiness probe.
type RecordReader interface {
	FetchAll(ctx context.Context) ([]domain.Record, error)
	Ready(ctx context.Context) error
}

type ServerDeps struct {
	Cfg     config.Config
	Ingest  Ingestor
	Records RecordReader
	Cache   cache.RecordCache
	Log     *slog.Logger

	// Ready flips once the schema step has succeeded.
	Ready atomic.Bool
}

// --- Health ---

type healthResp struct {
	Status string `json:"status"`
	Port   int    `json:"port"`
}

func (d *ServerDeps) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{Status: "ok", Port: d.Cfg.Port})
}

func (d *ServerDeps) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if !d.Ready.Load() {
		writeError(w, http.StatusServiceUnavailable, msgNotReady)
		return
	}
	if err := d.Records.Ready(r.Context()); err != nil {
		d.Log.WarnContext(r.Context(), "readiness check failed", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "database not reachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// --- Single submission ---

type submitResp struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

func (d *ServerDeps) HandleSubmitForm(w http.ResponseWriter, r *http.Request) {
	defer DrainBody(r)

	f, err := decodeSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := d.Ingest.Submit(r.Context(), f)
	if err != nil {
		d.writeServerError(w, r, "submit failed", err)
		return
	}
	if len(res.Errors) > 0 {
		writeJSON(w, http.StatusOK, submitResp{Success: false, Errors: res.Errors})
		return
	}
	writeJSON(w, http.StatusOK, submitResp{Success: true})
}

// decodeSubmission reads a JSON object or an urlencoded form into Fields.
// JSON nulls count as absent; numbers keep their literal text.
func decodeSubmission(r *http.Request) (domain.Fields, error) {
	if hasMediaType(r, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		f := make(domain.Fields, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				f[k] = vs[0]
			}
		}
		return f, nil
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("expected a JSON object")
	}
	f := make(domain.Fields, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		switch {
		case bytes.Equal(v, []byte("null")):
			continue
		case len(v) > 0 && v[0] == '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, fmt.Errorf("field %s: %w", k, err)
			}
			f[k] = s
		default:
			f[k] = string(v)
		}
	}
	return f, nil
}

// --- CSV upload ---

func (d *ServerDeps) HandleUploadCSV(w http.ResponseWriter, r *http.Request) {
	defer DrainBody(r)
	ctx := r.Context()

	part, err := firstFilePart(r)
	if err != nil {
		d.writeUploadError(w, r, err)
		return
	}
	f, err := upload.Spool(d.Cfg.UploadDir, part)
	_ = part.Close()
	if err != nil {
		d.writeUploadError(w, r, err)
		return
	}
	defer func() {
		if err := f.Remove(); err != nil {
			d.Log.ErrorContext(ctx, "remove upload", "path", f.Path, logger.Error(err))
		}
	}()

	res, err := d.Ingest.ImportFile(ctx, f)
	if err != nil {
		d.writeServerError(w, r, "csv import failed", err)
		return
	}
	d.Log.InfoContext(ctx, "csv upload processed", "bytes", f.Size, "inserted", res.Inserted, "rejected", len(res.Invalid))
	writeJSON(w, http.StatusOK, res)
}

func (d *ServerDeps) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrNoUpload):
		writeError(w, http.StatusBadRequest, msgNoUpload)
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, msgUploadTooLarge)
	default:
		d.writeServerError(w, r, "read upload failed", err)
	}
}

// firstFilePart streams the multipart body up to the first file part.
func firstFilePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoUpload, err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrNoUpload
		}
		if err != nil {
			return nil, fmt.Errorf("%w: multipart: %w", domain.ErrDecode, err)
		}
		if part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

// --- Viewer ---

type viewResp struct {
	Success bool            `json:"success"`
	Data    []domain.Record `json:"data"`
}

func (d *ServerDeps) HandleViewData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recs, gen, ok := d.Cache.Get(ctx)
	if ok {
		writeJSON(w, http.StatusOK, viewResp{Success: true, Data: recs})
		return
	}

	recs, err := d.Records.FetchAll(ctx)
	if err != nil {
		d.writeServerError(w, r, "fetch records failed", err)
		return
	}
	d.Cache.Set(ctx, gen, recs)
	writeJSON(w, http.StatusOK, viewResp{Success: true, Data: recs})
}

// --- Fallback ---

func (d *ServerDeps) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	d.Log.DebugContext(r.Context(), domain.ErrRouteNotFound.Error(), "method", r.Method, "path", r.URL.Path)
	writeError(w, http.StatusNotFound, msgRouteNotFound)
}
