package transporthttp

import (
	"encoding/json"
	"net/http"

	"example.com/formintake/internal/logger"
)

const (
	msgRouteNotFound  = "Route not found"
	msgInternalError  = "internal server error"
	msgNoUpload       = "No file uploaded"
	msgUploadTooLarge = "Upload too large"
	msgNotReady       = "Service starting, try again shortly"
)

type errorResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Success: false, Error: msg})
}

// writeServerError logs err and answers 500. The raw message reaches the
// caller only when EXPOSE_ERRORS is on.
func (d *ServerDeps) writeServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	d.Log.ErrorContext(r.Context(), msg, "path", r.URL.Path, logger.Error(err))
	body := msgInternalError
	if d.Cfg.ExposeErrors {
		body = err.Error()
	}
	writeError(w, http.StatusInternalServerError, body)
}
