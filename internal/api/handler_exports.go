package api

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"parquet-explorer/internal/domain"
)

// ExportRequest is the body of POST /exports. Without a destination the
// serialized file is the response body.
type ExportRequest struct {
	domain.ExportConfig
	Destination string `json:"destination,omitempty"`
}

type exportDeliveredResponse struct {
	Location string `json:"location"`
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
	Bytes    int    `json:"bytes"`
}

type exportSQLResponse struct {
	SQL string `json:"sql"`
}

// Export handles POST /exports.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Destination != "" && !remoteDestination(req.Destination) {
		writeErrorMessage(w, http.StatusBadRequest, "only s3://, gs:// and az:// destinations are accepted over HTTP")
		return
	}

	blob, err := h.svc.Exports.Export(r.Context(), req.ExportConfig)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if req.Destination != "" {
		location, err := h.svc.Exports.Download(r.Context(), blob, req.Destination)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, exportDeliveredResponse{
			Location: location,
			Filename: blob.Filename,
			Rows:     blob.Rows,
			Bytes:    len(blob.Data),
		})
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": blob.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("X-Row-Count", strconv.Itoa(blob.Rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob.Data)
}

// ExportSQL handles POST /exports/sql and returns the statement an export
// would run, formatted for sharing.
func (h *Handler) ExportSQL(w http.ResponseWriter, r *http.Request) {
	var cfg domain.ExportConfig
	if err := decodeJSON(r, &cfg, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	sql, err := h.svc.Exports.ShareableSQL(cfg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exportSQLResponse{SQL: sql})
}

func remoteDestination(dest string) bool {
	scheme, _, ok := strings.Cut(dest, "://")
	if !ok {
		return false
	}
	switch strings.ToLower(scheme) {
	case "s3", "gs", "az", "abfss":
		return true
	}
	return false
}
