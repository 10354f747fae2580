package api

import (
	"net/http"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/engine"
)

type tablesResponse struct {
	Tables []string `json:"tables"`
}

type columnsResponse struct {
	Table   string                    `json:"table"`
	Columns []domain.ColumnDescriptor `json:"columns"`
}

type previewResponse struct {
	Table   string          `json:"table"`
	Columns []string        `json:"columns"`
	Rows    []engine.Record `json:"rows"`
}

// JoinRequest is the body of POST /joins.
type JoinRequest struct {
	domain.JoinConfig
	ResultTable string `json:"result_table,omitempty"`
}

// UnionRequest is the body of POST /unions.
type UnionRequest struct {
	domain.UnionConfig
	ResultTable string `json:"result_table,omitempty"`
}

type materializedResponse struct {
	Table    string `json:"table"`
	RowCount int64  `json:"row_count"`
}

// ListTables handles GET /tables. ?loaded=true hides the default table.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	var (
		tables []string
		err    error
	)
	if r.URL.Query().Get("loaded") == "true" {
		tables, err = h.svc.Tables.ListLoadedTables(r.Context())
	} else {
		tables, err = h.svc.Catalog.ListTables(r.Context())
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tablesResponse{Tables: tables})
}

func (h *Handler) ListColumns(w http.ResponseWriter, r *http.Request) {
	table := pathParam(r, "name")
	cols, err := h.svc.Catalog.ListColumns(r.Context(), table)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(cols) == 0 {
		writeErrorMessage(w, http.StatusNotFound, "table "+table+" not found")
		return
	}
	writeJSON(w, http.StatusOK, columnsResponse{Table: table, Columns: cols})
}

func (h *Handler) PreviewTable(w http.ResponseWriter, r *http.Request) {
	table := pathParam(r, "name")
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows, cols, err := h.svc.Tables.Preview(r.Context(), table, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{Table: table, Columns: cols, Rows: rows})
}

func (h *Handler) DropTable(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tables.DropTable(r.Context(), pathParam(r, "name")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ResultTable == "" {
		req.ResultTable = domain.DefaultJoinResult
	}
	n, err := h.svc.Tables.Join(r.Context(), req.JoinConfig, req.ResultTable)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, materializedResponse{Table: req.ResultTable, RowCount: n})
}

func (h *Handler) Union(w http.ResponseWriter, r *http.Request) {
	var req UnionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ResultTable == "" {
		req.ResultTable = domain.DefaultUnionResult
	}
	n, err := h.svc.Tables.Union(r.Context(), req.UnionConfig, req.ResultTable)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, materializedResponse{Table: req.ResultTable, RowCount: n})
}
