package api

import (
	"net/http"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/service/query"
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	SQL string `json:"sql"`
}

type historyResponse struct {
	Entries []domain.QueryHistoryEntry `json:"entries"`
}

type savedQueriesResponse struct {
	Queries []domain.SavedQuery `json:"queries"`
}

// ExecuteQuery handles POST /query. The SQL runs as given and is recorded in
// the history whether it succeeds or fails.
func (h *Handler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.svc.Queries.Execute(r.Context(), req.SQL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Queries.History(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.QueryHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Queries.ClearHistory(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, savedQueriesResponse{Queries: query.Templates()})
}

func (h *Handler) ListSavedQueries(w http.ResponseWriter, r *http.Request) {
	queries, err := h.svc.Queries.ListSaved(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if queries == nil {
		queries = []domain.SavedQuery{}
	}
	writeJSON(w, http.StatusOK, savedQueriesResponse{Queries: queries})
}

func (h *Handler) CreateSavedQuery(w http.ResponseWriter, r *http.Request) {
	var req query.SaveQueryRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	sq, err := h.svc.Queries.SaveQuery(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sq)
}

func (h *Handler) UpdateSavedQuery(w http.ResponseWriter, r *http.Request) {
	var upd domain.SavedQueryUpdate
	if err := decodeJSON(r, &upd, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	sq, err := h.svc.Queries.UpdateSaved(r.Context(), pathParam(r, "id"), upd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sq)
}

func (h *Handler) DeleteSavedQuery(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Queries.DeleteSaved(r.Context(), pathParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RunSavedQuery(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Queries.RunSaved(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
