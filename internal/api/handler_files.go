package api

import (
	"errors"
	"io"
	"net/http"

	"parquet-explorer/internal/domain"
)

const multipartMemory = 32 << 20

// LoadFileRequest is the optional body of POST /files/{id}/load.
type LoadFileRequest struct {
	TableName string `json:"table_name,omitempty"`
}

type filesResponse struct {
	Files []domain.StoredFileInfo `json:"files"`
}

// UploadFile handles a multipart upload with the file in the "file" field.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if h.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, err)
			return
		}
		writeErrorMessage(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, header, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, `multipart field "file" is required`)
		return
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	info, err := h.svc.Files.Upload(r.Context(), header.Filename, data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Files.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.StoredFileInfo{}
	}
	writeJSON(w, http.StatusOK, filesResponse{Files: list})
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Files.Delete(r.Context(), pathParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearFiles(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Files.Clear(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadFile materializes a stored file as an engine table. The table name
// defaults to one derived from the file id.
func (h *Handler) LoadFile(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	var req LoadFileRequest
	if err := decodeJSON(r, &req, true); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.TableName == "" {
		req.TableName = domain.FileTableName(id)
	}
	table, err := h.svc.Tables.LoadFile(r.Context(), id, req.TableName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}
