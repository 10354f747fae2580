package domain

import (
	"strings"
	"time"
)

// StoredFile is an uploaded file kept in the local file store.
type StoredFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
	Data       []byte    `json:"-"`
}

// Info returns the file metadata without its contents.
func (f *StoredFile) Info() StoredFileInfo {
	return StoredFileInfo{ID: f.ID, Name: f.Name, Size: f.Size, UploadedAt: f.UploadedAt}
}

// StoredFileInfo is the metadata of a stored file.
type StoredFileInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
	NumRows    int64     `json:"num_rows,omitempty"`
	NumColumns int       `json:"num_columns,omitempty"`
}

// FileTableName derives the engine table a stored file is loaded into when
// the caller does not name one: "file_" followed by the id with every
// character outside [A-Za-z0-9_] replaced by an underscore.
func FileTableName(id string) string {
	var b strings.Builder
	b.WriteString("file_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
