package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewID generates a UUIDv7 string for application-owned entities.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewFileID builds the identifier of an uploaded file: upload time in unix
// milliseconds followed by the original file name.
func NewFileID(name string, at time.Time) string {
	return strconv.FormatInt(at.UnixMilli(), 10) + "-" + name
}
