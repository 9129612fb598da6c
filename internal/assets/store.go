// Package assets stores photographic evidence as write-once objects and hands back a
// public reference for each one.
package assets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnavailable wraps every failure of a backing object store.
var ErrUnavailable = errors.New("asset store unavailable")

// Store persists an object under key. The returned reference is readable as soon as
// Put returns.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Purpose tags whether an image documents the reported problem or its resolution.
type Purpose string

const (
	PurposeBefore Purpose = "before"
	PurposeAfter  Purpose = "after"
)

const defaultExtension = "bin"

// NewKey builds "{purpose}-{unixMillis}-{suffix}.{ext}" from the uploaded file name.
func NewKey(purpose Purpose, now time.Time, filename string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
	return fmt.Sprintf("%s-%d-%s.%s", purpose, now.UnixMilli(), suffix, Extension(filename))
}

// Extension returns the lower-cased text after the last dot of the file's base name,
// restricted to letters and digits.
func Extension(filename string) string {
	if slash := strings.LastIndexAny(filename, `/\`); slash >= 0 {
		filename = filename[slash+1:]
	}
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return defaultExtension
	}

	var b strings.Builder
	for _, r := range strings.ToLower(filename[idx+1:]) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return defaultExtension
	}
	return b.String()
}

// ContentType prefers the declared type and sniffs the payload otherwise.
func ContentType(declared string, body []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(body)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
