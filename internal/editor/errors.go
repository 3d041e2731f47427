package editor

import (
	"errors"
	"fmt"
	"strings"

	"resume-builder/resume/model"
)

// ErrNoSnapshot is returned by a SnapshotStore when nothing is stored under the key.
var ErrNoSnapshot = errors.New("no snapshot stored")

// HydrationError reports a stored snapshot that could not be loaded. The
// controller falls back to defaults when it occurs.
type HydrationError struct {
	Key string
	Err error
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("failed to load saved data from %q, starting fresh: %v", e.Key, e.Err)
}

func (e *HydrationError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the resume API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []model.FieldError
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api error %d", e.Status)
	if e.Code != "" {
		b.WriteString(" " + e.Code)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s %s", displayField(f.Path), f.Message)
	}
	return b.String()
}

func displayField(path string) string {
	if path == "" {
		return "body"
	}
	return path
}
