package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateSkill indicates the skill already exists in its category.
	ErrDuplicateSkill = errors.New("skill already exists in category")

	// ErrEmptySkill indicates a blank skill name.
	ErrEmptySkill = errors.New("skill must not be empty")
)

// FieldError describes one violated field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationErrors enumerates every violated field of a candidate value.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (ve *ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", displayPath(fe.Path), fe.Message))
	}
	return sb.String()
}

// Add records a violation unless the path is already reported.
func (ve *ValidationErrors) Add(path, message string) {
	for _, fe := range ve.Errors {
		if fe.Path == path {
			return
		}
	}
	ve.Errors = append(ve.Errors, FieldError{Path: path, Message: message})
}

// Merge appends other's errors with their paths prefixed.
func (ve *ValidationErrors) Merge(prefix string, other *ValidationErrors) {
	if other == nil {
		return
	}
	for _, fe := range other.Errors {
		ve.Add(JoinPath(prefix, fe.Path), fe.Message)
	}
}

// Covers reports whether path equals, or is nested under, an already reported path.
func (ve *ValidationErrors) Covers(path string) bool {
	for _, fe := range ve.Errors {
		if fe.Path == "" || fe.Path == path ||
			strings.HasPrefix(path, fe.Path+".") || strings.HasPrefix(path, fe.Path+"[") {
			return true
		}
	}
	return false
}

// Empty reports whether no violations were recorded.
func (ve *ValidationErrors) Empty() bool {
	return ve == nil || len(ve.Errors) == 0
}

// Err returns ve as an error, or nil when nothing was recorded.
func (ve *ValidationErrors) Err() error {
	if ve.Empty() {
		return nil
	}
	return ve
}

// Paths lists the reported field paths in order.
func (ve *ValidationErrors) Paths() []string {
	out := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		out = append(out, fe.Path)
	}
	return out
}

// JoinPath joins two field paths, keeping index segments attached.
func JoinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	case strings.HasPrefix(path, "["):
		return prefix + path
	default:
		return prefix + "." + path
	}
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
