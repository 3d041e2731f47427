package resumes

import (
	"encoding/json"
	"time"
)

// AnonymousOwner is the owner token used when no user id is supplied.
const AnonymousOwner = "anonymous"

// Resume is a persisted resume record. Data holds a ResumeData document and is
// treated as opaque by the repositories.
type Resume struct {
	ID        int64           `json:"id"`
	UserID    *string         `json:"userId"`
	Title     string          `json:"title"`
	Data      json.RawMessage `json:"data"`
	Template  string          `json:"template"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// InsertResume carries the caller-supplied fields of a new record.
type InsertResume struct {
	UserID   *string
	Title    string
	Data     json.RawMessage
	Template string
}

// ResumePatch carries replacement values for an update. Nil fields are left
// untouched; SetUserID distinguishes an explicit null owner from an absent one.
type ResumePatch struct {
	SetUserID bool
	UserID    *string
	Title     *string
	Data      json.RawMessage
	Template  *string
}

// apply replaces every supplied field of r wholesale.
func (p ResumePatch) apply(r Resume) Resume {
	if p.SetUserID {
		r.UserID = cloneString(p.UserID)
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Data != nil {
		r.Data = cloneRaw(p.Data)
	}
	if p.Template != nil {
		r.Template = *p.Template
	}
	return r
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

func cloneResume(r Resume) Resume {
	r.UserID = cloneString(r.UserID)
	r.Data = cloneRaw(r.Data)
	return r
}
