package resumes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"resume-builder/internal/shared/metrics"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

const (
	msgValidation  = "Validation error"
	msgInvalidData = "Invalid resume data structure"
)

var (
	createSchema = model.CompileSchema(recordSchema(true))
	updateSchema = model.CompileSchema(recordSchema(false))
)

func recordSchema(requireFields bool) map[string]any {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"userId":   map[string]any{"type": []string{"string", "null"}},
			"title":    map[string]any{"type": "string", "minLength": 1},
			"data":     map[string]any{"type": "object"},
			"template": map[string]any{"type": "string", "enum": model.Templates},
		},
	}
	if requireFields {
		s["required"] = []string{"title", "data"}
	}
	return s
}

// ValidationError reports every invalid field of a request body.
type ValidationError struct {
	Message string
	Fields  *model.ValidationErrors
}

func (e *ValidationError) Error() string {
	return e.Message + ": " + e.Fields.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Fields
}

// PDFExporter converts a rendered HTML document to PDF bytes.
type PDFExporter interface {
	Export(ctx context.Context, html []byte) ([]byte, error)
}

// Service validates requests at the API boundary and delegates to the Repo.
type Service struct {
	Repo     Repo
	Exporter PDFExporter
}

var idPattern = regexp.MustCompile(`^[1-9][0-9]*$`)

// ParseID parses a path id. Only positive base-10 integers without sign,
// padding or leading zeros are accepted.
func ParseID(raw string) (int64, error) {
	if !idPattern.MatchString(raw) {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

// List returns the owner's resumes; a blank owner means AnonymousOwner.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = AnonymousOwner
	}
	return s.Repo.ListByOwner(ctx, userID)
}

// Get returns a resume by id.
func (s *Service) Get(ctx context.Context, id int64) (Resume, error) {
	return s.Repo.Get(ctx, id)
}

// Create validates a create body and stores the resume.
func (s *Service) Create(ctx context.Context, body []byte) (Resume, error) {
	in, err := ParseCreate(body)
	if err != nil {
		metrics.IncValidationFailed()
		return Resume{}, err
	}
	resume, err := s.Repo.Create(ctx, in)
	if err != nil {
		return Resume{}, err
	}
	metrics.IncResumeCreated()
	return resume, nil
}

// Update validates a partial body and applies it to an existing resume.
func (s *Service) Update(ctx context.Context, id int64, body []byte) (Resume, error) {
	patch, err := ParseUpdate(body)
	if err != nil {
		metrics.IncValidationFailed()
		return Resume{}, err
	}
	resume, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		return Resume{}, err
	}
	metrics.IncResumeUpdated()
	return resume, nil
}

// Delete removes a resume; a missing id yields ErrNotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	metrics.IncResumeDeleted()
	return nil
}

// Render renders the stored resume with its own template, or with
// templateID when non-empty. The decoded document is returned with the HTML.
func (s *Service) Render(ctx context.Context, id int64, templateID string) ([]byte, model.ResumeData, error) {
	resume, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, model.ResumeData{}, err
	}
	if templateID == "" {
		templateID = resume.Template
	}
	if !model.IsTemplate(templateID) {
		fields := &model.ValidationErrors{}
		fields.Add("template", "must be one of: "+strings.Join(model.Templates, ", "))
		return nil, model.ResumeData{}, &ValidationError{Message: msgValidation, Fields: fields}
	}

	data := model.Defaults()
	if err := json.Unmarshal(resume.Data, &data); err != nil {
		return nil, model.ResumeData{}, fmt.Errorf("decode stored resume %d: %w", id, err)
	}
	data.Normalize()

	var buf bytes.Buffer
	if err := render.Render(&buf, templateID, data); err != nil {
		return nil, model.ResumeData{}, fmt.Errorf("render resume %d: %w", id, err)
	}
	return buf.Bytes(), data, nil
}

// ExportPDF renders the resume and converts it to PDF. The returned name is
// the suggested download file name.
func (s *Service) ExportPDF(ctx context.Context, id int64) (string, []byte, error) {
	if s.Exporter == nil {
		return "", nil, ErrExportUnavailable
	}
	html, data, err := s.Render(ctx, id, "")
	if err != nil {
		return "", nil, err
	}

	start := time.Now()
	pdf, err := s.Exporter.Export(ctx, html)
	metrics.ObservePDFExportDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		return "", nil, fmt.Errorf("export resume %d: %w", id, err)
	}
	return render.PDFFileName(data.Personal.FullName), pdf, nil
}

// ParseCreate validates a create body: the record shape and, independently,
// the nested resume data. The union of both error sets is reported.
func ParseCreate(body []byte) (InsertResume, error) {
	fields, errs, ok := parseRecord(createSchema, body)
	if !ok {
		return InsertResume{}, &ValidationError{Message: msgValidation, Fields: errs}
	}

	in := InsertResume{
		UserID:   StringPtr(AnonymousOwner),
		Template: model.DefaultTemplate,
	}
	recordInvalid := !errs.Empty()

	if raw, ok := fields["userId"]; ok && !errs.Covers("userId") {
		in.UserID = decodeOwner(raw)
	}
	if raw, ok := fields["title"]; ok && !errs.Covers("title") {
		_ = json.Unmarshal(raw, &in.Title)
	}
	if raw, ok := fields["template"]; ok && !errs.Covers("template") {
		_ = json.Unmarshal(raw, &in.Template)
	}

	dataInvalid := false
	if raw, ok := fields["data"]; ok && !errs.Covers("data") {
		canonical, err := decodeData(raw)
		if err != nil {
			dataInvalid = true
			mergeFieldErrors(errs, err)
		}
		in.Data = canonical
	}

	if recordInvalid || dataInvalid {
		return InsertResume{}, &ValidationError{Message: failureMessage(recordInvalid), Fields: errs}
	}
	return in, nil
}

// ParseUpdate validates a partial body. Only supplied keys are checked, but a
// supplied data value must be a complete, valid resume.
func ParseUpdate(body []byte) (ResumePatch, error) {
	fields, errs, ok := parseRecord(updateSchema, body)
	if !ok {
		return ResumePatch{}, &ValidationError{Message: msgValidation, Fields: errs}
	}

	var patch ResumePatch
	recordInvalid := !errs.Empty()

	if raw, ok := fields["userId"]; ok && !errs.Covers("userId") {
		patch.SetUserID = true
		patch.UserID = decodeOwner(raw)
	}
	if raw, ok := fields["title"]; ok && !errs.Covers("title") {
		var title string
		_ = json.Unmarshal(raw, &title)
		patch.Title = &title
	}
	if raw, ok := fields["template"]; ok && !errs.Covers("template") {
		var template string
		_ = json.Unmarshal(raw, &template)
		patch.Template = &template
	}

	dataInvalid := false
	if raw, ok := fields["data"]; ok && !errs.Covers("data") {
		canonical, err := decodeData(raw)
		if err != nil {
			dataInvalid = true
			mergeFieldErrors(errs, err)
		}
		patch.Data = canonical
	}

	if recordInvalid || dataInvalid {
		return ResumePatch{}, &ValidationError{Message: failureMessage(recordInvalid), Fields: errs}
	}
	return patch, nil
}

// parseRecord checks the record-level shape. ok is false when the body is not
// a JSON object at all.
func parseRecord(schema *gojsonschema.Schema, body []byte) (map[string]json.RawMessage, *model.ValidationErrors, bool) {
	errs := &model.ValidationErrors{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		errs.Add("", "request body must be a JSON object")
		return nil, errs, false
	}
	if shapeErrs := model.CheckShape(schema, body); shapeErrs != nil {
		errs = shapeErrs
	}
	return fields, errs, true
}

func decodeOwner(raw json.RawMessage) *string {
	var owner *string
	_ = json.Unmarshal(raw, &owner)
	return owner
}

// decodeData validates resume data and returns its canonical encoding, with
// defaults filled in.
func decodeData(raw json.RawMessage) (json.RawMessage, error) {
	data, err := model.Decode(raw)
	if err != nil {
		return nil, err
	}
	canonical, err := model.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode resume data: %w", err)
	}
	return canonical, nil
}

func mergeFieldErrors(dst *model.ValidationErrors, err error) {
	var ve *model.ValidationErrors
	if errors.As(err, &ve) {
		dst.Merge("", ve)
		return
	}
	dst.Add("data", err.Error())
}

func failureMessage(recordInvalid bool) string {
	if recordInvalid {
		return msgValidation
	}
	return msgInvalidData
}
