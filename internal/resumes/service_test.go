package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"resume-builder/resume/model"
)

const validData = `{
	"personal": {"fullName": "Ada Lovelace", "email": "ada@example.com"},
	"experiences": [{"id": "e1", "jobTitle": "Analyst", "company": "Engines", "startDate": "1842-01", "current": true}],
	"education": [],
	"skills": [],
	"customization": {"colorScheme": "accent"}
}`

type fakeExporter struct {
	html []byte
	err  error
}

func (f *fakeExporter) Export(ctx context.Context, html []byte) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func fieldPaths(t *testing.T, err error) []string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	paths := ve.Fields.Paths()
	sort.Strings(paths)
	return paths
}

func TestParseIDStrict(t *testing.T) {
	for _, raw := range []string{"abc", "12abc", "0", "-3", "", "1.5", "+5", " 5", "5 ", "007", "99999999999999999999"} {
		if _, err := ParseID(raw); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("ParseID(%q): expected ErrInvalidID, got %v", raw, err)
		}
	}
	if id, err := ParseID("42"); err != nil || id != 42 {
		t.Fatalf("ParseID(42) = %d, %v", id, err)
	}
}

func TestParseCreateDefaults(t *testing.T) {
	in, err := ParseCreate([]byte(`{"title": "Mine", "data": ` + validData + `}`))
	if err != nil {
		t.Fatalf("ParseCreate: %v", err)
	}
	if in.UserID == nil || *in.UserID != AnonymousOwner {
		t.Fatalf("expected anonymous owner, got %v", in.UserID)
	}
	if in.Template != model.DefaultTemplate {
		t.Fatalf("expected default template, got %q", in.Template)
	}

	var data model.ResumeData
	if err := json.Unmarshal(in.Data, &data); err != nil {
		t.Fatalf("stored data is not JSON: %v", err)
	}
	if data.Customization.FontFamily != model.DefaultFontFamily || data.Customization.ColorScheme != "accent" {
		t.Fatalf("expected canonical customization, got %+v", data.Customization)
	}
}

func TestParseCreateExplicitNullOwner(t *testing.T) {
	in, err := ParseCreate([]byte(`{"userId": null, "title": "Mine", "template": "minimal", "data": ` + validData + `}`))
	if err != nil {
		t.Fatalf("ParseCreate: %v", err)
	}
	if in.UserID != nil {
		t.Fatalf("expected nil owner, got %q", *in.UserID)
	}
	if in.Template != "minimal" {
		t.Fatalf("expected minimal, got %q", in.Template)
	}
}

func TestParseCreateReportsRecordAndDataErrors(t *testing.T) {
	body := `{"template": "fancy", "data": {
		"personal": {"fullName": "", "email": "nope"},
		"experiences": [], "education": [], "skills": [], "customization": {}
	}}`
	_, err := ParseCreate([]byte(body))
	got := fieldPaths(t, err)
	want := []string{"personal.email", "personal.fullName", "template", "title"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
	var ve *ValidationError
	errors.As(err, &ve)
	if ve.Message != msgValidation {
		t.Fatalf("expected %q, got %q", msgValidation, ve.Message)
	}
}

func TestParseCreateDataOnlyMessage(t *testing.T) {
	_, err := ParseCreate([]byte(`{"title": "t", "data": {"personal": {}}}`))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Message != msgInvalidData {
		t.Fatalf("expected %q, got %q", msgInvalidData, ve.Message)
	}
}

func TestParseCreateRejectsNonObjects(t *testing.T) {
	for _, body := range []string{``, `[]`, `"x"`, `null`, `{"title":`} {
		if _, err := ParseCreate([]byte(body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
	_, err := ParseCreate([]byte(`{"title": "", "data": []}`))
	got := fieldPaths(t, err)
	if strings.Join(got, ",") != "data,title" {
		t.Fatalf("unexpected paths %v", got)
	}
}

func TestParseUpdateOnlySuppliedKeys(t *testing.T) {
	patch, err := ParseUpdate([]byte(`{"title": "New"}`))
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}
	if patch.Title == nil || *patch.Title != "New" || patch.Data != nil || patch.Template != nil || patch.SetUserID {
		t.Fatalf("unexpected patch: %+v", patch)
	}

	patch, err = ParseUpdate([]byte(`{"userId": null}`))
	if err != nil || !patch.SetUserID || patch.UserID != nil {
		t.Fatalf("expected explicit null owner patch, got %+v %v", patch, err)
	}

	_, err = ParseUpdate([]byte(`{"data": {"personal": {"fullName": "A", "email": "a@b.co"}}}`))
	got := fieldPaths(t, err)
	if strings.Join(got, ",") != "customization,education,experiences,skills" {
		t.Fatalf("partial data must be rejected, got %v", got)
	}
}

func TestServiceDeleteMissing(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	if err := svc.Delete(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceListDefaultsToAnonymous(t *testing.T) {
	ctx := context.Background()
	svc := &Service{Repo: NewMemoryRepo()}
	if _, err := svc.Create(ctx, []byte(`{"title": "Mine", "data": `+validData+`}`)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	list, err := svc.List(ctx, " ")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one anonymous resume, got %v %v", list, err)
	}
}

func TestServiceRender(t *testing.T) {
	ctx := context.Background()
	svc := &Service{Repo: NewMemoryRepo()}
	created, err := svc.Create(ctx, []byte(`{"title": "Mine", "template": "classic", "data": `+validData+`}`))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	html, data, err := svc.Render(ctx, created.ID, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if data.Personal.FullName != "Ada Lovelace" {
		t.Fatalf("expected decoded data, got %+v", data.Personal)
	}
	if !strings.Contains(string(html), "resume-classic") || !strings.Contains(string(html), "1842-01 - Present") {
		t.Fatalf("unexpected html: %s", html)
	}

	html, _, err = svc.Render(ctx, created.ID, "creative")
	if err != nil || !strings.Contains(string(html), "resume-creative") {
		t.Fatalf("expected template override, got %v", err)
	}

	if _, _, err := svc.Render(ctx, created.ID, "retro"); fieldPaths(t, err)[0] != "template" {
		t.Fatalf("expected template validation error")
	}
	if _, _, err := svc.Render(ctx, 99, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceExportPDF(t *testing.T) {
	ctx := context.Background()
	exporter := &fakeExporter{}
	svc := &Service{Repo: NewMemoryRepo(), Exporter: exporter}
	created, _ := svc.Create(ctx, []byte(`{"title": "Mine", "data": `+validData+`}`))

	name, pdf, err := svc.ExportPDF(ctx, created.ID)
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	if name != "Ada Lovelace_Resume.pdf" {
		t.Fatalf("unexpected file name %q", name)
	}
	if string(pdf) != "%PDF-1.4 fake" || !strings.Contains(string(exporter.html), "Ada Lovelace") {
		t.Fatalf("exporter not called with rendered html")
	}

	exporter.err = errors.New("chrome crashed")
	if _, _, err := svc.ExportPDF(ctx, created.ID); !errors.Is(err, exporter.err) {
		t.Fatalf("expected exporter error to surface, got %v", err)
	}

	noExport := &Service{Repo: svc.Repo}
	if _, _, err := noExport.ExportPDF(ctx, created.ID); !errors.Is(err, ErrExportUnavailable) {
		t.Fatalf("expected ErrExportUnavailable, got %v", err)
	}
}

func TestServiceExportPDFRejectsCorruptStoredData(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	stored, err := repo.Create(ctx, InsertResume{
		Title:    "Broken",
		Data:     []byte(`{"personal": 5}`),
		Template: model.DefaultTemplate,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	exporter := &fakeExporter{}
	svc := &Service{Repo: repo, Exporter: exporter}
	if _, _, err := svc.ExportPDF(ctx, stored.ID); err == nil {
		t.Fatalf("expected decode error for corrupt stored data")
	}
	if exporter.html != nil {
		t.Fatalf("exporter must not run on undecodable data")
	}
}
