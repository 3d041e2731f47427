package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"resume-builder/internal/shared/util"
	"resume-builder/resume/model"
)

// ErrUnknownTemplate is returned for template ids outside model.Templates.
var ErrUnknownTemplate = errors.New("unknown template")

//go:embed templates/*.html
var templateFS embed.FS

var templates = mustParseTemplates()

func mustParseTemplates() map[string]*template.Template {
	out := make(map[string]*template.Template, len(model.Templates))
	for _, id := range model.Templates {
		out[id] = template.Must(template.New("layout.html").
			Funcs(template.FuncMap{"join": strings.Join}).
			ParseFS(templateFS, "templates/layout.html", "templates/"+id+".html"))
	}
	return out
}

// Render writes the resume as a standalone HTML document using the named
// template. The input is not modified.
func Render(w io.Writer, templateID string, data model.ResumeData) error {
	tpl, ok := templates[templateID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}
	v := newView(templateID, data)
	if err := tpl.Execute(w, v); err != nil {
		return fmt.Errorf("execute %s template: %w", templateID, err)
	}
	return nil
}

// PDFFileName returns the download name for an exported resume.
func PDFFileName(fullName string) string {
	return util.SanitizeFileName(fullName, "Resume") + "_Resume.pdf"
}
