package render

import (
	"html/template"
	"strings"
	"unicode/utf8"

	"resume-builder/resume/model"
)

const (
	placeholderName  = "Your Name"
	placeholderTitle = "Professional Title"
)

var schemeColors = map[string]string{
	"primary":   "#2563eb",
	"secondary": "#7c3aed",
	"accent":    "#db2777",
	"success":   "#059669",
	"dark":      "#1f2937",
}

var fontStacks = map[string]string{
	"inter":    "'Inter', 'Helvetica Neue', Arial, sans-serif",
	"poppins":  "'Poppins', 'Helvetica Neue', Arial, sans-serif",
	"roboto":   "'Roboto', 'Helvetica Neue', Arial, sans-serif",
	"opensans": "'Open Sans', 'Helvetica Neue', Arial, sans-serif",
}

// Section gaps in rem for spacing 1, 2 and 3.
var sectionGaps = map[string][3]string{
	model.TemplateModern:   {"1rem", "2rem", "3rem"},
	model.TemplateClassic:  {"1rem", "2rem", "3rem"},
	model.TemplateCreative: {"0.75rem", "1.25rem", "2rem"},
	model.TemplateMinimal:  {"1.5rem", "2.5rem", "4rem"},
}

// theme values come from the fixed tables above, so they are trusted CSS.
type theme struct {
	Color template.CSS
	Font  template.CSS
	Gap   template.CSS
}

type experienceView struct {
	JobTitle string
	Company  string
	Location string
	Period   string
	Bullets  []string
}

type educationView struct {
	Degree         string
	Institution    string
	Location       string
	GraduationYear string
	GPA            string
}

type skillView struct {
	Name   string
	Skills []string
}

type view struct {
	Template    string
	Name        string
	Title       string
	Initials    string
	Personal    model.PersonalInfo
	Experiences []experienceView
	Education   []educationView
	Skills      []skillView
	Theme       theme
	Empty       bool
}

func newView(templateID string, data model.ResumeData) view {
	p := data.Personal
	v := view{
		Template: templateID,
		Name:     orDefault(p.FullName, placeholderName),
		Title:    orDefault(p.Title, placeholderTitle),
		Initials: initials(p.FullName),
		Personal: p,
		Theme:    newTheme(templateID, data.Customization),
	}
	for _, exp := range data.Experiences {
		v.Experiences = append(v.Experiences, experienceView{
			JobTitle: exp.JobTitle,
			Company:  exp.Company,
			Location: exp.Location,
			Period:   period(exp),
			Bullets:  exp.Bullets(),
		})
	}
	for _, edu := range data.Education {
		v.Education = append(v.Education, educationView{
			Degree:         edu.Degree,
			Institution:    edu.Institution,
			Location:       edu.Location,
			GraduationYear: edu.GraduationYear,
			GPA:            edu.GPA,
		})
	}
	for _, cat := range data.Skills {
		v.Skills = append(v.Skills, skillView{
			Name:   cat.Name,
			Skills: append([]string(nil), cat.Skills...),
		})
	}
	v.Empty = strings.TrimSpace(p.FullName) == "" &&
		len(v.Experiences) == 0 && len(v.Education) == 0 && len(v.Skills) == 0
	return v
}

func newTheme(templateID string, c model.Customization) theme {
	color, ok := schemeColors[c.ColorScheme]
	if !ok {
		color = schemeColors[model.DefaultColorScheme]
	}
	font, ok := fontStacks[c.FontFamily]
	if !ok {
		font = fontStacks[model.DefaultFontFamily]
	}
	spacing := c.Spacing
	if spacing < 1 || spacing > 3 {
		spacing = model.DefaultSpacing
	}
	return theme{
		Color: template.CSS(color),
		Font:  template.CSS(font),
		Gap:   template.CSS(sectionGaps[templateID][spacing-1]),
	}
}

// period prints "start - end"; an open-ended role reads as Present.
func period(exp model.Experience) string {
	end := exp.EffectiveEndDate()
	if strings.TrimSpace(end) == "" {
		end = model.PresentLabel
	}
	return exp.StartDate + " - " + end
}

func initials(fullName string) string {
	var b strings.Builder
	count := 0
	for _, part := range strings.Fields(fullName) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(r)
		count++
		if count == 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "UN"
	}
	return strings.ToUpper(b.String())
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
