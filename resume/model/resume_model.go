package model

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Template identifiers understood by the renderers.
const (
	TemplateModern   = "modern"
	TemplateClassic  = "classic"
	TemplateCreative = "creative"
	TemplateMinimal  = "minimal"

	DefaultTemplate = TemplateModern
)

// Templates lists the accepted template identifiers in display order.
var Templates = []string{TemplateModern, TemplateClassic, TemplateCreative, TemplateMinimal}

// Customization option sets.
var (
	ColorSchemes = []string{"primary", "secondary", "accent", "success", "dark"}
	FontFamilies = []string{"inter", "poppins", "roboto", "opensans"}
)

const (
	DefaultColorScheme = "primary"
	DefaultFontFamily  = "inter"
	DefaultSpacing     = 2

	// PresentLabel replaces the end date of an ongoing position.
	PresentLabel = "Present"
)

var resumeDatePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ResumeData is the complete document rendered by templates.
//
// Every top-level key is replaced wholesale by Apply; the sections are never
// merged field by field.
type ResumeData struct {
	Personal      PersonalInfo    `json:"personal"`
	Experiences   []Experience    `json:"experiences"`
	Education     []Education     `json:"education"`
	Skills        []SkillCategory `json:"skills"`
	Customization Customization   `json:"customization"`
}

// PersonalInfo is the singleton contact block of a resume.
type PersonalInfo struct {
	FullName string `json:"fullName" validate:"required"`
	Title    string `json:"title"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin" validate:"omitempty,url"`
	Website  string `json:"website" validate:"omitempty,url"`
	Summary  string `json:"summary"`
}

// Experience represents a work history entry. Order within ResumeData is display order.
type Experience struct {
	ID          string `json:"id" validate:"required"`
	JobTitle    string `json:"jobTitle" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate" validate:"required,yearmonth"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EffectiveEndDate returns PresentLabel for ongoing positions and the stored end date otherwise.
func (e Experience) EffectiveEndDate() string {
	if e.Current {
		return PresentLabel
	}
	return e.EndDate
}

// Bullets splits the description into its non-blank lines.
func (e Experience) Bullets() []string {
	return Bullets(e.Description)
}

// Education represents an education entry, kept in insertion order.
type Education struct {
	ID             string `json:"id" validate:"required"`
	Degree         string `json:"degree" validate:"required"`
	Institution    string `json:"institution" validate:"required"`
	Location       string `json:"location"`
	GraduationYear string `json:"graduationYear"`
	GPA            string `json:"gpa"`
}

// SkillCategory groups skills under a heading.
type SkillCategory struct {
	ID     string   `json:"id" validate:"required"`
	Name   string   `json:"name" validate:"required"`
	Skills []string `json:"skills"`
}

// Customization controls the visual variant of a template.
type Customization struct {
	ColorScheme string `json:"colorScheme" validate:"oneof=primary secondary accent success dark"`
	FontFamily  string `json:"fontFamily" validate:"oneof=inter poppins roboto opensans"`
	Spacing     int    `json:"spacing" validate:"min=1,max=3"`
}

// DefaultCustomization returns the customization used for new resumes.
func DefaultCustomization() Customization {
	return Customization{
		ColorScheme: DefaultColorScheme,
		FontFamily:  DefaultFontFamily,
		Spacing:     DefaultSpacing,
	}
}

// Defaults returns an empty working copy. It is not valid until the required
// personal fields are filled in.
func Defaults() ResumeData {
	return ResumeData{
		Experiences:   []Experience{},
		Education:     []Education{},
		Skills:        []SkillCategory{},
		Customization: DefaultCustomization(),
	}
}

// Patch carries replacement values for top-level ResumeData keys.
// A nil field leaves the key untouched; a non-nil empty slice clears the section.
type Patch struct {
	Personal      *PersonalInfo   `json:"personal,omitempty"`
	Experiences   []Experience    `json:"experiences,omitempty"`
	Education     []Education     `json:"education,omitempty"`
	Skills        []SkillCategory `json:"skills,omitempty"`
	Customization *Customization  `json:"customization,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Personal == nil && p.Experiences == nil && p.Education == nil &&
		p.Skills == nil && p.Customization == nil
}

func (p Patch) keys() map[string]bool {
	return map[string]bool{
		KeyPersonal:      p.Personal != nil,
		KeyExperiences:   p.Experiences != nil,
		KeyEducation:     p.Education != nil,
		KeySkills:        p.Skills != nil,
		KeyCustomization: p.Customization != nil,
	}
}

// Apply returns a copy of d with every key present in p replaced wholesale.
func (d ResumeData) Apply(p Patch) ResumeData {
	out := d.Clone()
	if p.Personal != nil {
		out.Personal = *p.Personal
	}
	if p.Experiences != nil {
		out.Experiences = cloneExperiences(p.Experiences)
	}
	if p.Education != nil {
		out.Education = append([]Education{}, p.Education...)
	}
	if p.Skills != nil {
		out.Skills = cloneSkills(p.Skills)
	}
	if p.Customization != nil {
		out.Customization = *p.Customization
	}
	return out
}

// Clone returns a deep copy that shares no slices with d.
func (d ResumeData) Clone() ResumeData {
	out := d
	out.Experiences = cloneExperiences(d.Experiences)
	out.Education = append([]Education{}, d.Education...)
	out.Skills = cloneSkills(d.Skills)
	return out
}

// Normalize replaces nil sections with empty ones so the value serializes as arrays.
func (d *ResumeData) Normalize() {
	if d.Experiences == nil {
		d.Experiences = []Experience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []SkillCategory{}
	}
	for i := range d.Skills {
		if d.Skills[i].Skills == nil {
			d.Skills[i].Skills = []string{}
		}
	}
}

// NewItemID returns a fresh identifier for an experience, education or skill category entry.
func NewItemID() string {
	return uuid.NewString()
}

// MoveExperience swaps the entry at index with its neighbour in the given
// direction (-1 up, +1 down). Moves past either end return the input unchanged.
func MoveExperience(experiences []Experience, index, direction int) []Experience {
	out := cloneExperiences(experiences)
	target := index + direction
	if direction != -1 && direction != 1 {
		return out
	}
	if index < 0 || index >= len(out) || target < 0 || target >= len(out) {
		return out
	}
	out[index], out[target] = out[target], out[index]
	return out
}

// AddSkill appends skill to the category, trimming surrounding whitespace.
// Duplicates are detected case-sensitively.
func AddSkill(category SkillCategory, skill string) (SkillCategory, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return category, ErrEmptySkill
	}
	for _, existing := range category.Skills {
		if existing == skill {
			return category, ErrDuplicateSkill
		}
	}
	out := category
	out.Skills = append(append([]string{}, category.Skills...), skill)
	return out, nil
}

// RemoveSkill drops the skill at index; out-of-range indexes are ignored.
func RemoveSkill(category SkillCategory, index int) SkillCategory {
	out := category
	out.Skills = make([]string, 0, len(category.Skills))
	for i, s := range category.Skills {
		if i != index {
			out.Skills = append(out.Skills, s)
		}
	}
	return out
}

// Bullets splits newline-delimited text into trimmed, non-blank lines.
func Bullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "•-* ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// IsTemplate reports whether id names a known template.
func IsTemplate(id string) bool {
	for _, t := range Templates {
		if t == id {
			return true
		}
	}
	return false
}

func cloneExperiences(in []Experience) []Experience {
	if in == nil {
		return []Experience{}
	}
	return append([]Experience{}, in...)
}

func cloneSkills(in []SkillCategory) []SkillCategory {
	out := make([]SkillCategory, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Skills = append([]string{}, c.Skills...)
	}
	return out
}
