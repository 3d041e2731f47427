package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Top-level ResumeData keys.
const (
	KeyPersonal      = "personal"
	KeyExperiences   = "experiences"
	KeyEducation     = "education"
	KeySkills        = "skills"
	KeyCustomization = "customization"
)

var sectionKeys = []string{KeyPersonal, KeyExperiences, KeyEducation, KeySkills, KeyCustomization}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		return resumeDatePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	v.RegisterStructValidation(experienceStructLevel, Experience{})
	v.RegisterStructValidation(skillCategoryStructLevel, SkillCategory{})
	return v
}

// endDate only matters for positions that have ended.
func experienceStructLevel(sl validator.StructLevel) {
	exp := sl.Current().Interface().(Experience)
	if exp.Current || exp.EndDate == "" {
		return
	}
	if !resumeDatePattern.MatchString(exp.EndDate) {
		sl.ReportError(exp.EndDate, "endDate", "EndDate", "yearmonth", "")
	}
}

// Every blank skill and every repeat of an earlier skill is reported at its
// own index. Matching is case-sensitive.
func skillCategoryStructLevel(sl validator.StructLevel) {
	cat := sl.Current().Interface().(SkillCategory)
	seen := make(map[string]struct{}, len(cat.Skills))
	for i, skill := range cat.Skills {
		name := fmt.Sprintf("skills[%d]", i)
		if strings.TrimSpace(skill) == "" {
			sl.ReportError(skill, name, fmt.Sprintf("Skills[%d]", i), "required", "")
			continue
		}
		if _, dup := seen[skill]; dup {
			sl.ReportError(skill, name, fmt.Sprintf("Skills[%d]", i), "unique", "")
			continue
		}
		seen[skill] = struct{}{}
	}
}

// Validate checks every content rule of a typed value and reports all
// violations at once.
func Validate(d ResumeData) error {
	errs := &ValidationErrors{}
	for _, key := range sectionKeys {
		validateSection(errs, key, d)
	}
	return errs.Err()
}

// Decode performs full validation of a wire value. Missing customization
// fields take their defaults.
func Decode(raw []byte) (ResumeData, error) {
	errs := CheckShape(fullDataSchema, raw)
	if errs == nil {
		errs = &ValidationErrors{}
	}

	d := ResumeData{Customization: DefaultCustomization()}
	if err := json.Unmarshal(raw, &d); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			errs.Add("", "must be a JSON object")
			return ResumeData{}, errs
		}
	}
	d.Normalize()

	content := &ValidationErrors{}
	for _, key := range sectionKeys {
		validateSection(content, key, d)
	}
	mergeUncovered(errs, content)

	if err := errs.Err(); err != nil {
		return ResumeData{}, err
	}
	return d, nil
}

// DecodePatch performs partial validation: only keys present in raw are
// checked, each of them completely.
func DecodePatch(raw []byte) (Patch, error) {
	errs := CheckShape(partialDataSchema, raw)
	if errs == nil {
		errs = &ValidationErrors{}
	}

	p, present, err := decodePatch(raw)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			errs.Add("", "must be a JSON object")
			return Patch{}, errs
		}
	}

	mergeUncovered(errs, validatePresent(p, present))

	if err := errs.Err(); err != nil {
		return Patch{}, err
	}
	return p, nil
}

// ValidatePatch applies the partial content rules of DecodePatch to a typed
// patch: every key it sets is checked completely, absent keys are skipped.
func ValidatePatch(p Patch) error {
	return validatePresent(p, p.keys()).Err()
}

func validatePresent(p Patch, present map[string]bool) *ValidationErrors {
	d := Defaults().Apply(p)
	content := &ValidationErrors{}
	for _, key := range sectionKeys {
		if present[key] {
			validateSection(content, key, d)
		}
	}
	return content
}

// ParseSnapshot decodes a locally persisted working copy without checking
// content rules; a half-filled form is a legitimate snapshot. Unknown keys are
// ignored. Any type mismatch is reported as an error.
func ParseSnapshot(raw []byte) (Patch, error) {
	p, _, err := decodePatch(raw)
	if err != nil {
		return Patch{}, err
	}
	return p, nil
}

// Marshal encodes d with empty sections serialized as arrays.
func Marshal(d ResumeData) ([]byte, error) {
	d.Normalize()
	return json.Marshal(d)
}

func decodePatch(raw []byte) (Patch, map[string]bool, error) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&fields); err != nil {
		return Patch{}, nil, fmt.Errorf("decode patch: %w", err)
	}
	if fields == nil {
		return Patch{}, nil, fmt.Errorf("decode patch: not an object")
	}

	var p Patch
	present := make(map[string]bool, len(fields))
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for key, value := range fields {
		if isNull(value) {
			continue
		}
		switch key {
		case KeyPersonal:
			var v PersonalInfo
			keep(json.Unmarshal(value, &v))
			p.Personal = &v
		case KeyExperiences:
			v := []Experience{}
			keep(json.Unmarshal(value, &v))
			p.Experiences = v
		case KeyEducation:
			v := []Education{}
			keep(json.Unmarshal(value, &v))
			p.Education = v
		case KeySkills:
			v := []SkillCategory{}
			keep(json.Unmarshal(value, &v))
			for i := range v {
				if v[i].Skills == nil {
					v[i].Skills = []string{}
				}
			}
			p.Skills = v
		case KeyCustomization:
			v := DefaultCustomization()
			keep(json.Unmarshal(value, &v))
			p.Customization = &v
		default:
			continue
		}
		present[key] = true
	}
	return p, present, firstErr
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// mergeUncovered adds content errors unless a structural error already
// explains the same field or one of its parents.
func mergeUncovered(dst, content *ValidationErrors) {
	structural := &ValidationErrors{Errors: append([]FieldError{}, dst.Errors...)}
	for _, fe := range content.Errors {
		if structural.Covers(fe.Path) {
			continue
		}
		dst.Add(fe.Path, fe.Message)
	}
}

func validateSection(errs *ValidationErrors, key string, d ResumeData) {
	switch key {
	case KeyPersonal:
		collect(errs, KeyPersonal, validate.Struct(d.Personal))
	case KeyExperiences:
		ids := make(map[string]int, len(d.Experiences))
		for i, exp := range d.Experiences {
			prefix := fmt.Sprintf("%s[%d]", KeyExperiences, i)
			collect(errs, prefix, validate.Struct(exp))
			checkUniqueID(errs, ids, prefix, exp.ID)
		}
	case KeyEducation:
		ids := make(map[string]int, len(d.Education))
		for i, edu := range d.Education {
			prefix := fmt.Sprintf("%s[%d]", KeyEducation, i)
			collect(errs, prefix, validate.Struct(edu))
			checkUniqueID(errs, ids, prefix, edu.ID)
		}
	case KeySkills:
		ids := make(map[string]int, len(d.Skills))
		for i, cat := range d.Skills {
			prefix := fmt.Sprintf("%s[%d]", KeySkills, i)
			collect(errs, prefix, validate.Struct(cat))
			checkUniqueID(errs, ids, prefix, cat.ID)
		}
	case KeyCustomization:
		collect(errs, KeyCustomization, validate.Struct(d.Customization))
	}
}

func checkUniqueID(errs *ValidationErrors, seen map[string]int, prefix, id string) {
	if id == "" {
		return
	}
	if _, dup := seen[id]; dup {
		errs.Add(JoinPath(prefix, "id"), "must be unique within its section")
		return
	}
	seen[id] = 1
}

func collect(errs *ValidationErrors, prefix string, err error) {
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add(prefix, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		ns := fe.Namespace()
		// Drop the struct type name that validator puts first.
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		errs.Add(JoinPath(prefix, ns), fieldMessage(fe))
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be an absolute URL or empty"
	case "yearmonth":
		return "must use the YYYY-MM format"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "unique":
		return "duplicates an earlier entry"
	default:
		return "is invalid"
	}
}
