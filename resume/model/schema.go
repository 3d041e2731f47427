package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// The structural schemas only describe types and presence. Content rules
// (formats, enums, ranges) live in the validator tags so typed values and wire
// values are checked by the same code.

var (
	fullDataSchema    = mustSchema(resumeDataSchema(true))
	partialDataSchema = mustSchema(resumeDataSchema(false))
)

func stringProp() map[string]any {
	return map[string]any{"type": "string"}
}

func objectSchema(required []string, props map[string]any) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func arrayOf(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

func resumeDataSchema(requireSections bool) map[string]any {
	personal := objectSchema([]string{"fullName", "email"}, map[string]any{
		"fullName": stringProp(),
		"title":    stringProp(),
		"email":    stringProp(),
		"phone":    stringProp(),
		"location": stringProp(),
		"linkedin": stringProp(),
		"website":  stringProp(),
		"summary":  stringProp(),
	})
	experience := objectSchema([]string{"id", "jobTitle", "company", "startDate"}, map[string]any{
		"id":          stringProp(),
		"jobTitle":    stringProp(),
		"company":     stringProp(),
		"location":    stringProp(),
		"startDate":   stringProp(),
		"endDate":     stringProp(),
		"current":     map[string]any{"type": "boolean"},
		"description": stringProp(),
	})
	education := objectSchema([]string{"id", "degree", "institution"}, map[string]any{
		"id":             stringProp(),
		"degree":         stringProp(),
		"institution":    stringProp(),
		"location":       stringProp(),
		"graduationYear": stringProp(),
		"gpa":            stringProp(),
	})
	skillCategory := objectSchema([]string{"id", "name", "skills"}, map[string]any{
		"id":     stringProp(),
		"name":   stringProp(),
		"skills": arrayOf(stringProp()),
	})
	customization := objectSchema(nil, map[string]any{
		"colorScheme": stringProp(),
		"fontFamily":  stringProp(),
		"spacing":     map[string]any{"type": "integer"},
	})

	var required []string
	if requireSections {
		required = []string{"personal", "experiences", "education", "skills", "customization"}
	}
	return objectSchema(required, map[string]any{
		"personal":      personal,
		"experiences":   arrayOf(experience),
		"education":     arrayOf(education),
		"skills":        arrayOf(skillCategory),
		"customization": customization,
	})
}

func mustSchema(doc map[string]any) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return s
}

// CheckShape validates raw JSON against a structural schema and returns every
// mismatch with dotted/indexed paths. A nil result means the shape is valid.
func CheckShape(schema *gojsonschema.Schema, raw []byte) *ValidationErrors {
	errs := &ValidationErrors{}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		errs.Add("", "must be a valid JSON document")
		return errs
	}
	if result.Valid() {
		return nil
	}
	for _, re := range result.Errors() {
		path := schemaPath(re.Field())
		if re.Type() == "required" {
			if prop, ok := re.Details()["property"].(string); ok && path != prop && !strings.HasSuffix(path, "."+prop) {
				path = JoinPath(path, prop)
			}
		}
		errs.Add(path, shapeMessage(re))
	}
	return errs
}

// CompileSchema compiles a schema document built from Go maps.
func CompileSchema(doc map[string]any) *gojsonschema.Schema {
	return mustSchema(doc)
}

func shapeMessage(re gojsonschema.ResultError) string {
	details := re.Details()
	switch re.Type() {
	case "required":
		return "is required"
	case "invalid_type":
		return fmt.Sprintf("must be of type %v", details["expected"])
	case "enum":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fmt.Sprint(details["allowed"]), `"`, ""))
	case "string_gte":
		return "must not be empty"
	default:
		return re.Description()
	}
}

// schemaPath converts gojsonschema contexts such as "experiences.2.jobTitle"
// into "experiences[2].jobTitle".
func schemaPath(field string) string {
	if field == "(root)" || field == "" {
		return ""
	}
	field = strings.TrimPrefix(field, "(root).")
	var sb strings.Builder
	for i, seg := range strings.Split(field, ".") {
		if _, err := strconv.Atoi(seg); err == nil {
			sb.WriteString("[" + seg + "]")
			continue
		}
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(seg)
	}
	return sb.String()
}
