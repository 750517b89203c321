// Package frontmatter parses and validates the YAML metadata block that
// precedes a content file's body. Parsing and validation are pure: callers
// receive either a fully validated FrontMatter or a ValidationError, and the
// surrounding build decides what to do with failures.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	adrg "github.com/adrg/frontmatter"
	"github.com/go-playground/validator/v10"
)

// Schema selects which generation of the front-matter contract applies.
// V1 is the historical schema that still carried a free-form description
// field. V2 is current: description was replaced by summary and must not
// appear anymore.
type Schema int

const (
	SchemaV1 Schema = iota + 1
	SchemaV2
)

// CurrentSchema is the schema new content is validated against.
const CurrentSchema = SchemaV2

// Categories is the closed set of accepted category values.
var Categories = []string{"astro", "webpack"}

// FrontMatter is the validated metadata of a single content file.
type FrontMatter struct {
	Title    string
	Date     time.Time
	Updated  time.Time // zero when the post was never revised
	Summary  string
	Tags     []string
	Category string
}

// ValidationError reports a single front-matter field that failed the schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("front matter: field %q %s", e.Field, e.Reason)
}

// doc is the raw YAML shape before date parsing and validation. Dates are
// decoded as strings so unparseable values surface as ValidationError
// instead of a yaml type error.
type doc struct {
	Title       string   `yaml:"title" validate:"required"`
	Date        string   `yaml:"date" validate:"required"`
	Updated     string   `yaml:"updated"`
	Summary     string   `yaml:"summary"`
	Tags        []string `yaml:"tags" validate:"omitempty,dive,required"`
	Category    string   `yaml:"category" validate:"omitempty,category"`
	Description string   `yaml:"description"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("category", validateCategory); err != nil {
		panic("frontmatter: failed to register category validation: " + err.Error())
	}
	return v
}

func validateCategory(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	for _, c := range Categories {
		if val == c {
			return true
		}
	}
	return false
}

// Parse splits raw into front matter and body and validates the metadata
// against the current schema.
func Parse(raw []byte) (FrontMatter, []byte, error) {
	return ParseSchema(raw, CurrentSchema)
}

// ParseSchema is Parse with an explicit schema version, used when validating
// archived content that predates the current contract.
func ParseSchema(raw []byte, schema Schema) (FrontMatter, []byte, error) {
	var d doc
	body, err := adrg.Parse(bytes.NewReader(raw), &d)
	if err != nil {
		return FrontMatter{}, nil, &ValidationError{Field: "front matter", Reason: "invalid YAML: " + err.Error()}
	}
	fm, err := d.validated(schema)
	if err != nil {
		return FrontMatter{}, nil, err
	}
	return fm, body, nil
}

func (d *doc) validated(schema Schema) (FrontMatter, error) {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return FrontMatter{}, fieldError(verrs[0])
		}
		return FrontMatter{}, &ValidationError{Field: "front matter", Reason: err.Error()}
	}
	if strings.TrimSpace(d.Title) == "" {
		return FrontMatter{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if schema >= SchemaV2 && d.Description != "" {
		return FrontMatter{}, &ValidationError{Field: "description", Reason: "is deprecated, use summary instead"}
	}
	date, err := parseDate(d.Date)
	if err != nil {
		return FrontMatter{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a valid date", d.Date)}
	}
	var updated time.Time
	if d.Updated != "" {
		updated, err = parseDate(d.Updated)
		if err != nil {
			return FrontMatter{}, &ValidationError{Field: "updated", Reason: fmt.Sprintf("%q is not a valid date", d.Updated)}
		}
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	summary := d.Summary
	if schema == SchemaV1 && summary == "" {
		summary = d.Description
	}
	return FrontMatter{
		Title:    d.Title,
		Date:     date,
		Updated:  updated,
		Summary:  summary,
		Tags:     tags,
		Category: strings.TrimSpace(d.Category),
	}, nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	field := strings.ToLower(fe.StructField())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Reason: "is required"}
	case "category":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be one of %s", strings.Join(Categories, ", "))}
	default:
		return &ValidationError{Field: field, Reason: "failed " + fe.Tag() + " validation"}
	}
}

// dateLayouts are accepted in order. Content authors write plain calendar
// dates; RFC3339 covers files exported from other tools.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
