package types

import (
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SourceExt is the typesetting source extension stripped from output names.
const SourceExt = ".tex"

// DefaultOutputName is used when the user leaves the output name prompt empty.
const DefaultOutputName = "cover_letter.tex"

// Preferences is the record gathered from the user at session start.
// It is built once and never mutated afterwards.
type Preferences struct {
	JobURL       string      `json:"job_url" validate:"required,url"`
	CVPath       string      `json:"cv_path" validate:"required"`
	ExemplarPath string      `json:"exemplar_path,omitempty"`
	Limit        LengthLimit `json:"limit"`
	Tone         string      `json:"tone"`
	Focus        string      `json:"focus,omitempty"`
	OutputName   string      `json:"output_name"`
}

// HasExemplar reports whether a reference letter was selected.
func (p *Preferences) HasExemplar() bool {
	return p.ExemplarPath != ""
}

// BaseName returns the output name with any directory and .tex extension removed.
func (p *Preferences) BaseName() string {
	return BaseName(p.OutputName)
}

// Validate checks the structural fields. Tone and focus are checked by the
// prompt builder since they depend on the CV text.
func (p *Preferences) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return &ConfigError{Field: "preferences", Message: "validation failed", Cause: err}
	}
	return nil
}

// BaseName strips the directory and a trailing .tex (any case) from name.
func BaseName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if strings.EqualFold(filepath.Ext(name), SourceExt) {
		name = name[:len(name)-len(SourceExt)]
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		return strings.TrimSuffix(DefaultOutputName, SourceExt)
	}
	return name
}
