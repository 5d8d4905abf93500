package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/cover-letter-bot/internal/types"
)

// CoverLetterFile holds the cover letter prompt text.
const CoverLetterFile = "cover_letter.json"

// CoverLetterRequest is everything the cover letter prompt is built from.
type CoverLetterRequest struct {
	JobText string
	CVText  string
	// ExemplarText is the optional style/format reference. Empty means none.
	ExemplarText string
	// Tone is the raw user answer; it is validated here.
	Tone  string
	Focus string
	Limit types.LengthLimit
}

// Validate checks the tone, then the focus, without composing anything.
func Validate(req CoverLetterRequest) error {
	_, _, err := validate(req)
	return err
}

func validate(req CoverLetterRequest) (types.Tone, string, error) {
	tone, err := types.ParseTone(req.Tone)
	if err != nil {
		return "", "", err
	}

	focus := strings.TrimSpace(req.Focus)
	if focus != "" && !strings.Contains(req.CVText, focus) {
		return "", "", &types.ConfigError{
			Field:   "focus",
			Message: fmt.Sprintf("%q must be a section of the CV", focus),
		}
	}
	return tone, focus, nil
}

// BuildCoverLetter validates the tone and focus, then composes the prompt.
// The result depends only on req.
func BuildCoverLetter(req CoverLetterRequest) (string, error) {
	tone, focus, err := validate(req)
	if err != nil {
		return "", err
	}

	reference := ""
	exemplarBound := ""
	if req.ExemplarText != "" {
		reference = Format(MustGet(CoverLetterFile, "reference-section"), map[string]string{
			"Exemplar": req.ExemplarText,
		})
		exemplarBound = MustGet(CoverLetterFile, "exemplar-bound")
	}

	return Format(MustGet(CoverLetterFile, "cover-letter"), map[string]string{
		"CV":            req.CVText,
		"JobListing":    req.JobText,
		"Reference":     reference,
		"Tone":          string(tone),
		"Focus":         focusDirective(focus),
		"Limit":         limitDirective(req.Limit),
		"ExemplarBound": exemplarBound,
	}), nil
}

func focusDirective(focus string) string {
	if focus == "" {
		return MustGet(CoverLetterFile, "focus-none")
	}
	return Format(MustGet(CoverLetterFile, "focus"), map[string]string{"Focus": focus})
}

func limitDirective(limit types.LengthLimit) string {
	if !limit.Bounded {
		return MustGet(CoverLetterFile, "limit-none")
	}
	return Format(MustGet(CoverLetterFile, "limit"), map[string]string{"Words": strconv.Itoa(limit.Words)})
}
