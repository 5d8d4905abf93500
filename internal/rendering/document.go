package rendering

import (
	"strings"
	"text/template"
)

// Placeholder is the body used instead of a generated letter in debug mode.
const Placeholder = "This is a dummy cover letter. [DEBUG MODE]"

// placeholderSource uses << >> delimiters so LaTeX braces need no quoting.
const placeholderSource = `\documentclass[11pt]{letter}
\usepackage[T1]{fontenc}
\usepackage[utf8]{inputenc}
\signature{<<escape .Signature>>}
\begin{document}
\begin{letter}{Hiring Team}
\opening{Dear Hiring Team,}
<<.Body>>

Job listing: \texttt{<<escape .JobURL>>}
\closing{Sincerely,}
\end{letter}
\end{document}
`

var placeholderTemplate = template.Must(template.New("placeholder").
	Delims("<<", ">>").
	Funcs(template.FuncMap{"escape": EscapeLaTeX}).
	Parse(placeholderSource))

// PlaceholderData fills the debug placeholder document.
type PlaceholderData struct {
	Body      string
	JobURL    string
	Signature string
}

// PlaceholderDocument returns a standalone LaTeX letter containing body.
func PlaceholderDocument(data PlaceholderData) (string, error) {
	if data.Body == "" {
		data.Body = Placeholder
	}
	if data.Signature == "" {
		data.Signature = "Candidate"
	}

	var sb strings.Builder
	if err := placeholderTemplate.Execute(&sb, data); err != nil {
		return "", &TemplateError{Message: "failed to execute placeholder template", Cause: err}
	}
	return sb.String(), nil
}

// StripCodeFences removes a markdown code fence wrapped around generated source.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// Drop the opening fence line, which may carry a language tag.
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
