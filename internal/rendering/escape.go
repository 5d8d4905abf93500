package rendering

import "strings"

// latexReplacer maps every LaTeX special character to its escaped form.
// Special characters: \ { } $ & % # ^ _ ~
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes special LaTeX characters in text
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	return latexReplacer.Replace(text)
}

// HasUnescaped reports whether text contains one of & % $ # without a
// preceding backslash. Generated letters are expected to escape these.
func HasUnescaped(text string) bool {
	prev := rune(0)
	for _, r := range text {
		switch r {
		case '&', '%', '$', '#':
			if prev != '\\' {
				return true
			}
		}
		prev = r
	}
	return false
}
