package types

import (
	"fmt"
	"strings"
)

// Tone is the stylistic register requested for the letter.
type Tone string

// Supported tones.
const (
	ToneFormal       Tone = "formal"
	ToneEnthusiastic Tone = "enthusiastic"
	ToneConfident    Tone = "confident"
	ToneHumble       Tone = "humble"
	ToneNarrative    Tone = "narrative"
	ToneDataDriven   Tone = "data-driven"
	ToneCreative     Tone = "creative"
	ToneConcise      Tone = "concise"
)

// DefaultTone is used when the user leaves the tone prompt empty.
const DefaultTone = ToneFormal

// Tones returns the closed set of supported tones in canonical order.
func Tones() []Tone {
	return []Tone{
		ToneFormal,
		ToneEnthusiastic,
		ToneConfident,
		ToneHumble,
		ToneNarrative,
		ToneDataDriven,
		ToneCreative,
		ToneConcise,
	}
}

// ToneNames returns the tone set as plain strings.
func ToneNames() []string {
	tones := Tones()
	names := make([]string, len(tones))
	for i, t := range tones {
		names[i] = string(t)
	}
	return names
}

// Valid reports whether t is a member of the closed tone set.
func (t Tone) Valid() bool {
	for _, known := range Tones() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTone trims s and checks it against the tone set. Matching is
// case-sensitive: "Formal" is not a tone.
func ParseTone(s string) (Tone, error) {
	t := Tone(strings.TrimSpace(s))
	if !t.Valid() {
		return "", &ConfigError{
			Field:   "tone",
			Message: fmt.Sprintf("%q must be one of: %s", s, strings.Join(ToneNames(), ", ")),
		}
	}
	return t, nil
}
