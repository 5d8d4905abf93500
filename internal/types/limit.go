package types

import (
	"fmt"
	"strconv"
	"strings"
)

// LengthLimit caps the letter length in words. The zero value is unbounded.
type LengthLimit struct {
	Words   int
	Bounded bool
}

// Unbounded returns a limit that places no cap on the letter.
func Unbounded() LengthLimit {
	return LengthLimit{}
}

// WordLimit returns a limit of n words.
func WordLimit(n int) LengthLimit {
	return LengthLimit{Words: n, Bounded: true}
}

// ParseLengthLimit accepts an empty string or "None" as unbounded,
// otherwise a positive integer word count.
func ParseLengthLimit(s string) (LengthLimit, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return Unbounded(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return LengthLimit{}, &ConfigError{
			Field:   "length limit",
			Message: fmt.Sprintf("%q is not a whole number of words", s),
			Cause:   err,
		}
	}
	if n <= 0 {
		return LengthLimit{}, &ConfigError{
			Field:   "length limit",
			Message: fmt.Sprintf("%d must be positive", n),
		}
	}
	return WordLimit(n), nil
}

func (l LengthLimit) String() string {
	if !l.Bounded {
		return "unbounded"
	}
	return strconv.Itoa(l.Words) + " words"
}
