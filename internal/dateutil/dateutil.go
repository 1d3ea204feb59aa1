// Package dateutil expands the "auto" date tokens accepted in a memo's
// meta.date field.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is the memo cover style, e.g. "12 January 2026".
const DefaultDateFormat = "D MMMM YYYY"

// autoKeyword prefixes every generated date value.
const autoKeyword = "auto"

// dateTokens maps memo format tokens to Go layout components.
// Longer tokens come first so matching is greedy.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets names the formats seen on finance memos.
var DatePresets = map[string]string{
	"memo":     DefaultDateFormat,
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"month":    "MMMM YYYY",
}

// IsAuto reports whether value asks for a generated date.
func IsAuto(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower == autoKeyword || strings.HasPrefix(lower, autoKeyword+":")
}

// ParseDateFormat converts a memo format string to a Go time layout.
// Tokens: dddd, ddd, YYYY, YY, MMMM, MMM, MM, M, DD, D.
// Text inside brackets is copied literally, so "[Week of] D MMM" keeps
// "Week of". Other characters pass through unchanged.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	layout.Grow(len(format) + 10)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			layout.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		n := matchToken(format[i:], &layout)
		if n == 0 {
			layout.WriteByte(format[i])
			n = 1
		}
		i += n
	}

	return layout.String(), nil
}

func matchToken(s string, layout *strings.Builder) int {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			layout.WriteString(t.goFmt)
			return len(t.token)
		}
	}
	return 0
}

// ResolveDate expands a memo date value against t:
//   - "auto" gives t in DefaultDateFormat
//   - "auto:FORMAT" gives t in FORMAT, or in a named preset
//   - anything else is returned unchanged
//
// Matching of the keyword and of preset names ignores case; format tokens
// do not.
func ResolveDate(value string, t time.Time) (string, error) {
	if !strings.HasPrefix(strings.ToLower(value), autoKeyword) {
		return value, nil
	}

	rest := value[len(autoKeyword):]
	if rest == "" {
		return format(t, DefaultDateFormat)
	}
	if rest[0] != ':' {
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	spec := rest[1:]
	if spec == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	if preset, ok := DatePresets[strings.ToLower(spec)]; ok {
		spec = preset
	}
	return format(t, spec)
}

func format(t time.Time, spec string) (string, error) {
	layout, err := ParseDateFormat(spec)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
