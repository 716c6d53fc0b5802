// Package dateutil parses article dates and formats them for feature images.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for date operations.
var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDisplayFormat renders dates as "Jan 2nd".
const DefaultDisplayFormat = "MMM Do"

// isoLayout is the layout "auto" dates resolve to.
const isoLayout = "2006-01-02"

// inputLayouts are tried in order when parsing a date string.
var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	isoLayout,
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
}

// Parse reads a date string using the layouts fig accepts from the command
// line and from frontmatter. Surrounding whitespace is ignored.
func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// ResolveDate turns "auto" (any case) into today's date as YYYY-MM-DD.
// Any other value is returned unchanged.
// The time parameter allows injecting a fixed time for testing.
func ResolveDate(value string, now time.Time) string {
	if strings.EqualFold(strings.TrimSpace(value), "auto") {
		return now.Format(isoLayout)
	}
	return value
}

// dateTokens maps format tokens to renderers.
// Ordered by length descending for greedy matching; "Do" precedes "D".
var dateTokens = []struct {
	token  string
	render func(time.Time) string
}{
	{"YYYY", func(t time.Time) string { return t.Format("2006") }},
	{"MMMM", func(t time.Time) string { return t.Format("January") }},
	{"MMM", func(t time.Time) string { return t.Format("Jan") }},
	{"YY", func(t time.Time) string { return t.Format("06") }},
	{"MM", func(t time.Time) string { return t.Format("01") }},
	{"DD", func(t time.Time) string { return t.Format("02") }},
	{"Do", func(t time.Time) string { return Ordinal(t.Day()) }},
	{"M", func(t time.Time) string { return strconv.Itoa(int(t.Month())) }},
	{"D", func(t time.Time) string { return strconv.Itoa(t.Day()) }},
}

// Format renders t with a token format string.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, Do, D.
// Brackets escape literal text: "[Published] MMM Do" keeps "Published".
// Other characters outside brackets are copied as-is.
func Format(t time.Time, format string) (string, error) {
	if err := ValidateFormat(format); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(format[i:], tok.token) {
				b.WriteString(tok.render(t))
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}

	return b.String(), nil
}

// ValidateFormat reports whether format can be used with Format.
func ValidateFormat(format string) error {
	if format == "" {
		return fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	open := -1
	for i := 0; i < len(format); i++ {
		switch format[i] {
		case '[':
			if open >= 0 {
				return fmt.Errorf("%w: nested bracket at position %d", ErrInvalidDateFormat, i)
			}
			open = i
		case ']':
			open = -1
		}
	}
	if open >= 0 {
		return fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, open)
	}
	return nil
}

// Ordinal returns n with its English ordinal suffix: 1st, 2nd, 3rd, 11th, 22nd.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
