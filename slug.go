package fig

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength keeps derived filenames well under filesystem limits.
const MaxSlugLength = 200

// untitledSlug is used when a title has no usable characters.
const untitledSlug = "untitled"

// slugWords spells out symbols that carry meaning in titles.
var slugWords = strings.NewReplacer(
	"&", " and ",
	"%", " percent ",
	"$", " dollar ",
	"<", " less ",
	">", " greater ",
	"|", " or ",
)

// Slugify derives a filename stem from a title: accents are folded to ASCII,
// the result is lower-cased, whitespace runs become "_" and every character
// other than letters, digits, "_" and "-" is dropped.
//
//	Slugify("Hello, World!") == "hello_world"
func Slugify(title string) string {
	s := foldAccents(title)
	s = strings.ToLower(slugWords.Replace(s))

	var sb strings.Builder
	sb.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '_':
			pendingSep = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pendingSep = false
			sb.WriteRune(r)
		}
	}

	slug := truncate(sb.String(), MaxSlugLength)
	if slug == "" {
		return untitledSlug
	}
	return slug
}

// foldAccents strips combining marks: "Café" becomes "Cafe".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// truncate cuts s to at most n bytes on a rune boundary, without a trailing "_".
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return strings.TrimRight(s, "_")
}
