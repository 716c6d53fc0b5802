package metadata

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/evanhalley/fig/internal/dateutil"
	"github.com/evanhalley/fig/internal/yamlutil"
)

const delimiter = "---"

// frontmatter is the subset of keys fig reads. Other keys are ignored.
type frontmatter struct {
	Title  string `yaml:"title"`
	Date   any    `yaml:"date"`
	Author string `yaml:"author"`
}

// FromFile reads a Markdown file and extracts its metadata.
func FromFile(path string, now time.Time) (Metadata, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided input file
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	m, err := Parse(content, now)
	if err != nil {
		return Metadata{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse extracts metadata from Markdown content. When the frontmatter has no
// title, the first level-1 heading of the body is used.
func Parse(content []byte, now time.Time) (Metadata, error) {
	block, body, err := splitFrontmatter(content)
	if err != nil {
		return Metadata{}, err
	}

	var fm frontmatter
	if err := yamlutil.Unmarshal(block, &fm); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrMetadataInvalid, err)
	}

	m := Metadata{
		Title:  strings.TrimSpace(fm.Title),
		Date:   dateutil.ResolveDate(dateString(fm.Date), now),
		Author: strings.TrimSpace(fm.Author),
	}
	if m.Title == "" {
		m.Title = firstHeading(body)
	}

	if err := m.Validate(); err != nil {
		return Metadata{}, err
	}
	return m, nil
}

// splitFrontmatter returns the YAML block and the body that follows it.
// The block must open on the first line and close with a line of "---" or "...".
func splitFrontmatter(content []byte) (block, body []byte, err error) {
	content = normalizeLineEndings(content)
	content = bytes.TrimPrefix(content, []byte("\ufeff"))

	if !bytes.HasPrefix(content, []byte(delimiter+"\n")) {
		return nil, nil, ErrNoFrontmatter
	}
	rest := content[len(delimiter)+1:]

	offset := 0
	for offset <= len(rest) {
		end := bytes.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}

		trimmed := strings.TrimRight(string(line), " \t")
		if trimmed == delimiter || trimmed == "..." {
			block = rest[:offset]
			if end < 0 {
				return block, nil, nil
			}
			return block, rest[offset+end+1:], nil
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, nil, fmt.Errorf("%w: missing closing %q", ErrNoFrontmatter, delimiter)
}

// dateString converts a decoded YAML date to the string form dateutil parses.
func dateString(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(d)
	case time.Time:
		if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 {
			return d.Format("2006-01-02")
		}
		return d.Format(time.RFC3339)
	default:
		return fmt.Sprint(d)
	}
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content []byte) []byte {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))
}
