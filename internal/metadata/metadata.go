// Package metadata produces the title, date and author of an article, either
// from explicit values or from the YAML frontmatter of a Markdown file.
package metadata

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evanhalley/fig/internal/dateutil"
)

// Sentinel errors. Every error returned by this package wraps ErrMetadataInvalid.
var (
	ErrMetadataInvalid = errors.New("invalid metadata")
	ErrReadMarkdown    = fmt.Errorf("%w: cannot read markdown file", ErrMetadataInvalid)
	ErrNoFrontmatter   = fmt.Errorf("%w: no frontmatter block", ErrMetadataInvalid)
)

// Field length limits.
const (
	MaxTitleLength  = 500
	MaxAuthorLength = 200
)

// Metadata is the record the generator consumes.
type Metadata struct {
	Title  string
	Date   string
	Author string
}

// FromArgs builds Metadata from explicit values. "auto" as date means today.
func FromArgs(title, date, author string, now time.Time) (Metadata, error) {
	m := Metadata{
		Title:  strings.TrimSpace(title),
		Date:   dateutil.ResolveDate(strings.TrimSpace(date), now),
		Author: strings.TrimSpace(author),
	}
	if err := m.Validate(); err != nil {
		return Metadata{}, err
	}
	return m, nil
}

// Validate checks that every field is present and the date parses.
func (m Metadata) Validate() error {
	var missing []string
	if m.Title == "" {
		missing = append(missing, "title")
	}
	if m.Date == "" {
		missing = append(missing, "date")
	}
	if m.Author == "" {
		missing = append(missing, "author")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMetadataInvalid, strings.Join(missing, ", "))
	}

	if len(m.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title too long (%d chars, max %d)", ErrMetadataInvalid, len(m.Title), MaxTitleLength)
	}
	if len(m.Author) > MaxAuthorLength {
		return fmt.Errorf("%w: author too long (%d chars, max %d)", ErrMetadataInvalid, len(m.Author), MaxAuthorLength)
	}
	if _, err := dateutil.Parse(m.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataInvalid, err)
	}
	return nil
}
