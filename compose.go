package fig

import (
	"cmp"
	"fmt"
	"html"
	"os"
	"slices"
	"strings"

	"github.com/evanhalley/fig/internal/assets"
	"github.com/evanhalley/fig/internal/dateutil"
	"github.com/evanhalley/fig/internal/fileutil"
	"github.com/evanhalley/fig/internal/htmlref"
)

// Compose substitutes title, formatted date and author into template.
// Only the first occurrence of each token is replaced; later occurrences are
// left as they are. Values are HTML-escaped. Positions are found in the raw
// template, so a value that contains a token is inserted literally.
func Compose(template, title, date, author string) string {
	type slot struct {
		at    int
		token string
		value string
	}

	var slots []slot
	for _, s := range []slot{
		{token: TitleToken, value: title},
		{token: AuthorToken, value: author},
		{token: DateToken, value: date},
	} {
		if s.at = strings.Index(template, s.token); s.at >= 0 {
			slots = append(slots, s)
		}
	}
	slices.SortFunc(slots, func(a, b slot) int { return cmp.Compare(a.at, b.at) })

	var b strings.Builder
	b.Grow(len(template))
	last := 0
	for _, s := range slots {
		b.WriteString(template[last:s.at])
		b.WriteString(html.EscapeString(s.value))
		last = s.at + len(s.token)
	}
	b.WriteString(template[last:])
	return b.String()
}

// FormatDate renders date with a dateutil format such as "MMM Do".
// A date that does not parse is returned unchanged.
func FormatDate(date, format string) string {
	t, err := dateutil.Parse(date)
	if err != nil {
		return date
	}
	formatted, err := dateutil.Format(t, format)
	if err != nil {
		return date
	}
	return formatted
}

// composeDocument reads the staged template and writes <slug>.html next to it.
// Relative references other than the staged stylesheet and author image are
// resolved against sourceDir, the directory the template was read from.
func (g *Generator) composeDocument(ws *workspace, templatePath, sourceDir string, req Request, slug string) (string, error) {
	raw, err := os.ReadFile(templatePath) // #nosec G304 -- staged inside the workspace
	if err != nil {
		return "", fmt.Errorf("%w: reading staged template: %v", ErrWorkspaceIO, err)
	}

	doc := Compose(string(raw), req.Title, FormatDate(req.Date, g.cfg.dateFormat), req.Author)
	doc, err = htmlref.Rewrite(doc, sourceDir, assets.StyleFile, assets.AuthorImageFile)
	if err != nil {
		return "", fmt.Errorf("%w: resolving template references: %v", ErrWorkspaceIO, err)
	}

	htmlPath := ws.Path(slug + ".html")
	if err := os.WriteFile(htmlPath, []byte(doc), fileutil.FilePermissions); err != nil {
		return "", fmt.Errorf("%w: writing composed document: %v", ErrWorkspaceIO, err)
	}
	return htmlPath, nil
}
