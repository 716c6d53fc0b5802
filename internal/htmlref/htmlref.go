// Package htmlref points relative asset references of a composed template
// back at the directory the template came from.
//
// Templates are rendered from a per-run workspace that only holds the staged
// template, stylesheet and author image. Any other file a template links to
// (fonts, background pictures, extra stylesheets) would not resolve there, so
// those references are rewritten to absolute file:// URLs.
package htmlref

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// refAttrs lists the attributes rewritten per element.
var refAttrs = map[atom.Atom]string{
	atom.Img:    "src",
	atom.Link:   "href",
	atom.Script: "src",
	atom.Source: "src",
}

// Rewrite converts relative references in doc to file:// URLs under
// sourceDir. References named in staged are left alone since they resolve in
// the workspace. The input is returned unchanged when sourceDir is empty or
// nothing needed rewriting.
func Rewrite(doc, sourceDir string, staged ...string) (string, error) {
	if sourceDir == "" {
		return doc, nil
	}
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	root, fragment, err := parse(doc)
	if err != nil {
		return "", err
	}

	skip := make(map[string]bool, len(staged))
	for _, name := range staged {
		skip[name] = true
	}

	if !rewriteTree(root, absDir, skip) {
		return doc, nil
	}
	return render(root, fragment)
}

// parse reads a full document, or a fragment in body context.
func parse(content string) (*html.Node, bool, error) {
	head := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, true, nil
}

func render(root *html.Node, fragment bool) (string, error) {
	var buf strings.Builder
	if !fragment {
		err := html.Render(&buf, root)
		return buf.String(), err
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteTree walks n and reports whether any attribute changed.
func rewriteTree(n *html.Node, dir string, skip map[string]bool) bool {
	changed := false
	if n.Type == html.ElementNode {
		if key, ok := refAttrs[n.DataAtom]; ok {
			changed = rewriteAttr(n, key, dir, skip)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if rewriteTree(c, dir, skip) {
			changed = true
		}
	}
	return changed
}

func rewriteAttr(n *html.Node, key, dir string, skip map[string]bool) bool {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelative(attr.Val) {
			continue
		}
		if skip[filepath.Clean(attr.Val)] {
			return false
		}

		abs := filepath.Join(dir, attr.Val)
		if !within(abs, dir) {
			return false
		}
		n.Attr[i].Val = fileURL(abs)
		return true
	}
	return false
}

// isRelative reports whether ref is a relative filesystem path.
func isRelative(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(ref) && !strings.HasPrefix(ref, "/")
}

// within reports whether path stays under dir after cleaning.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func fileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
