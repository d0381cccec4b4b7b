package html

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers/clean"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MetadataReadability marks raw documents whose main article should be
// extracted before the DOM walk.
const MetadataReadability = "readability"

// minArticleLength is the shortest readability output accepted before
// falling back to the full page.
const minArticleLength = 200

// Normaliser handles HTML documents.
type Normaliser struct {
	article *bluemonday.Policy
}

// New creates a new HTML normaliser.
func New() *Normaliser {
	// Readability output is reduced to structural elements only.
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "div", "section", "article", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "table", "thead", "tbody", "tr", "td", "th", "pre", "blockquote")
	return &Normaliser{article: p}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts an HTML document to plain text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	root, err := html.Parse(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, &domain.ExtractionError{Origin: raw.Origin, Cause: "unparseable HTML", Err: err}
	}

	title := findTitle(root)
	format := "html"

	var content string
	if wantsReadability(raw) {
		if text, articleTitle := n.extractArticle(raw); len(text) >= minArticleLength {
			content = text
			format = "html+readability"
			if title == "" {
				title = articleTitle
			}
		}
	}
	if content == "" {
		content = Text(root)
	}

	if title == "" {
		title = clean.TitleFromOrigin(raw.Origin)
	}

	doc := domain.Document{
		Origin:   raw.Origin,
		Title:    title,
		Content:  content,
		Metadata: clean.CopyMetadata(raw.Metadata),
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = format

	return &driven.NormaliseResult{Document: doc}, nil
}

// extractArticle runs readability and reduces the article to plain text.
func (n *Normaliser) extractArticle(raw *domain.RawDocument) (text, title string) {
	pageURL, err := url.Parse(raw.Origin)
	if err != nil {
		pageURL = &url.URL{}
	}

	article, err := readability.FromReader(bytes.NewReader(raw.Content), pageURL)
	if err != nil {
		return "", ""
	}

	sanitized := n.article.Sanitize(article.Content)
	root, err := html.Parse(strings.NewReader(sanitized))
	if err != nil {
		return "", ""
	}
	return Text(root), strings.TrimSpace(article.Title)
}

func wantsReadability(raw *domain.RawDocument) bool {
	v, ok := raw.Metadata[MetadataReadability].(bool)
	return ok && v
}

// skipped elements never contribute text.
var skipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Nav: true,
	atom.Header: true, atom.Footer: true, atom.Aside: true, atom.Iframe: true,
	atom.Svg: true, atom.Form: true, atom.Template: true, atom.Head: true,
}

// block elements are separated by line breaks.
var block = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true, atom.Li: true,
	atom.Tr: true, atom.Table: true, atom.Section: true, atom.Article: true,
	atom.Blockquote: true, atom.Pre: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Dd: true, atom.Dt: true, atom.Main: true, atom.Caption: true,
}

var hiddenStyle = regexp.MustCompile(`(?i)display\s*:\s*none|visibility\s*:\s*hidden`)

// Text returns the visible text of a parsed document, one line per block.
func Text(root *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipped[n.DataAtom] || isHidden(n) {
				return
			}
			if n.DataAtom == atom.Td || n.DataAtom == atom.Th {
				sb.WriteByte(' ')
			}
		}

		isBlock := n.Type == html.ElementNode && block[n.DataAtom]
		if isBlock {
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if isBlock {
			sb.WriteByte('\n')
		}
	}
	walk(root)
	return clean.NonEmptyLines(sb.String())
}

func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch {
		case a.Key == "hidden":
			return true
		case a.Key == "style" && hiddenStyle.MatchString(a.Val):
			return true
		case a.Key == "aria-hidden" && a.Val == "true":
			return true
		}
	}
	return false
}

// findTitle extracts the <title> text.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return clean.Spaces(sb.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}
