// Package page holds a parsed HTML document that the annotator and the toast
// mutate in place.
package page

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"fasttravel/pkg/errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Page is a parsed document. Callers mutating the tree from several
// goroutines must hold Lock.
type Page struct {
	mu     sync.Mutex
	id     string
	source string
	doc    *goquery.Document
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeParse, "failed to parse HTML", err)
	}
	return &Page{
		id:  uuid.NewString(),
		doc: doc,
	}, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (*Page, error) {
	return Parse(strings.NewReader(s))
}

// Load parses the file at path, or stdin when path is "-" or empty.
func Load(path string) (*Page, error) {
	if path == "" || path == "-" {
		p, err := Parse(os.Stdin)
		if err != nil {
			return nil, err
		}
		p.source = "stdin"
		return p, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeFileOperation, fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	p.source = path
	return p, nil
}

// ID identifies this parsed page in log events.
func (p *Page) ID() string {
	return p.id
}

// Source is the file the page was loaded from, if any.
func (p *Page) Source() string {
	return p.source
}

// Document exposes the goquery view of the tree.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Find runs a CSS selector over the whole document.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// Body returns the <body> element, which the parser always creates.
func (p *Page) Body() *html.Node {
	if sel := p.doc.Find("body"); sel.Length() > 0 {
		return sel.Get(0)
	}
	return nil
}

func (p *Page) Lock() {
	p.mu.Lock()
}

func (p *Page) Unlock() {
	p.mu.Unlock()
}

// Render writes the document back out as HTML.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, n := range p.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return errors.NewWithError(errors.ExitCodeFileOperation, "failed to render HTML", err)
		}
	}
	return nil
}

// HTML is Render into a string.
func (p *Page) HTML() (string, error) {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile renders the document to path.
func (p *Page) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
