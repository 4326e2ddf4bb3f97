// Package annotator turns coordinate pairs found in paragraph text into
// clickable travel spans.
package annotator

import (
	"fasttravel/pkg/coords"
	"fasttravel/pkg/errors"
	"fasttravel/pkg/logger"
	"fasttravel/pkg/page"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	DefaultParagraphSelector = ".paragraph"
	DefaultSpanClass         = "fast-travel-coord"
	DefaultAttribute         = "data-travel"
)

type Options struct {
	ParagraphSelector string
	SpanClass         string
	Attribute         string
	Prefix            string
}

func DefaultOptions() Options {
	return Options{
		ParagraphSelector: DefaultParagraphSelector,
		SpanClass:         DefaultSpanClass,
		Attribute:         DefaultAttribute,
		Prefix:            coords.DefaultPrefix,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ParagraphSelector == "" {
		o.ParagraphSelector = d.ParagraphSelector
	}
	if o.SpanClass == "" {
		o.SpanClass = d.SpanClass
	}
	if o.Attribute == "" {
		o.Attribute = d.Attribute
	}
	if o.Prefix == "" {
		o.Prefix = d.Prefix
	}
	return o
}

// TravelSpan is one element created by Annotate. Command is fixed at
// creation; handlers read it from here rather than from the DOM.
type TravelSpan struct {
	Index     int
	Paragraph int
	Command   string
	Match     coords.Match
	Node      *html.Node
	Element   *html.Node // the paragraph element the span lives in
}

// Annotate wraps every coordinate pair inside the paragraphs of p. Markup
// already present in a paragraph is left alone; only text nodes are split.
// Running it twice does not nest spans.
func Annotate(p *page.Page, opts Options) ([]TravelSpan, error) {
	opts = opts.withDefaults()

	sel, err := cascadia.Compile(opts.ParagraphSelector)
	if err != nil {
		return nil, errors.NewWithSuggestion(errors.ExitCodeConfig,
			"invalid paragraph selector "+opts.ParagraphSelector+": "+err.Error(),
			"Use a CSS selector such as .paragraph or article p.")
	}

	log := logger.ForPage(p.ID())

	p.Lock()
	defer p.Unlock()

	paragraphs := p.Document().FindMatcher(sel).Nodes
	selected := make(map[*html.Node]bool, len(paragraphs))
	for _, n := range paragraphs {
		selected[n] = true
	}

	var spans []TravelSpan
	for i, el := range paragraphs {
		if hasSelectedAncestor(el, selected) {
			continue
		}

		before := len(spans)
		for _, text := range textNodes(el, opts.SpanClass) {
			spans = wrapMatches(text, el, i, opts, spans)
		}

		if n := len(spans) - before; n > 0 {
			log.Debug().Int("paragraph", i).Int("spans", n).Msg("annotated paragraph")
		}
	}

	log.Info().
		Str("selector", opts.ParagraphSelector).
		Int("paragraphs", len(paragraphs)).
		Int("spans", len(spans)).
		Msg("annotation complete")

	return spans, nil
}

// wrapMatches replaces text with a run of text nodes and spans.
func wrapMatches(text, el *html.Node, paragraph int, opts Options, spans []TravelSpan) []TravelSpan {
	found := coords.Find(text.Data)
	if len(found) == 0 {
		return spans
	}

	parent := text.Parent
	last := 0
	for _, m := range found {
		if m.Start > last {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text.Data[last:m.Start]}, text)
		}

		cmd := m.Command(opts.Prefix)
		span := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Span,
			Data:     "span",
			Attr: []html.Attribute{
				{Key: "class", Val: opts.SpanClass},
				{Key: opts.Attribute, Val: cmd},
			},
		}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: m.Text})
		parent.InsertBefore(span, text)

		spans = append(spans, TravelSpan{
			Index:     len(spans),
			Paragraph: paragraph,
			Command:   cmd,
			Match:     m,
			Node:      span,
			Element:   el,
		})
		last = m.End
	}
	if last < len(text.Data) {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text.Data[last:]}, text)
	}
	parent.RemoveChild(text)

	return spans
}

// textNodes lists the text nodes under n, skipping raw-text elements and
// spans this package already created.
func textNodes(n *html.Node, spanClass string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				out = append(out, c)
			case html.ElementNode:
				if skipElement(c, spanClass) {
					continue
				}
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

func skipElement(n *html.Node, spanClass string) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Textarea, atom.Template:
		return true
	case atom.Span:
		return hasClass(n, spanClass)
	}
	return false
}

func hasSelectedAncestor(n *html.Node, selected map[*html.Node]bool) bool {
	for a := n.Parent; a != nil; a = a.Parent {
		if selected[a] {
			return true
		}
	}
	return false
}
