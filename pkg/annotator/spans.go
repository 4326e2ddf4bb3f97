package annotator

import (
	"strings"

	"fasttravel/pkg/coords"
	"fasttravel/pkg/page"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Collect returns the travel spans already present in p, in document order.
// It is how a page annotated by an earlier run is picked up again.
func Collect(p *page.Page, opts Options) []TravelSpan {
	opts = opts.withDefaults()

	p.Lock()
	defer p.Unlock()

	paragraphs := p.Find(opts.ParagraphSelector).Nodes
	var spans []TravelSpan
	p.Find("span." + opts.SpanClass).Each(func(_ int, s *goquery.Selection) {
		cmd, ok := s.Attr(opts.Attribute)
		if !ok {
			return
		}
		m, _ := coords.Parse(s.Text())
		n := s.Get(0)

		el, idx := enclosing(n, paragraphs)
		spans = append(spans, TravelSpan{
			Index:     len(spans),
			Paragraph: idx,
			Command:   cmd,
			Match:     m,
			Node:      n,
			Element:   el,
		})
	})
	return spans
}

// All wraps the pairs of p that are not spans yet and returns every travel
// span of the page, old and new, in document order.
func All(p *page.Page, opts Options) ([]TravelSpan, error) {
	if _, err := Annotate(p, opts); err != nil {
		return nil, err
	}
	return Collect(p, opts), nil
}

// enclosing finds the outermost paragraph holding n; -1 when there is none.
func enclosing(n *html.Node, paragraphs []*html.Node) (*html.Node, int) {
	var el *html.Node
	idx := -1
	for a := n.Parent; a != nil; a = a.Parent {
		for i, p := range paragraphs {
			if p == a {
				el, idx = p, i
			}
		}
	}
	return el, idx
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
