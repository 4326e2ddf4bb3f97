// Package toast drives the confirmation notice shown after a travel command
// has been copied. The toast is a single container element in the page that
// is either hidden or visible.
//
// Hide timers are never cancelled: when two copies happen less than the
// display duration apart, the first copy's timer hides the toast while the
// second copy's window is still open.
package toast

import (
	"strings"
	"time"

	"fasttravel/pkg/logger"
	"fasttravel/pkg/page"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

const (
	DefaultContainerClass = "dpln-fast-travel"
	DefaultImage          = "./src/destination.png"
	DefaultMessage        = "Voyage copié avec succès"
	DefaultDuration       = 2000 * time.Millisecond

	contentClass = "fast-travel-toast"
	displayVisible = "block"
	displayHidden  = "none"
)

type Options struct {
	// ContainerClass identifies the toast container; it is created at the
	// end of <body> when the page has none.
	ContainerClass string
	Image          string
	Message        string
	Duration       time.Duration
}

// DefaultOptions reproduces the dofuspourlesnoobs toast.
func DefaultOptions() Options {
	return Options{
		ContainerClass: DefaultContainerClass,
		Image:          DefaultImage,
		Message:        DefaultMessage,
		Duration:       DefaultDuration,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ContainerClass == "" {
		o.ContainerClass = d.ContainerClass
	}
	if o.Image == "" {
		o.Image = d.Image
	}
	if o.Message == "" {
		o.Message = d.Message
	}
	if o.Duration <= 0 {
		o.Duration = d.Duration
	}
	return o
}

type Toast struct {
	page  *page.Page
	opts  Options
	node  *html.Node
	state State
	shows int

	afterFunc func(d time.Duration, f func())
	onChange  func(State)
}

// New binds a toast to the page's container. It does not touch the document.
func New(p *page.Page, opts Options) *Toast {
	t := &Toast{
		page:      p,
		opts:      opts.withDefaults(),
		afterFunc: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
	if sel := p.Find("." + t.opts.ContainerClass); sel.Length() > 0 {
		t.node = sel.Get(0)
	}
	return t
}

// SetAfterFunc replaces the timer used by ScheduleHide.
func (t *Toast) SetAfterFunc(fn func(d time.Duration, f func())) {
	t.afterFunc = fn
}

// OnChange registers a callback run after every state transition.
func (t *Toast) OnChange(fn func(State)) {
	t.onChange = fn
}

func (t *Toast) Options() Options {
	return t.opts
}

func (t *Toast) State() State {
	t.page.Lock()
	defer t.page.Unlock()
	return t.state
}

// Shows counts how many times the toast has been shown.
func (t *Toast) Shows() int {
	t.page.Lock()
	defer t.page.Unlock()
	return t.shows
}

// Container returns the container element, or nil if it does not exist yet.
func (t *Toast) Container() *html.Node {
	t.page.Lock()
	defer t.page.Unlock()
	return t.node
}

// Ensure creates the container, hidden, when the page lacks one.
func (t *Toast) Ensure() *html.Node {
	t.page.Lock()
	defer t.page.Unlock()
	return t.ensureLocked()
}

func (t *Toast) ensureLocked() *html.Node {
	if t.node != nil {
		return t.node
	}

	t.node = &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr: []html.Attribute{
			{Key: "class", Val: t.opts.ContainerClass},
			{Key: "style", Val: "display: " + displayHidden},
		},
	}
	if body := t.page.Body(); body != nil {
		body.AppendChild(t.node)
	}
	logger.Debug().Str("page_id", t.page.ID()).Msg("created toast container")
	return t.node
}

// Show replaces the container content with the confirmation and fades it in.
// Showing an already visible toast restarts the fade-in only.
func (t *Toast) Show() {
	t.page.Lock()
	node := t.ensureLocked()
	for c := node.FirstChild; c != nil; c = node.FirstChild {
		node.RemoveChild(c)
	}
	node.AppendChild(t.content())
	setDisplay(node, displayVisible)
	t.state = Visible
	t.shows++
	t.page.Unlock()

	t.changed(Visible)
}

// Hide fades the toast out. Content stays in place.
func (t *Toast) Hide() {
	t.page.Lock()
	if t.node != nil {
		setDisplay(t.node, displayHidden)
	}
	t.state = Hidden
	t.page.Unlock()

	t.changed(Hidden)
}

// ScheduleHide hides the toast after the configured duration. Earlier
// schedules stay armed.
func (t *Toast) ScheduleHide() {
	t.afterFunc(t.opts.Duration, t.Hide)
}

// Text returns the text currently displayed by the container.
func (t *Toast) Text() string {
	t.page.Lock()
	defer t.page.Unlock()
	if t.node == nil {
		return ""
	}
	var b strings.Builder
	collectText(t.node, &b)
	return b.String()
}

func (t *Toast) changed(s State) {
	logger.Debug().Str("page_id", t.page.ID()).Str("state", s.String()).Msg("toast")
	if t.onChange != nil {
		t.onChange(s)
	}
}

// content builds <div class="fast-travel-toast"><img src=…/><p>message</p></div>.
func (t *Toast) content() *html.Node {
	div := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr:     []html.Attribute{{Key: "class", Val: contentClass}},
	}
	div.AppendChild(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Img,
		Data:     "img",
		Attr:     []html.Attribute{{Key: "src", Val: t.opts.Image}},
	})
	p := &html.Node{Type: html.ElementNode, DataAtom: atom.P, Data: "p"}
	p.AppendChild(&html.Node{Type: html.TextNode, Data: t.opts.Message})
	div.AppendChild(p)
	return div
}

// setDisplay sets the display declaration of n's inline style and keeps the
// other declarations in place.
func setDisplay(n *html.Node, display string) {
	decl := "display: " + display
	for i := range n.Attr {
		if n.Attr[i].Key != "style" {
			continue
		}
		var kept []string
		for _, d := range strings.Split(n.Attr[i].Val, ";") {
			d = strings.TrimSpace(d)
			if d == "" {
				continue
			}
			name, _, _ := strings.Cut(d, ":")
			if strings.EqualFold(strings.TrimSpace(name), "display") {
				continue
			}
			kept = append(kept, d)
		}
		n.Attr[i].Val = strings.Join(append(kept, decl), "; ")
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: decl})
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
