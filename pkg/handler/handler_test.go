package handler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fasttravel/pkg/annotator"
	"fasttravel/pkg/clipboard"
	ftErrors "fasttravel/pkg/errors"
	"fasttravel/pkg/page"
	"fasttravel/pkg/toast"

	"github.com/rs/zerolog"
)

type fakeClipboard struct {
	mu      sync.Mutex
	missing bool
	err     error
	writes  []string
}

func (f *fakeClipboard) Available() bool {
	return !f.missing
}

func (f *fakeClipboard) WriteText(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, text)
	return nil
}

func (f *fakeClipboard) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return ""
	}
	return f.writes[len(f.writes)-1]
}

type fakeTimers struct {
	mu    sync.Mutex
	delay []time.Duration
	funcs []func()
}

func (f *fakeTimers) afterFunc(d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = append(f.delay, d)
	f.funcs = append(f.funcs, fn)
}

func (f *fakeTimers) fire(i int) {
	f.mu.Lock()
	fn := f.funcs[i]
	f.mu.Unlock()
	fn()
}

type fixture struct {
	page   *page.Page
	spans  []annotator.TravelSpan
	toast  *toast.Toast
	timers *fakeTimers
}

const scenario = `<div class="paragraph">Go to [12,-5.5] then [0, 3]</div><div class="dpln-fast-travel"></div>`

func setup(t *testing.T, doc string) fixture {
	t.Helper()
	p, err := page.ParseString(doc)
	if err != nil {
		t.Fatalf("ParseString() returned error: %v", err)
	}
	spans, err := annotator.Annotate(p, annotator.DefaultOptions())
	if err != nil {
		t.Fatalf("Annotate() returned error: %v", err)
	}
	timers := &fakeTimers{}
	tst := toast.New(p, toast.Options{})
	tst.SetAfterFunc(timers.afterFunc)
	return fixture{page: p, spans: spans, toast: tst, timers: timers}
}

func TestClick_CopiesAndShowsToast(t *testing.T) {
	f := setup(t, scenario)
	cb := &fakeClipboard{}
	h := Attach(cb, f.toast, f.spans)

	tests := []struct {
		index   int
		command string
	}{
		{0, "/travel 12,-5.5"},
		{1, "/travel 0,3"},
	}

	for _, tt := range tests {
		outcome, err := h.Click(context.Background(), tt.index)
		if err != nil {
			t.Fatalf("Click(%d) returned error: %v", tt.index, err)
		}
		if outcome != Copied {
			t.Errorf("Click(%d) = %v, want copied", tt.index, outcome)
		}
		if got := cb.last(); got != tt.command {
			t.Errorf("clipboard = %q, want %q", got, tt.command)
		}
	}

	if f.toast.State() != toast.Visible {
		t.Errorf("toast state = %v, want visible", f.toast.State())
	}
	if got := f.toast.Text(); got != "Voyage copié avec succès" {
		t.Errorf("toast text = %q", got)
	}
	if len(f.timers.delay) != 2 || f.timers.delay[0] != 2000*time.Millisecond {
		t.Fatalf("timers = %v, want two 2000ms timers", f.timers.delay)
	}

	f.timers.fire(0)
	if f.toast.State() != toast.Hidden {
		t.Errorf("toast state = %v, want hidden after 2000ms", f.toast.State())
	}
}

func TestClick_UsesRecordedCommand(t *testing.T) {
	f := setup(t, scenario)
	cb := &fakeClipboard{}
	h := Attach(cb, f.toast, f.spans)

	// Changing the DOM attribute after attachment does not affect the copy.
	for i := range f.spans[0].Node.Attr {
		if f.spans[0].Node.Attr[i].Key == "data-travel" {
			f.spans[0].Node.Attr[i].Val = "/travel 99,99"
		}
	}

	if _, err := h.Click(context.Background(), 0); err != nil {
		t.Fatalf("Click() returned error: %v", err)
	}
	if got := cb.last(); got != "/travel 12,-5.5" {
		t.Errorf("clipboard = %q, want %q", got, "/travel 12,-5.5")
	}
}

func TestClick_ClipboardUnavailable(t *testing.T) {
	f := setup(t, scenario)
	before, _ := f.page.HTML()

	h := Attach(&fakeClipboard{missing: true}, f.toast, f.spans)
	outcome, err := h.Click(context.Background(), 0)
	if err != nil {
		t.Fatalf("Click() returned error: %v", err)
	}
	if outcome != Unavailable {
		t.Errorf("Click() = %v, want unavailable", outcome)
	}

	after, _ := f.page.HTML()
	if before != after {
		t.Errorf("document changed:\n%s\n%s", before, after)
	}
	if len(f.timers.delay) != 0 {
		t.Errorf("scheduled %d timers, want none", len(f.timers.delay))
	}
}

func TestClick_NilClipboard(t *testing.T) {
	f := setup(t, scenario)
	var nilFunc clipboard.Func

	h := Attach(nilFunc, f.toast, f.spans)
	if outcome, _ := h.Click(context.Background(), 1); outcome != Unavailable {
		t.Errorf("Click() = %v, want unavailable", outcome)
	}
}

func TestClick_NilToast(t *testing.T) {
	f := setup(t, scenario)
	before, _ := f.page.HTML()
	cb := &fakeClipboard{}

	h := Attach(cb, nil, f.spans)
	outcome, err := h.Click(context.Background(), 0)
	if err != nil || outcome != Copied {
		t.Fatalf("Click() = %v, %v; want copied", outcome, err)
	}
	if cb.last() != "/travel 12,-5.5" {
		t.Errorf("clipboard = %q, want %q", cb.last(), "/travel 12,-5.5")
	}
	if after, _ := f.page.HTML(); after != before {
		t.Error("Click() without a toast changed the document")
	}
}

func TestClick_WriteRejected(t *testing.T) {
	f := setup(t, scenario)
	before, _ := f.page.HTML()

	var logs bytes.Buffer
	h := Attach(&fakeClipboard{err: errors.New("permission denied")}, f.toast, f.spans).
		WithLogger(zerolog.New(&logs))

	outcome, err := h.Click(context.Background(), 0)
	if err != nil {
		t.Fatalf("Click() returned error: %v", err)
	}
	if outcome != Failed {
		t.Errorf("Click() = %v, want failed", outcome)
	}
	if f.toast.State() != toast.Hidden {
		t.Errorf("toast state = %v, want hidden", f.toast.State())
	}
	if after, _ := f.page.HTML(); after != before {
		t.Error("document changed after a rejected write")
	}

	out := logs.String()
	if !strings.Contains(out, "permission denied") || !strings.Contains(out, `"level":"error"`) {
		t.Errorf("log %q missing error entry", out)
	}
}

func TestClick_UnknownIndex(t *testing.T) {
	f := setup(t, scenario)
	h := Attach(&fakeClipboard{}, f.toast, f.spans)

	for _, i := range []int{-1, 2} {
		_, err := h.Click(context.Background(), i)
		if !ftErrors.IsExitCode(err, ftErrors.ExitCodeValidation) {
			t.Errorf("Click(%d) error = %v, want validation error", i, err)
		}
	}
}

func TestAttach_Snapshot(t *testing.T) {
	f := setup(t, scenario)
	h := Attach(&fakeClipboard{}, f.toast, f.spans[:1])

	if len(h.Spans()) != 1 {
		t.Fatalf("Spans() = %d, want 1", len(h.Spans()))
	}
	if _, err := h.Click(context.Background(), 1); err == nil {
		t.Error("span created outside the attached set should not be clickable")
	}
}

func TestClick_OverlappingClicksHideEarly(t *testing.T) {
	f := setup(t, scenario)
	h := Attach(&fakeClipboard{}, f.toast, f.spans)

	h.Click(context.Background(), 0)
	h.Click(context.Background(), 1)

	// The first click's timer fires while the second click's window is
	// still open and hides the toast anyway.
	f.timers.fire(0)
	if f.toast.State() != toast.Hidden {
		t.Errorf("toast state = %v, want hidden", f.toast.State())
	}
	if f.toast.Shows() != 2 {
		t.Errorf("Shows() = %d, want 2", f.toast.Shows())
	}
}

func TestClick_Concurrent(t *testing.T) {
	f := setup(t, scenario)
	cb := &fakeClipboard{}
	h := Attach(cb, f.toast, f.spans)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Click(context.Background(), i%2)
		}(i)
	}
	wg.Wait()

	if len(cb.writes) != 20 {
		t.Errorf("clipboard saw %d writes, want 20", len(cb.writes))
	}
	if f.toast.Shows() != 20 {
		t.Errorf("Shows() = %d, want 20", f.toast.Shows())
	}
}

func TestOutcome_String(t *testing.T) {
	if Copied.String() != "copied" || Unavailable.String() != "unavailable" || Failed.String() != "failed" {
		t.Error("unexpected Outcome names")
	}
}
