package page

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseString(t *testing.T) {
	p, err := ParseString(`<p class="paragraph">hello</p>`)
	if err != nil {
		t.Fatalf("ParseString() returned error: %v", err)
	}
	if p.ID() == "" {
		t.Error("ID() is empty")
	}
	if n := p.Find(".paragraph").Length(); n != 1 {
		t.Errorf("Find(.paragraph) returned %d elements, want 1", n)
	}
	if p.Body() == nil {
		t.Error("Body() returned nil")
	}
}

func TestParse_UniqueIDs(t *testing.T) {
	a, _ := ParseString("<p>a</p>")
	b, _ := ParseString("<p>b</p>")
	if a.ID() == b.ID() {
		t.Errorf("two pages share id %s", a.ID())
	}
}

func TestHTML_RoundTrip(t *testing.T) {
	p, err := ParseString(`<div class="paragraph">Go <b>now</b></div>`)
	if err != nil {
		t.Fatalf("ParseString() returned error: %v", err)
	}
	out, err := p.HTML()
	if err != nil {
		t.Fatalf("HTML() returned error: %v", err)
	}
	if !strings.Contains(out, `<div class="paragraph">Go <b>now</b></div>`) {
		t.Errorf("HTML() = %q, missing original paragraph", out)
	}
}

func TestLoadAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.html")
	if err := os.WriteFile(in, []byte(`<p>[1,2]</p>`), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	p, err := Load(in)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if p.Source() != in {
		t.Errorf("Source() = %q, want %q", p.Source(), in)
	}

	out := filepath.Join(dir, "out.html")
	if err := p.WriteFile(out); err != nil {
		t.Fatalf("WriteFile() returned error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "<p>[1,2]</p>") {
		t.Errorf("output = %q, missing paragraph", data)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.html")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}
