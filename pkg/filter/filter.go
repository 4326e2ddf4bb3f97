package filter

import (
	"fmt"
	"regexp"
	"strings"

	"fasttravel/pkg/annotator"
	"fasttravel/pkg/coords"

	"github.com/PuerkitoBio/goquery"
)

type FilterMode int

const (
	FilterModeNone FilterMode = iota
	FilterModeExact
	FilterModeContains
	FilterModeRegex
)

// ParseMode maps the --mode flag value to a FilterMode.
func ParseMode(s string) (FilterMode, error) {
	switch strings.ToLower(s) {
	case "", "contains":
		return FilterModeContains, nil
	case "exact":
		return FilterModeExact, nil
	case "regex", "re":
		return FilterModeRegex, nil
	default:
		return FilterModeNone, fmt.Errorf("unknown filter mode %q (want exact, contains or regex)", s)
	}
}

type StringFilter struct {
	Pattern string
	Mode    FilterMode
	regex   *regexp.Regexp
}

func NewStringFilter(pattern string, mode FilterMode) (*StringFilter, error) {
	f := &StringFilter{
		Pattern: pattern,
		Mode:    mode,
	}

	if mode == FilterModeRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern '%s': %w", pattern, err)
		}
		f.regex = re
	}

	return f, nil
}

func (f *StringFilter) Match(s string) bool {
	switch f.Mode {
	case FilterModeExact:
		return strings.EqualFold(s, f.Pattern)
	case FilterModeContains:
		return strings.Contains(strings.ToLower(s), strings.ToLower(f.Pattern))
	case FilterModeRegex:
		return f.regex != nil && f.regex.MatchString(s)
	default:
		return true
	}
}

// SpanFilter selects travel spans by text and by distance to a map cell.
type SpanFilter struct {
	// Text is matched against the command and the paragraph text.
	Text *StringFilter
	// Near is a coordinate literal such as "[3,-4]"; empty disables it.
	Near string
	// Radius is the maximum Manhattan distance from Near.
	Radius float64
}

func (f *SpanFilter) IsEmpty() bool {
	return (f.Text == nil || f.Text.Mode == FilterModeNone) && f.Near == ""
}

// Apply returns the spans kept by f, preserving order and indexes.
func (f *SpanFilter) Apply(spans []annotator.TravelSpan) ([]annotator.TravelSpan, error) {
	if f.IsEmpty() {
		return spans, nil
	}

	var nx, ny float64
	if f.Near != "" {
		center, err := coords.Parse(f.Near)
		if err != nil {
			return nil, err
		}
		if nx, ny, err = center.Point(); err != nil {
			return nil, err
		}
	}

	var out []annotator.TravelSpan
	for _, s := range spans {
		if f.Text != nil && f.Text.Mode != FilterModeNone {
			if !f.Text.Match(s.Command) && !f.Text.Match(ParagraphText(s)) {
				continue
			}
		}

		if f.Near != "" {
			x, y, err := s.Match.Point()
			if err != nil || coords.Distance(x, y, nx, ny) > f.Radius {
				continue
			}
		}

		out = append(out, s)
	}
	return out, nil
}

// ParagraphText is the visible text of the paragraph holding s.
func ParagraphText(s annotator.TravelSpan) string {
	if s.Element == nil {
		return ""
	}
	return strings.TrimSpace(goquery.NewDocumentFromNode(s.Element).Text())
}
