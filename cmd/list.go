package cmd

import (
	"fmt"
	"io"
	"strings"

	"fasttravel/pkg/annotator"
	"fasttravel/pkg/config"
	"fasttravel/pkg/errors"
	"fasttravel/pkg/filter"
	"fasttravel/pkg/page"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	listMatch  string
	listMode   string
	listNear   string
	listRadius float64
)

// spanView is the structured form of a travel span.
type spanView struct {
	Index     int    `json:"index" yaml:"index"`
	Paragraph int    `json:"paragraph" yaml:"paragraph"`
	Command   string `json:"command" yaml:"command"`
	Text      string `json:"text" yaml:"text"`
	X         string `json:"x" yaml:"x"`
	Y         string `json:"y" yaml:"y"`
	Context   string `json:"context,omitempty" yaml:"context,omitempty"`
}

var listCmd = &cobra.Command{
	Use:     "list [file]",
	Aliases: []string{"ls"},
	Short:   "List the travel commands found in a page",
	Long: `List every travel span of a page. Spans from an earlier run are kept and
pairs still unwrapped are annotated in memory. The context column shows the
paragraph the coordinates come from, as Markdown.`,
	Example: `  # All coordinates of a guide
  fasttravel list guide.html

  # Only those within 10 cells of [3,-4]
  fasttravel list guide.html --near "[3,-4]" --radius 10

  # Paragraphs mentioning a chest, as JSON
  fasttravel list guide.html --match chest --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		input := "-"
		if len(args) == 1 {
			input = args[0]
		}

		_, spans, err := loadSpans(cfg, input)
		if err != nil {
			return err
		}

		f, err := buildSpanFilter()
		if err != nil {
			return err
		}
		spans, err = f.Apply(spans)
		if err != nil {
			return errors.ParseError(listNear, err)
		}

		views := make([]spanView, 0, len(spans))
		for _, s := range spans {
			views = append(views, toSpanView(s))
		}

		w := NewOutputWriter(outputFormat)
		w.SetWriter(cmd.OutOrStdout())
		if w.IsStructured() {
			return w.Write(views)
		}
		if w.GetFormat() == FormatModern {
			printModernSpans(cmd.OutOrStdout(), views)
			return nil
		}
		printSpanTable(cmd.OutOrStdout(), views)
		return nil
	},
}

// loadSpans parses input and returns all its travel spans, wrapping the
// pairs an earlier run left unannotated.
func loadSpans(cfg *config.Config, input string) (*page.Page, []annotator.TravelSpan, error) {
	p, err := page.Load(input)
	if err != nil {
		return nil, nil, err
	}

	spans, err := annotator.All(p, cfg.AnnotatorOptions())
	if err != nil {
		return nil, nil, err
	}
	return p, spans, nil
}

func buildSpanFilter() (*filter.SpanFilter, error) {
	f := &filter.SpanFilter{Near: listNear, Radius: listRadius}
	if listMatch == "" {
		return f, nil
	}

	mode, err := filter.ParseMode(listMode)
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	text, err := filter.NewStringFilter(listMatch, mode)
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	f.Text = text
	return f, nil
}

func toSpanView(s annotator.TravelSpan) spanView {
	return spanView{
		Index:     s.Index,
		Paragraph: s.Paragraph,
		Command:   s.Command,
		Text:      s.Match.Text,
		X:         s.Match.X,
		Y:         s.Match.Y,
		Context:   nodeToMarkdown(s.Element),
	}
}

func printSpanTable(w io.Writer, views []spanView) {
	if len(views) == 0 {
		fmt.Fprintln(w, "No coordinates found.")
		return
	}

	const (
		colIndex   = 4
		colCommand = 24
		colText    = 16
	)

	fmt.Fprintf(w, "%-*s %-*s %-*s %s\n", colIndex, "#", colCommand, "COMMAND", colText, "TEXT", "CONTEXT")
	for _, v := range views {
		fmt.Fprintf(w, "%-*d %-*s %-*s %s\n",
			colIndex, v.Index,
			colCommand, truncate(v.Command, colCommand),
			colText, truncate(v.Text, colText),
			truncate(v.Context, 60))
	}
}

func printModernSpans(w io.Writer, views []spanView) {
	fmt.Fprintf(w, "🧭 Travel commands (%d found)\n\n", len(views))

	cyan := color.New(color.FgCyan, color.Bold)
	faint := color.New(color.Faint)
	for _, v := range views {
		fmt.Fprintf(w, "  📍 %2d  ", v.Index)
		cyan.Fprint(w, v.Command)
		fmt.Fprintln(w)
		if v.Context != "" {
			faint.Fprintf(w, "        %s\n", truncate(strings.TrimSpace(v.Context), 72))
		}
	}
}

func init() {
	listCmd.Flags().StringVar(&listMatch, "match", "", "Keep spans whose command or paragraph matches")
	listCmd.Flags().StringVar(&listMode, "mode", "contains", "How --match is applied (exact, contains, regex)")
	listCmd.Flags().StringVar(&listNear, "near", "", `Keep spans near a cell, e.g. "[3,-4]"`)
	listCmd.Flags().Float64Var(&listRadius, "radius", 10, "Maximum Manhattan distance for --near")
}
