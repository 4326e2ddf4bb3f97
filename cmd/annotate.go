package cmd

import (
	"fmt"

	"fasttravel/pkg/annotator"
	"fasttravel/pkg/errors"
	"fasttravel/pkg/logger"
	"fasttravel/pkg/page"
	"fasttravel/pkg/toast"

	"github.com/spf13/cobra"
)

var (
	annotateOutput      string
	annotateInPlace     bool
	annotateInjectToast bool
)

var annotateCmd = &cobra.Command{
	Use:     "annotate [file]",
	Aliases: []string{"ann"},
	Short:   "Wrap coordinate pairs in clickable travel spans",
	Long: `Parse an HTML page, wrap every coordinate pair found in paragraph text in a
<span class="fast-travel-coord" data-travel="/travel x,y"> element, and write the
result. Reads stdin when the file is "-" or omitted.`,
	Example: `  # Annotate a saved guide page
  fasttravel annotate guide.html -o guide.travel.html

  # Annotate in place and add the toast container
  fasttravel annotate guide.html --in-place --inject-toast

  # Pipe through
  curl -s https://example.org/guide | fasttravel annotate > out.html`,
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
		if annotateInPlace && input == "-" {
			return errors.ValidationError("--in-place needs a file argument")
		}
		if annotateInPlace && annotateOutput != "" {
			return errors.ValidationError("--in-place and --output are mutually exclusive")
		}

		p, err := page.Load(input)
		if err != nil {
			return err
		}

		spans, err := annotator.Annotate(p, cfg.AnnotatorOptions())
		if err != nil {
			return err
		}

		if annotateInjectToast {
			toast.New(p, cfg.ToastOptions()).Ensure()
		}

		stderr := cmd.ErrOrStderr()
		if IsDryRun() {
			PrintDryRun(stderr, "Would annotate %d coordinate(s) in %s", len(spans), p.Source())
			for _, s := range spans {
				fmt.Fprintf(stderr, "  #%d %s -> %s\n", s.Index, s.Match.Text, s.Command)
			}
			return nil
		}

		switch {
		case annotateInPlace:
			if err := RequireConfirmation(stderr, "rewrite "+input, map[string]string{
				"File":  input,
				"Spans": fmt.Sprintf("%d", len(spans)),
			}); err != nil {
				return err
			}
			if err := p.WriteFile(input); err != nil {
				return err
			}
			logger.Info().Str("path", input).Int("spans", len(spans)).Msg("annotated page rewritten")
		case annotateOutput != "":
			if err := p.WriteFile(annotateOutput); err != nil {
				return err
			}
			logger.Info().Str("path", annotateOutput).Int("spans", len(spans)).Msg("annotated page written")
		default:
			if err := p.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
		}

		fmt.Fprintf(stderr, "✓ %d travel span(s) created\n", len(spans))
		return nil
	},
}

func init() {
	annotateCmd.Flags().StringVarP(&annotateOutput, "output", "o", "", "Write the annotated page to this file instead of stdout")
	annotateCmd.Flags().BoolVar(&annotateInPlace, "in-place", false, "Rewrite the input file (asks for confirmation)")
	annotateCmd.Flags().BoolVar(&annotateInjectToast, "inject-toast", false, "Add a hidden toast container when the page has none")
}
