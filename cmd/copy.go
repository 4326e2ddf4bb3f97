package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"fasttravel/pkg/annotator"
	"fasttravel/pkg/clipboard"
	"fasttravel/pkg/coords"
	"fasttravel/pkg/errors"
	"fasttravel/pkg/handler"
	"fasttravel/pkg/logger"
	"fasttravel/pkg/page"
	"fasttravel/pkg/toast"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	copyCoords     string
	copyWait       bool
	copyOutputHTML string
	copyStrict     bool
)

// clipboardWriter is the clipboard used by the copy command; tests swap it.
var clipboardWriter clipboard.Writer = clipboard.NewSystem()

var copyCmd = &cobra.Command{
	Use:   "copy [file [index]]",
	Short: "Copy a travel command to the clipboard",
	Long: `Click a travel span: copy its command to the clipboard and show the
confirmation toast for its display duration. The span is picked by index in a
page (see 'fasttravel list'), or built from --coords.

Without a usable clipboard nothing happens unless --strict is given.`,
	Example: `  # Copy the third coordinate of a guide
  fasttravel copy guide.html 2

  # Copy straight from a coordinate pair
  fasttravel copy --coords "[12,-5.5]"

  # Keep the toast up for its full duration and save the clicked page
  fasttravel copy guide.html 0 --wait --output-html clicked.html`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var p *page.Page
		var span annotator.TravelSpan
		var spans []annotator.TravelSpan

		switch {
		case copyCoords != "":
			if len(args) > 0 {
				return errors.ValidationError("--coords cannot be combined with a file argument")
			}
			m, err := coords.Parse(copyCoords)
			if err != nil {
				return errors.ParseError(copyCoords, err)
			}
			if p, err = page.ParseString(""); err != nil {
				return err
			}
			span = annotator.TravelSpan{Command: m.Command(cfg.Annotator.Prefix), Match: m}
			spans = []annotator.TravelSpan{span}
		case len(args) == 2:
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.ValidationError(fmt.Sprintf("span index %q is not a number", args[1]))
			}
			if p, spans, err = loadSpans(cfg, args[0]); err != nil {
				return err
			}
			if index < 0 || index >= len(spans) {
				return errors.SpanNotFoundError(index, len(spans))
			}
			span = spans[index]
		default:
			return errors.NewWithSuggestion(errors.ExitCodeValidation,
				"nothing to copy",
				"Pass a file and a span index, or --coords \"[x,y]\".")
		}

		out := cmd.OutOrStdout()
		t := toast.New(p, cfg.ToastOptions())
		hidden := watchToast(t, out)

		h := handler.Attach(clipboardWriter, t, spans).WithLogger(logger.ForPage(p.ID()))

		ctx, cancel := GetContext()
		defer cancel()

		switch h.ClickSpan(ctx, span) {
		case handler.Unavailable:
			logger.Warn().Str("command", span.Command).Msg("no clipboard available")
			if copyStrict {
				return errors.ClipboardUnavailableError()
			}
			yellow := color.New(color.FgYellow)
			yellow.Fprintf(out, "Clipboard unavailable, copy it by hand: %s\n", span.Command)
			return nil
		case handler.Failed:
			if err := contextError(ctx); err != nil {
				return err
			}
			if copyStrict {
				return errors.New(errors.ExitCodeClipboard, "clipboard rejected the travel command")
			}
			return nil
		}

		fmt.Fprintf(out, "  %s\n", span.Command)

		if copyWait {
			select {
			case <-hidden:
			case <-ctx.Done():
				return contextError(ctx)
			}
		}

		if copyOutputHTML != "" {
			return p.WriteFile(copyOutputHTML)
		}
		return nil
	},
}

// watchToast mirrors toast transitions on the terminal. The returned channel
// closes on the first hide.
func watchToast(t *toast.Toast, w io.Writer) <-chan struct{} {
	hidden := make(chan struct{})
	var once sync.Once

	green := color.New(color.FgGreen, color.Bold)
	faint := color.New(color.Faint)
	t.OnChange(func(s toast.State) {
		switch s {
		case toast.Visible:
			green.Fprintf(w, "✓ %s\n", t.Text())
		case toast.Hidden:
			faint.Fprintln(w, "  (toast hidden)")
			once.Do(func() { close(hidden) })
		}
	})
	return hidden
}

func contextError(ctx context.Context) error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return errors.TimeoutError("copy")
	case context.Canceled:
		return errors.CancelledError("copy")
	}
	return nil
}

func init() {
	copyCmd.Flags().StringVar(&copyCoords, "coords", "", `Coordinate pair to copy, e.g. "[12,-5.5]"`)
	copyCmd.Flags().BoolVar(&copyWait, "wait", false, "Wait until the toast hides again")
	copyCmd.Flags().StringVar(&copyOutputHTML, "output-html", "", "Write the page after the click to this file")
	copyCmd.Flags().BoolVar(&copyStrict, "strict", false, "Fail when the clipboard is missing or rejects the write")
}
