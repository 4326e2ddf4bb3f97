package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"fasttravel/pkg/errors"

	"github.com/fatih/color"
)

const (
	responseYes = "yes"
	responseY   = "y"
)

// confirmInput is where prompts read answers from; tests replace it.
var confirmInput io.Reader = os.Stdin

// IsDryRun returns true if dry-run mode is enabled
func IsDryRun() bool {
	return dryRunFlag
}

// PrintDryRun prints a message indicating what would happen in dry-run mode
func PrintDryRun(w io.Writer, format string, args ...interface{}) {
	yellow := color.New(color.FgYellow, color.Bold)
	_, _ = yellow.Fprint(w, "[DRY-RUN] ")
	fmt.Fprintf(w, format+"\n", args...)
}

// ConfirmPrompt asks the user for confirmation
func ConfirmPrompt(w io.Writer, message string) (bool, error) {
	if assumeYesFlag {
		return true, nil
	}

	yellow := color.New(color.FgYellow)
	_, _ = yellow.Fprintf(w, "%s [y/N]: ", message)

	reader := bufio.NewReader(confirmInput)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == responseY || response == responseYes, nil
}

// RequireConfirmation warns about an overwrite and fails unless confirmed.
func RequireConfirmation(w io.Writer, action string, details map[string]string) error {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(w, "Warning: You are about to %s\n\n", action)

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, details[k])
	}
	if len(keys) > 0 {
		fmt.Fprintln(w)
	}

	confirmed, err := ConfirmPrompt(w, "Do you want to continue")
	if err != nil {
		return err
	}
	if !confirmed {
		return errors.CancelledError(action)
	}
	return nil
}
