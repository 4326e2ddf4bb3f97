package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fasttravel/pkg/logger"

	"github.com/fatih/color"
)

type ExitCode int

const (
	ExitCodeSuccess       ExitCode = 0
	ExitCodeGeneral       ExitCode = 1
	ExitCodeConfig        ExitCode = 2
	ExitCodeParse         ExitCode = 3
	ExitCodeClipboard     ExitCode = 4
	ExitCodeValidation    ExitCode = 5
	ExitCodeFileOperation ExitCode = 6
	ExitCodeCancellation  ExitCode = 7
	ExitCodeTimeout       ExitCode = 8
)

type Error struct {
	Code       ExitCode
	Message    string
	Underlying error
	Suggestion string
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func New(code ExitCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewWithError(code ExitCode, message string, err error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

func NewWithSuggestion(code ExitCode, message string, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap prefixes err with message, keeping the exit code and suggestion of an
// existing *Error.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	if wrapped, ok := err.(*Error); ok {
		return &Error{
			Code:       wrapped.Code,
			Message:    message + ": " + wrapped.Message,
			Underlying: wrapped.Underlying,
			Suggestion: wrapped.Suggestion,
		}
	}

	return &Error{
		Code:       ExitCodeGeneral,
		Message:    message,
		Underlying: err,
	}
}

func IsExitCode(err error, code ExitCode) bool {
	if err == nil {
		return false
	}

	if e, ok := err.(*Error); ok {
		return e.Code == code
	}

	return false
}

// HandleReturn logs err, prints it to stderr and returns the exit code the
// process should terminate with.
func HandleReturn(err error) ExitCode {
	return handle(os.Stderr, err)
}

func handle(w io.Writer, err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}

	exitCode := ExitCodeGeneral
	message := err.Error()
	suggestion := ""

	if e, ok := err.(*Error); ok {
		exitCode = e.Code
		message = e.Message
		suggestion = e.Suggestion

		if e.Underlying != nil {
			logger.Error().Err(e.Underlying).Int("exit_code", int(e.Code)).Msg(e.Message)
			message = e.Error()
		} else {
			logger.Error().Int("exit_code", int(e.Code)).Msg(e.Message)
		}
	} else {
		logger.Error().Err(err).Msg("command failed")
	}

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(w)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, message)

	if suggestion != "" {
		yellow.Fprint(w, "Suggestion: ")
		for i, line := range strings.Split(strings.TrimRight(suggestion, "\n"), "\n") {
			if i == 0 {
				fmt.Fprintln(w, line)
				continue
			}
			fmt.Fprintln(w, "            "+line)
		}
	}

	fmt.Fprintln(w)

	return exitCode
}

func ConfigError(message string) *Error {
	return &Error{
		Code:       ExitCodeConfig,
		Message:    message,
		Suggestion: "Check ~/.config/fasttravel/config.yaml or the FASTTRAVEL_* environment variables.",
	}
}

func ValidationError(message string) *Error {
	return &Error{
		Code:    ExitCodeValidation,
		Message: message,
	}
}

func ParseError(input string, err error) *Error {
	return &Error{
		Code:       ExitCodeParse,
		Message:    fmt.Sprintf("could not read coordinates from %q", input),
		Underlying: err,
		Suggestion: "Coordinates look like [12,-34] or [1.5, 2].",
	}
}

func SpanNotFoundError(index, total int) *Error {
	suggestion := "The page has no coordinates; check the paragraph selector with 'fasttravel config show'."
	if total > 0 {
		suggestion = fmt.Sprintf("Valid indexes are 0 to %d. Use 'fasttravel list' to see them.", total-1)
	}
	return &Error{
		Code:       ExitCodeValidation,
		Message:    fmt.Sprintf("travel span #%d not found", index),
		Suggestion: suggestion,
	}
}

func ClipboardUnavailableError() *Error {
	return &Error{
		Code:       ExitCodeClipboard,
		Message:    "clipboard is not available",
		Suggestion: "Install xclip, xsel or wl-clipboard, or run from a desktop session.",
	}
}

func TimeoutError(operation string) *Error {
	return &Error{
		Code:       ExitCodeTimeout,
		Message:    fmt.Sprintf("Operation timed out: %s", operation),
		Suggestion: "Try again with a longer timeout using --timeout flag.",
	}
}

func CancelledError(operation string) *Error {
	return &Error{
		Code:       ExitCodeCancellation,
		Message:    fmt.Sprintf("Operation cancelled: %s", operation),
		Suggestion: "The operation was interrupted. No changes were made.",
	}
}
