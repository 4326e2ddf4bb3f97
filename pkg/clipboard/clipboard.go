// Package clipboard writes travel commands to the system clipboard.
package clipboard

import (
	"context"

	atotto "github.com/atotto/clipboard"
)

// Writer is a clipboard that may not exist in the current environment.
type Writer interface {
	// Available reports whether the clipboard can be used at all.
	Available() bool
	// WriteText replaces the clipboard content with plain text.
	WriteText(ctx context.Context, text string) error
}

// System is the desktop clipboard, backed by pbcopy, clip.exe, xclip, xsel
// or wl-copy depending on the platform.
type System struct{}

func NewSystem() *System {
	return &System{}
}

func (s *System) Available() bool {
	return !atotto.Unsupported
}

// WriteText runs the platform copy tool. The tool cannot be interrupted, so a
// cancelled ctx only stops the caller from waiting on it.
func (s *System) WriteText(ctx context.Context, text string) error {
	done := make(chan error, 1)
	go func() {
		done <- atotto.WriteAll(text)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Func adapts a plain write function. A nil Func is unavailable.
type Func func(ctx context.Context, text string) error

func (f Func) Available() bool {
	return f != nil
}

func (f Func) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

var (
	_ Writer = (*System)(nil)
	_ Writer = Func(nil)
)
