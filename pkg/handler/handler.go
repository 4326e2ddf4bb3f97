// Package handler copies a travel span's command to the clipboard when the
// span is clicked and shows the confirmation toast.
package handler

import (
	"context"

	"fasttravel/pkg/annotator"
	"fasttravel/pkg/clipboard"
	"fasttravel/pkg/errors"
	"fasttravel/pkg/logger"
	"fasttravel/pkg/toast"

	"github.com/rs/zerolog"
)

// Outcome is what a click did.
type Outcome int

const (
	// Copied means the command reached the clipboard and the toast was shown.
	Copied Outcome = iota
	// Unavailable means there is no clipboard; nothing happened.
	Unavailable
	// Failed means the clipboard rejected the write. The error was logged.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Copied:
		return "copied"
	case Unavailable:
		return "unavailable"
	default:
		return "failed"
	}
}

type Handler struct {
	clipboard clipboard.Writer
	toast     *toast.Toast
	spans     []annotator.TravelSpan
	log       zerolog.Logger
}

// Attach listens on the spans given. The slice is copied: spans annotated
// later are not covered. A nil toast copies without any confirmation.
func Attach(cb clipboard.Writer, t *toast.Toast, spans []annotator.TravelSpan) *Handler {
	h := &Handler{
		clipboard: cb,
		toast:     t,
		spans:     append([]annotator.TravelSpan(nil), spans...),
		log:       logger.GetLogger(),
	}
	h.log.Debug().Int("spans", len(h.spans)).Msg("click handler attached")
	return h
}

// WithLogger tags the handler's events, usually with logger.ForPage.
func (h *Handler) WithLogger(l zerolog.Logger) *Handler {
	h.log = l
	return h
}

func (h *Handler) Spans() []annotator.TravelSpan {
	return h.spans
}

// Click handles a click on the span with the given index.
func (h *Handler) Click(ctx context.Context, index int) (Outcome, error) {
	if index < 0 || index >= len(h.spans) {
		return Failed, errors.SpanNotFoundError(index, len(h.spans))
	}
	return h.ClickSpan(ctx, h.spans[index]), nil
}

// ClickSpan copies span.Command. Failures are logged, never returned.
func (h *Handler) ClickSpan(ctx context.Context, span annotator.TravelSpan) Outcome {
	if h.clipboard == nil || !h.clipboard.Available() {
		h.log.Debug().Str("command", span.Command).Msg("clipboard unavailable, ignoring click")
		return Unavailable
	}

	if err := h.clipboard.WriteText(ctx, span.Command); err != nil {
		h.log.Error().Err(err).Str("command", span.Command).Msg("Failed to copy!")
		return Failed
	}

	if h.toast != nil {
		h.toast.Show()
		h.toast.ScheduleHide()
	}

	h.log.Info().Int("span", span.Index).Str("command", span.Command).Msg("travel command copied")
	return Copied
}
