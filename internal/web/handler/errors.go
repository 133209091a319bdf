package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/connectfour/internal/api/apierr"
	"github.com/mcoot/connectfour/internal/middleware"
)

// writeError answers with the same JSON error body as the API so the page script
// can show the message. Server-side failures are logged.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		logger.Error("page request failed",
			slog.String("request_id", middleware.RequestIDFrom(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, err)
}

// withStatus answers err with status when it is one of targets
func withStatus(err error, status int, targets ...error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return apierr.WithStatus(err, status)
		}
	}
	return err
}
