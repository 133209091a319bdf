package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/connectfour/internal/api/apierr"
	"github.com/mcoot/connectfour/internal/middleware"
)

// writeError writes the JSON error body for err. Server-side failures are logged
// with their full text, which never reaches the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("request_id", middleware.RequestIDFrom(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, err)
}

// withStatus answers err with status when it is one of targets, leaving other errors alone
func withStatus(err error, status int, targets ...error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return apierr.WithStatus(err, status)
		}
	}
	return err
}

func invalidBody(w http.ResponseWriter) {
	apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
}
