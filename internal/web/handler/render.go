package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// render buffers the page so a failed render still produces a clean 500
func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, page templ.Component) {
	var buf bytes.Buffer
	if err := page.Render(r.Context(), &buf); err != nil {
		writeError(w, r, logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

