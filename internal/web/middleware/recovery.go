package middleware

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/mcoot/connectfour/internal/middleware"
	"github.com/mcoot/connectfour/internal/web/views"
)

// Recovery turns a panic while building a page into the HTML error page
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, _ any) {
		page := views.Layout("Error", views.ErrorPage("Error interno", "Algo salió mal. Inténtalo de nuevo más tarde."))

		var buf bytes.Buffer
		if err := page.Render(r.Context(), &buf); err != nil {
			middleware.DefaultPanicHandler(w, r, nil)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(buf.Bytes())
	})
}
