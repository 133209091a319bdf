package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as the JSON body. Names are echoed as typed, so HTML
// characters are not escaped. Responses reflect live scores and are never cached.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}
