// Package httputil centralizes the JSON envelopes handlers write. Keeping the
// translation in one place guarantees a consistent error shape and prevents
// internal detail from leaking to callers.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "vendorhub/pkg/domain-errors"
)

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into its HTTP response. Internal and
// upstream errors return only the code; the cause stays server-side.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal && code != dErrors.CodeUpstream {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, status, body)
}

// WriteMethodNotAllowed writes a 405 with the Allow header listing the
// supported methods.
func WriteMethodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": string(dErrors.CodeMethodNotAllowed),
	})
}
