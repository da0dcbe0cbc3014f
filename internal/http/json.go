package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// DecodeJSON parses the request body into dst, rejecting unknown
// fields. On malformed input it writes the 400 response itself and
// returns false so handlers can bail with a bare return.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	return true
}

// WriteJSON encodes v and sends it with the given status. The value is
// encoded into a buffer first: a marshal failure still yields a clean
// 500 instead of a half-written body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// Write errors here mean the client went away; nothing to do.
	_, _ = buf.WriteTo(w)
}

// ErrorParams names the pieces of an error response: the HTTP status,
// a machine-readable code, and the error whose message is shown.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError sends the standard error body used across the gateway.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}
