// Package httpjson holds the request/response helpers shared by every
// feature handler. Responses are JSON; errors use a {"message": ...}
// envelope.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies; back-office payloads are small.
const maxBodyBytes = 1 << 20

// errorEnvelope is the wire shape of every error response.
type errorEnvelope struct {
	Message string `json:"message"`
}

// Respond writes v as JSON with the given status. A nil v writes just
// the status.
func Respond(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a {"message": ...} envelope with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	Respond(w, status, errorEnvelope{Message: message})
}

// Decode reads the request body into dst, rejecting unknown fields and
// oversized bodies. The returned error message is safe to show callers.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		case errors.As(err, &syntaxErr):
			return fmt.Errorf("malformed JSON at offset %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return fmt.Errorf("invalid value for field %q", typeErr.Field)
		default:
			return errors.New("invalid request body")
		}
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
