package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"campus-chat/internal/logging"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string `json:"error"`
	Fields any    `json:"fields,omitempty"`
}

// fielder is implemented by validation errors that carry per-field messages.
type fielder interface {
	FieldErrors() any
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes an error body. Server errors only carry the status text; the
// detail goes to the log.
func Error(w http.ResponseWriter, status int, err error) {
	body := ErrorBody{Error: http.StatusText(status)}
	if status >= http.StatusInternalServerError {
		if err != nil {
			logging.Logger().Error("request failed", "status", status, "error", err)
		}
		JSON(w, status, body)
		return
	}
	if err != nil {
		body.Error = err.Error()
		var f fielder
		if errors.As(err, &f) {
			body.Fields = f.FieldErrors()
		}
	}
	JSON(w, status, body)
}

func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return errors.Wrap(dec.Decode(v), "decoding request body")
}
