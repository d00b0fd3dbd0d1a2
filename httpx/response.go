package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/dashcore/validation"
	"github.com/m-mizutani/goerr/v2"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Invalid writes a 400 validation_failed response.
func Invalid(w http.ResponseWriter, v validation.Violations) {
	JSONError(w, http.StatusBadRequest, "validation_failed", v)
}

// DecodeJSON reads a JSON body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return goerr.Wrap(err, "decode request body")
	}
	return nil
}

// Internal logs err with its goerr values and writes a generic 500.
func Internal(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("request failed",
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("request failed", "error", err.Error())
	}
	JSONError(w, http.StatusInternalServerError, "internal_error", nil)
}
