package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/example/agenda/internal/apperr"
)

// envelope is the body of every response.
type envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   apperr.Code    `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError renders err with the status of its code. Errors without a code
// are reported as INTERNAL_ERROR and their text is not exposed.
func writeError(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	body := envelope{Error: code, Message: "internal error"}
	if code != apperr.CodeInternal {
		body.Message = err.Error()
		body.Details = apperr.DetailsOf(err)
	}
	writeJSON(w, apperr.HTTPStatus(code), body)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.CodeValidation, err, "invalid json body")
	}
	return nil
}
