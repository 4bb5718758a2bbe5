package response

import (
	"encoding/json"
	"net/http"

	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/logger"
)

// Response is the JSON envelope returned by every endpoint
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// OK sends a successful envelope
func OK(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, Response{Success: true, Message: message, Data: data})
}

// Fail sends an error envelope with an explicit status and kind
func Fail(w http.ResponseWriter, status int, kind apperror.Kind, message string) {
	JSON(w, status, Response{Success: false, Error: message, Code: string(kind)})
}

// Err maps an application error onto its status code and envelope. Internal
// errors are logged here and replaced with a generic message.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}
	Fail(w, status, apperror.KindOf(err), apperror.Message(err))
}

// Decode reads a JSON body into dst, rejecting unknown fields
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.InvalidInput("invalid request body: %v", err)
	}
	return nil
}
