package httputil

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshview/pkg/errors"
)

// ErrorBody is the JSON envelope of an error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// StatusFor maps an error to the HTTP status it is reported with.
// Errors without a code are internal. A body cut off by [BodySizeLimit]
// is 413 whatever code it was wrapped with.
func StatusFor(err error) int {
	if tooLarge(err) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeConfiguration, errors.ErrCodeConnection,
		errors.ErrCodeManycoreMismatch, errors.ErrCodeRouting:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError reports err to the client. Server-side failures are logged
// with their cause and answered with a generic message.
func WriteError(w http.ResponseWriter, logger *log.Logger, err error) {
	if tooLarge(err) {
		writeTooLarge(w)
		return
	}
	status := StatusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		if logger != nil {
			logger.Error("request failed", "err", err)
		}
		msg = "internal server error"
	}
	WriteJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return stderrors.As(err, &mbe)
}

func writeTooLarge(w http.ResponseWriter) {
	WriteJSON(w, http.StatusRequestEntityTooLarge, ErrorBody{Error: ErrorDetail{
		Code:    errors.ErrCodeInvalidInput,
		Message: "request body too large",
	}})
}

// WriteSVG writes an SVG document.
func WriteSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}
