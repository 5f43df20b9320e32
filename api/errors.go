package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/veriluxe/certificate-registry/interfaces"
)

// Error codes carried in the error envelope.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeDuplicateID        = "DUPLICATE_ID"
	CodeInvalidCertificate = "INVALID_CERTIFICATE"
	CodeNotInitialized     = "NOT_INITIALIZED"
	CodeAlreadyInitialized = "ALREADY_INITIALIZED"
	CodeInvalidInput       = "INVALID_INPUT"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

var (
	// ErrInvalidInput marks malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited is reported when the server refuses a request for load reasons.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// InvalidInput wraps ErrInvalidInput with a description of the problem.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// StatusCodeFor maps an error to the HTTP status and envelope code it is
// reported with.
func StatusCodeFor(err error) (int, string) {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, interfaces.ErrNotFound), errors.Is(err, interfaces.ErrContentNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, interfaces.ErrAuthorization):
		return http.StatusBadRequest, CodeUnauthorized
	case errors.Is(err, interfaces.ErrDuplicateID):
		return http.StatusBadRequest, CodeDuplicateID
	case errors.Is(err, interfaces.ErrInvalidCertificate):
		return http.StatusBadRequest, CodeInvalidCertificate
	case errors.Is(err, interfaces.ErrNotInitialized):
		return http.StatusBadRequest, CodeNotInitialized
	case errors.Is(err, interfaces.ErrAlreadyInitialized):
		return http.StatusBadRequest, CodeAlreadyInitialized
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, CodePayloadTooLarge
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, CodeRateLimited
	case errors.Is(err, interfaces.ErrStoreUnavailable), errors.Is(err, interfaces.ErrBackendUnavailable):
		return http.StatusInternalServerError, CodeStoreUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope around data.
func WriteSuccess(w http.ResponseWriter, log *slog.Logger, data any, message string) {
	err := WriteJSON(w, http.StatusOK, Envelope[any]{
		Success: true,
		Data:    data,
		Message: message,
	})
	if err != nil {
		log.Error("Failed to encode response", "err", err)
	}
}

// WriteError writes an error envelope for err. Server-side failures are
// logged and their details withheld from the client.
func WriteError(w http.ResponseWriter, log *slog.Logger, err error) {
	status, code := StatusCodeFor(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "err", err, "code", code)
		message = http.StatusText(status)
	} else {
		log.Debug("Request rejected", "err", err, "code", code)
	}

	if encErr := WriteJSON(w, status, Envelope[any]{Error: message, Code: code}); encErr != nil {
		log.Error("Failed to encode error response", "err", encErr)
	}
}

// Error is a failed response as seen by a client.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d %s)", e.Message, e.StatusCode, e.Code)
}

// Unwrap exposes the sentinel error matching the response code, so callers
// can use errors.Is the same way they would against a local registry.
func (e *Error) Unwrap() error {
	switch e.Code {
	case CodeNotFound:
		return interfaces.ErrNotFound
	case CodeUnauthorized:
		return interfaces.ErrAuthorization
	case CodeDuplicateID:
		return interfaces.ErrDuplicateID
	case CodeInvalidCertificate:
		return interfaces.ErrInvalidCertificate
	case CodeNotInitialized:
		return interfaces.ErrNotInitialized
	case CodeAlreadyInitialized:
		return interfaces.ErrAlreadyInitialized
	case CodeInvalidInput:
		return ErrInvalidInput
	case CodeRateLimited:
		return ErrRateLimited
	case CodeStoreUnavailable:
		return interfaces.ErrStoreUnavailable
	default:
		return nil
	}
}

// DecodeResponse reads an envelope from resp. On failure the returned error
// is an *Error.
func DecodeResponse[T any](resp *http.Response) (T, error) {
	var envelope Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		var zero T
		return zero, fmt.Errorf("could not parse response (status %d): %w", resp.StatusCode, err)
	}

	if !envelope.Success {
		var zero T
		return zero, &Error{
			StatusCode: resp.StatusCode,
			Code:       envelope.Code,
			Message:    envelope.Error,
		}
	}
	return envelope.Data, nil
}
