package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"finovo/internal/auth"
	"finovo/internal/core"
	"finovo/internal/finmath"
	"finovo/internal/http/schema"
	"finovo/internal/log"
	"finovo/internal/services"
)

const maxBodyBytes = 1 << 20

// Error codes sent in the error envelope.
const (
	CodeValidation      = "validation_error"
	CodeBadRequest      = "bad_request"
	CodeUnauthorized    = "unauthorized"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeProfileRequired = "profile_incomplete"
	CodeRateLimited     = "rate_limited"
	CodeInternal        = "internal_error"
)

type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// badRequest marks a body that could not be decoded.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorBody{Error: apiError{Code: code, Message: message, Details: details}})
}

// classify maps an error to its status, code and details.
func classify(err error) (int, string, any) {
	var ve *schema.ValidationError
	var fe *finmath.ValidationError
	var br badRequest
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, CodeValidation, ve.Fields
	case errors.As(err, &fe):
		return http.StatusUnprocessableEntity, CodeValidation, []schema.FieldError{{Field: fe.Field, Message: fe.Reason}}
	case isDomainValidation(err):
		return http.StatusUnprocessableEntity, CodeValidation, nil
	case errors.As(err, &br):
		return http.StatusBadRequest, CodeBadRequest, nil
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrSessionNotFound):
		return http.StatusUnauthorized, CodeUnauthorized, nil
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, nil
	case errors.Is(err, services.ErrConfirmationMismatch):
		return http.StatusBadRequest, CodeBadRequest, nil
	case errors.Is(err, core.ErrEmailTaken):
		return http.StatusConflict, CodeConflict, nil
	case errors.Is(err, core.ErrProfileIncomplete):
		return http.StatusConflict, CodeProfileRequired, nil
	default:
		return http.StatusInternalServerError, CodeInternal, nil
	}
}

func isDomainValidation(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount, core.ErrInvalidDate, core.ErrEmptyCategory, core.ErrInvalidExpenseType,
		core.ErrDescriptionTooLong, core.ErrInvalidEnum, core.ErrInvalidAge, core.ErrEmptyGoalName,
		core.ErrInvalidProfile, auth.ErrInvalidEmail, auth.ErrWeakPassword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError sends the error envelope. Internal errors are logged and their
// message is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, details := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(), "Request failed", err,
			log.ComponentHTTP, r.Method+" "+r.URL.Path, nil)
		msg = "Something went wrong. Please try again."
	}
	writeAPIError(w, status, code, msg, details)
}

// decode reads the body, validates it against the named schema and
// unmarshals it into dst.
func (s *Server) decode(r *http.Request, name string, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return badRequest{fmt.Errorf("read body: %w", err)}
	}
	if len(body) > maxBodyBytes {
		return badRequest{errors.New("request body too large")}
	}
	if strings.TrimSpace(string(body)) == "" {
		return badRequest{errors.New("request body is empty")}
	}
	if !json.Valid(body) {
		return badRequest{errors.New("request body is not valid JSON")}
	}
	if err := s.schemas.Validate(name, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return badRequest{fmt.Errorf("decode body: %w", err)}
	}
	return nil
}
