package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Token failure codes. Every auth failure maps to 403; 401 is deliberately
// not used anywhere on this surface.
const (
	CodeBadConfig         = "BAD_CONFIG"
	CodeBadCredentials    = "BAD_CREDENTIALS"
	CodeNoAuthHeader      = "NO_AUTH_HEADER"
	CodeMalformedHeader   = "MALFORMED_HEADER"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeBadIssuer         = "BAD_ISSUER"
	CodeMissingUserID     = "MISSING_USER_ID"
	CodeMissingTrackingID = "MISSING_TRACKING_ID"
	CodeTokenRevoked      = "TOKEN_REVOKED"
	CodeStoreConflict     = "STORE_CONFLICT"
	CodeStoreError        = "STORE_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewBadConfig reports a missing or unusable signing secret.
func NewBadConfig() error {
	return NewDomainError(CodeBadConfig, "token signing is not configured properly, please contact the admin", http.StatusForbidden, nil)
}

// NewBadCredentials reports a failed credential check without revealing
// whether the username or the password was wrong.
func NewBadCredentials() error {
	return NewDomainError(CodeBadCredentials, "bad username or password", http.StatusForbidden, nil)
}

// NewNoAuthHeader reports an absent Authorization header. Middleware treats
// this code as "no assertion present" rather than a rejection.
func NewNoAuthHeader() error {
	return NewDomainError(CodeNoAuthHeader, "authorization header not found", http.StatusForbidden, nil)
}

// NewMalformedHeader reports an Authorization header that is not in the
// "Bearer <token>" shape.
func NewMalformedHeader() error {
	return NewDomainError(CodeMalformedHeader, "authorization header malformed", http.StatusForbidden, nil)
}

// NewInvalidToken collapses signature, structure and temporal failures into
// a single client-facing kind.
func NewInvalidToken(err error) error {
	return &DomainError{Code: CodeInvalidToken, Message: "invalid token", HTTPStatus: http.StatusForbidden, Err: err}
}

// NewBadIssuer reports an issuer claim that does not match this server.
func NewBadIssuer() error {
	return NewDomainError(CodeBadIssuer, "the token issuer does not match this server", http.StatusForbidden, nil)
}

// NewMissingUserID reports a token with no user id in its payload.
func NewMissingUserID() error {
	return NewDomainError(CodeMissingUserID, "user id not found in the token", http.StatusForbidden, nil)
}

// NewMissingTrackingID reports a token with no tracking id where one is required.
func NewMissingTrackingID() error {
	return NewDomainError(CodeMissingTrackingID, "tracking id not found in the token", http.StatusForbidden, nil)
}

// NewTokenRevoked reports a tracking id that is absent from the store or no
// longer active.
func NewTokenRevoked() error {
	return NewDomainError(CodeTokenRevoked, "token has been revoked", http.StatusForbidden, nil)
}

// NewStoreConflict reports a duplicate tracking id on record creation.
func NewStoreConflict(err error) error {
	return &DomainError{Code: CodeStoreConflict, Message: "tracking record already exists", HTTPStatus: http.StatusForbidden, Err: err}
}

// NewStoreError reports a tracking store failure. Issuance and validation
// surface it immediately rather than retrying.
func NewStoreError(err error) error {
	return &DomainError{Code: CodeStoreError, Message: "tracking store unavailable", HTTPStatus: http.StatusForbidden, Err: err}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries the given domain code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{
			Code:       "REQUEST_FAILED",
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
