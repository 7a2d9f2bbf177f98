// Package callable implements the Firebase callable-function protocol on echo:
// requests carry {"data": ...}, responses are {"result": ...} or
// {"error": {"status", "message"}}.
package callable

import (
	"fmt"
	"net/http"
	"strings"
)

// Code is a callable error code as used by the client SDKs.
type Code string

const (
	CodeCancelled          Code = "cancelled"
	CodeUnknown            Code = "unknown"
	CodeInvalidArgument    Code = "invalid-argument"
	CodeDeadlineExceeded   Code = "deadline-exceeded"
	CodeNotFound           Code = "not-found"
	CodeAlreadyExists      Code = "already-exists"
	CodePermissionDenied   Code = "permission-denied"
	CodeResourceExhausted  Code = "resource-exhausted"
	CodeFailedPrecondition Code = "failed-precondition"
	CodeAborted            Code = "aborted"
	CodeOutOfRange         Code = "out-of-range"
	CodeUnimplemented      Code = "unimplemented"
	CodeInternal           Code = "internal"
	CodeUnavailable        Code = "unavailable"
	CodeDataLoss           Code = "data-loss"
	CodeUnauthenticated    Code = "unauthenticated"
)

var httpStatus = map[Code]int{
	CodeCancelled:          499,
	CodeUnknown:            http.StatusInternalServerError,
	CodeInvalidArgument:    http.StatusBadRequest,
	CodeDeadlineExceeded:   http.StatusGatewayTimeout,
	CodeNotFound:           http.StatusNotFound,
	CodeAlreadyExists:      http.StatusConflict,
	CodePermissionDenied:   http.StatusForbidden,
	CodeResourceExhausted:  http.StatusTooManyRequests,
	CodeFailedPrecondition: http.StatusBadRequest,
	CodeAborted:            http.StatusConflict,
	CodeOutOfRange:         http.StatusBadRequest,
	CodeUnimplemented:      http.StatusNotImplemented,
	CodeInternal:           http.StatusInternalServerError,
	CodeUnavailable:        http.StatusServiceUnavailable,
	CodeDataLoss:           http.StatusInternalServerError,
	CodeUnauthenticated:    http.StatusUnauthorized,
}

// HTTPStatus returns the HTTP status code the protocol uses for c.
func (c Code) HTTPStatus() int {
	if s, ok := httpStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Status returns the wire status, e.g. "invalid-argument" -> "INVALID_ARGUMENT".
func (c Code) Status() string {
	if _, ok := httpStatus[c]; !ok {
		return "INTERNAL"
	}
	return strings.ToUpper(strings.ReplaceAll(string(c), "-", "_"))
}

// Error is an error returned to the caller with a code and message.
type Error struct {
	Code    Code
	Message string
	Details any
}

// NewError creates a callable error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrInternal is the generic error every unexpected failure is reported as.
var ErrInternal = NewError(CodeInternal, "Internal error")

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
