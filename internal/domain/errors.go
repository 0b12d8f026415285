package domain

import (
	"errors"
	"maps"
)

type Kind string

const (
	KindEntityNotFound Kind = "EntityNotFound"
	KindValidation     Kind = "Validation"
	KindService        Kind = "Service"
	KindUnknown        Kind = "Unknown"
)

type ServiceType string

const (
	ServiceInternal ServiceType = "Internal"
	ServiceExternal ServiceType = "External"
)

// Reasons the HTTP layer and callers switch on.
const (
	ReasonInvalidToken          = "Invalid token"
	ReasonInvalidOrMissingToken = "Invalid or missing token"
	ReasonUserExists            = "User already exists"
	ReasonUserCreationFailed    = "User creation failed"
	ReasonAuthenticationFailed  = "Authentication failed"
	ReasonPasswordUpdateFailed  = "Password update failed"
)

type NotFoundDetails struct {
	Query  string
	System string
}

type Issue struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Value  string `json:"-"`
}

type ValidationDetails struct {
	Issues []Issue
}

type ServiceDetails struct {
	Type        ServiceType
	ServiceName string
	System      string
	Reason      string
	Value       string
	Path        string
}

// Error is the tagged failure value returned across layer boundaries.
// Exactly one details payload is set, matching kind. Build it with the
// New* constructors only.
type Error struct {
	Message string
	Context map[string]string

	kind       Kind
	notFound   *NotFoundDetails
	validation *ValidationDetails
	service    *ServiceDetails
	cause      error
}

func NewNotFound(message string, d NotFoundDetails) *Error {
	return &Error{Message: message, kind: KindEntityNotFound, notFound: &d, Context: map[string]string{}}
}

func NewValidation(message string, issues ...Issue) *Error {
	return &Error{Message: message, kind: KindValidation, validation: &ValidationDetails{Issues: issues}, Context: map[string]string{}}
}

func NewService(message string, d ServiceDetails) *Error {
	return &Error{Message: message, kind: KindService, service: &d, Context: map[string]string{}}
}

func NewUnknown(message string) *Error {
	return &Error{Message: message, kind: KindUnknown, Context: map[string]string{}}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }

// Wrap records the underlying error for logs and errors.Is. It does not
// change the message shown to clients.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

// With adds a context entry and returns e for chaining.
func (e *Error) With(key, value string) *Error {
	if e.Context == nil {
		e.Context = map[string]string{}
	}
	e.Context[key] = value
	return e
}

// WithContext merges ctx into the error context.
func (e *Error) WithContext(ctx map[string]string) *Error {
	if e.Context == nil {
		e.Context = map[string]string{}
	}
	maps.Copy(e.Context, ctx)
	return e
}

// NotFound returns the details of an EntityNotFound error.
func (e *Error) NotFound() (NotFoundDetails, bool) {
	if e.notFound == nil {
		return NotFoundDetails{}, false
	}
	return *e.notFound, true
}

func (e *Error) Validation() (ValidationDetails, bool) {
	if e.validation == nil {
		return ValidationDetails{}, false
	}
	return *e.validation, true
}

func (e *Error) Service() (ServiceDetails, bool) {
	if e.service == nil {
		return ServiceDetails{}, false
	}
	return *e.service, true
}

// Matcher holds one handler per error kind.
type Matcher[T any] struct {
	EntityNotFound func(e *Error, d NotFoundDetails) T
	Validation     func(e *Error, d ValidationDetails) T
	Service        func(e *Error, d ServiceDetails) T
	Unknown        func(err error) T
}

// Match dispatches err to the handler for its kind. Plain errors and
// domain errors of an unrecognised kind go to Unknown. A nil handler for a
// recognised kind also falls back to Unknown, and a nil Unknown yields the
// zero T.
func Match[T any](err error, m Matcher[T]) T {
	var de *Error
	if errors.As(err, &de) {
		switch de.kind {
		case KindEntityNotFound:
			if m.EntityNotFound != nil {
				return m.EntityNotFound(de, *de.notFound)
			}
		case KindValidation:
			if m.Validation != nil {
				return m.Validation(de, *de.validation)
			}
		case KindService:
			if m.Service != nil {
				return m.Service(de, *de.service)
			}
		}
	}
	if m.Unknown == nil {
		var zero T
		return zero
	}
	return m.Unknown(err)
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	de, ok := AsError(err)
	return ok && de.kind == kind
}

// HasReason reports whether err is a Service error with the given reason.
func HasReason(err error, reason string) bool {
	de, ok := AsError(err)
	if !ok || de.service == nil {
		return false
	}
	return de.service.Reason == reason
}
