package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindUpstream   Kind = "upstream"
	KindConfig     Kind = "config"
	KindStorage    Kind = "storage"
	KindRateLimit  Kind = "rate_limit"
)

// Error — результат запроса с конкретной причиной. Code и Message уходят клиенту,
// Data дополняет блок "data" ответа (status добавляется всегда).
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Status  int
	Data    map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, status int, code, message string) *Error {
	return &Error{Kind: kind, Status: status, Code: code, Message: message}
}

// With возвращает копию ошибки с дополнительным полем в Data.
func (e *Error) With(key string, value any) *Error {
	cp := *e
	cp.Data = make(map[string]any, len(e.Data)+1)
	for k, v := range e.Data {
		cp.Data[k] = v
	}
	cp.Data[key] = value
	return &cp
}

func (e *Error) WithCause(err error) *Error {
	cp := *e
	cp.Cause = err
	return &cp
}

func Validation(code, message string) *Error {
	return New(KindValidation, http.StatusBadRequest, code, message)
}

func Unauthorized(code, message string) *Error {
	return New(KindAuth, http.StatusUnauthorized, code, message)
}

func Forbidden(code, message string) *Error {
	return New(KindAuth, http.StatusForbidden, code, message)
}

func Upstream(status int, code, message string) *Error {
	return New(KindUpstream, status, code, message)
}

func Config(code, message string) *Error {
	return New(KindConfig, http.StatusInternalServerError, code, message)
}

func Storage(code, message string, cause error) *Error {
	return New(KindStorage, http.StatusInternalServerError, code, message).WithCause(cause)
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func HasCode(err error, code string) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// StatusOf: для "чужих" ошибок: 500.
func StatusOf(err error) int {
	if e, ok := As(err); ok && e.Status > 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}
