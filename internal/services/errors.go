package services

import (
	"errors"
	"net/http"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ServiceError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: http.StatusNotFound, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: http.StatusBadRequest, Message: msg}
}

func ErrForbidden(msg string) error {
	return ServiceError{Status: http.StatusForbidden, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: http.StatusUnauthorized, Message: msg}
}

func ErrConflict(msg string) error {
	return ServiceError{Status: http.StatusConflict, Message: msg}
}

func ErrValidation(fields []FieldError) error {
	msg := "Validation failed"
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return ServiceError{Status: http.StatusBadRequest, Message: msg, Fields: fields}
}

func ErrUnsupportedMedia(msg string) error {
	return ServiceError{Status: http.StatusUnsupportedMediaType, Message: msg}
}

func ErrTooLarge(msg string) error {
	return ServiceError{Status: http.StatusRequestEntityTooLarge, Message: msg}
}

func ErrUpstream(msg string) error {
	return ServiceError{Status: http.StatusBadGateway, Message: msg}
}

// AsServiceError reports whether err carries a ServiceError anywhere in its
// chain.
func AsServiceError(err error) (ServiceError, bool) {
	var serr ServiceError
	if errors.As(err, &serr) {
		return serr, true
	}
	return ServiceError{}, false
}
