package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrRecordNotFound = errors.New("record not found")
)

// ClientError is a failure that carries the HTTP status and message the caller should see.
type ClientError struct {
	Status  int
	Message string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewClientError(status int, message string) *ClientError {
	return &ClientError{Status: status, Message: message}
}

// NotFoundError reports that no record exists for id.
func NotFoundError(id string) *ClientError {
	return NewClientError(http.StatusNotFound, fmt.Sprintf("Record with %s does not exist", id))
}

func ForbiddenError(message string) *ClientError {
	return NewClientError(http.StatusForbidden, message)
}
