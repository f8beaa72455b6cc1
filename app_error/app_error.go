package app_error

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindValidationFailed  Kind = "VALIDATION_FAILED"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindForbidden         Kind = "FORBIDDEN"
	KindDependencyFailure Kind = "DEPENDENCY_FAILURE"
)

var statusByKind = map[Kind]int{
	KindNotFound:          http.StatusNotFound,
	KindConflict:          http.StatusConflict,
	KindValidationFailed:  http.StatusUnprocessableEntity,
	KindUnauthorized:      http.StatusUnauthorized,
	KindForbidden:         http.StatusForbidden,
	KindDependencyFailure: http.StatusInternalServerError,
}

type statusError struct {
	error
	kind Kind
}

func (e statusError) Unwrap() error {
	return e.error
}

func (e statusError) Kind() Kind {
	return e.kind
}

func New(kind Kind, format string, args ...any) error {
	return statusError{error: fmt.Errorf(format, args...), kind: kind}
}

func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return statusError{error: err, kind: kind}
}

func NotFound(format string, args ...any) error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) error {
	return New(KindConflict, format, args...)
}

func ValidationFailed(format string, args ...any) error {
	return New(KindValidationFailed, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return New(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) error {
	return New(KindForbidden, format, args...)
}

func DependencyFailure(err error) error {
	return Wrap(KindDependencyFailure, err)
}

// KindOf classifies err. Unclassified errors are dependency failures and a missing
// gorm record is a not-found.
func KindOf(err error) Kind {
	var se statusError
	if errors.As(err, &se) {
		return se.kind
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}
	return KindDependencyFailure
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(err error) int {
	return statusByKind[KindOf(err)]
}

// Respond writes err with the status of its kind. Dependency failures are logged and
// answered with a generic message.
func Respond(c *gin.Context, err error) {
	kind := KindOf(err)
	if kind == KindDependencyFailure {
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": kind})
		return
	}
	c.AbortWithStatusJSON(statusByKind[kind], gin.H{"error": err.Error(), "kind": kind})
}
