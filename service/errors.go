package service

import (
	"errors"

	"inc/app_error"
	"inc/config"

	"gorm.io/gorm"
)

// notFoundOr turns a missing record into a not-found error and anything else into a
// dependency failure. Errors that already carry a kind pass through.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return app_error.NotFound(format, args...)
	}
	return dependency(err)
}

func dependency(err error) error {
	if err == nil {
		return nil
	}
	if app_error.KindOf(err) != app_error.KindDependencyFailure {
		return err
	}
	return app_error.DependencyFailure(err)
}

func lookupEvent(events *config.Events, name string) (*config.Event, error) {
	event, ok := events.Get(name)
	if !ok {
		return nil, app_error.NotFound("event %s does not exist", name)
	}
	return event, nil
}
