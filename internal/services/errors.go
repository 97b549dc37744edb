// Package services defines the business logic for the herd records
// application. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrInvalidRange is returned when a date interval has its start
	// after its end. The range is rejected before any query runs and is
	// never silently swapped.
	ErrInvalidRange = errors.New("start date is after end date")

	// ErrCattleNotFound indicates that the requested animal does not
	// exist or is not accessible to the current user. Ownership mismatch
	// and non-existence are deliberately indistinguishable.
	ErrCattleNotFound = errors.New("cattle not found")

	// ErrRecordNotFound indicates that a requested production, health,
	// breeding, or feed record does not exist or is not accessible to
	// the current user.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNotificationNotFound indicates that the requested notification
	// does not exist or targets another user.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrDuplicateProduction is returned when a milk production write
	// collides with an existing (cattle, date, session) triple. The
	// original record is left unchanged; the caller decides whether to
	// edit it instead.
	ErrDuplicateProduction = errors.New("production already recorded for this cattle, date and session")

	// ErrNegativeQuantity is returned when a quantity, weight, or cost
	// that must be non-negative is not.
	ErrNegativeQuantity = errors.New("quantity must not be negative")

	// ErrInvalidSession is returned when a milking session is not one of
	// morning, afternoon, or evening.
	ErrInvalidSession = errors.New("invalid milking session")

	// ErrTerminalStatus is returned when a status change would move an
	// animal out of a terminal state (sold or deceased back to active).
	ErrTerminalStatus = errors.New("cattle status is terminal and cannot change")

	// ErrInvalidInput is returned for enum fields carrying a value
	// outside their allowed set (record type, breeding type, feed type,
	// priority, notification kind).
	ErrInvalidInput = errors.New("invalid field value")
)
