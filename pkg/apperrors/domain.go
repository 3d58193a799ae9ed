package apperrors

import (
	"net/http"
)

// Factories and predefined errors for the rental domain.

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrCapacityConflict is the write-time capacity violation: the requested
// units are no longer available for the selected dates.
func ErrCapacityConflict(err error) *AppError {
	return Wrap(err, CodeCapacityConflict, "booking", "Fully booked for selected dates", http.StatusConflict)
}

// ErrStateConflict reports a conditional status update that matched zero
// rows: someone else already transitioned the reservation.
func ErrStateConflict(err error) *AppError {
	return Wrap(err, CodeStateConflict, "reservation", "Reservation was changed by someone else, refresh and retry", http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrSignInRequired = New(
	CodeUnauthorized,
	"auth",
	"Sign-in required",
	http.StatusUnauthorized,
)

var ErrOwnItemBooking = New(
	CodeForbidden,
	"booking",
	"Cannot book own item",
	http.StatusForbidden,
)
