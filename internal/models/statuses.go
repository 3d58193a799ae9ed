package models

type UserStatus string
type UserRole string
type ModerationStatus string
type ReservationStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	ModerationStatusPending  ModerationStatus = "pending"
	ModerationStatusApproved ModerationStatus = "approved"
	ModerationStatusRejected ModerationStatus = "rejected"
)

// Reservation lifecycle:
//
//	pending -> confirmed -> deposit_submitted -> on_the_way -> ongoing
//	        -> awaiting_owner_confirmation -> completed
//
// Side exits: pending -> rejected|cancelled|expired, confirmed -> cancelled.
const (
	ReservationStatusPending                   ReservationStatus = "pending"
	ReservationStatusConfirmed                 ReservationStatus = "confirmed"
	ReservationStatusDepositSubmitted          ReservationStatus = "deposit_submitted"
	ReservationStatusOnTheWay                  ReservationStatus = "on_the_way"
	ReservationStatusOngoing                   ReservationStatus = "ongoing"
	ReservationStatusAwaitingOwnerConfirmation ReservationStatus = "awaiting_owner_confirmation"
	ReservationStatusCompleted                 ReservationStatus = "completed"
	ReservationStatusCancelled                 ReservationStatus = "cancelled"
	ReservationStatusRejected                  ReservationStatus = "rejected"
	ReservationStatusExpired                   ReservationStatus = "expired"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending: {
		ReservationStatusConfirmed,
		ReservationStatusRejected,
		ReservationStatusCancelled,
		ReservationStatusExpired,
	},
	ReservationStatusConfirmed: {
		ReservationStatusDepositSubmitted,
		ReservationStatusCancelled,
	},
	ReservationStatusDepositSubmitted: {
		ReservationStatusOnTheWay,
	},
	ReservationStatusOnTheWay: {
		ReservationStatusOngoing,
	},
	ReservationStatusOngoing: {
		ReservationStatusAwaitingOwnerConfirmation,
	},
	ReservationStatusAwaitingOwnerConfirmation: {
		ReservationStatusCompleted,
	},
}

// CanTransition reports whether from -> to is an allowed lifecycle step.
// Terminal states allow nothing.
func CanTransition(from, to ReservationStatus) bool {
	for _, next := range reservationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalReservationStatus reports whether no further transition is
// permitted. Terminal rows are kept forever for history and rating checks.
func IsTerminalReservationStatus(s ReservationStatus) bool {
	switch s {
	case ReservationStatusCompleted,
		ReservationStatusCancelled,
		ReservationStatusRejected,
		ReservationStatusExpired:
		return true
	}
	return false
}

// ConsumingStatuses are the statuses during which a reservation's quantity
// counts against the item's total units.
func ConsumingStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationStatusConfirmed,
		ReservationStatusDepositSubmitted,
		ReservationStatusOnTheWay,
		ReservationStatusOngoing,
		ReservationStatusAwaitingOwnerConfirmation,
	}
}

// IsConsumingStatus reports whether s is in the consuming set.
func IsConsumingStatus(s ReservationStatus) bool {
	for _, c := range ConsumingStatuses() {
		if c == s {
			return true
		}
	}
	return false
}

// DepartedStatuses are the consuming statuses whose units have physically
// left the owner's stock (progressed past pickup).
func DepartedStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationStatusOnTheWay,
		ReservationStatusOngoing,
		ReservationStatusAwaitingOwnerConfirmation,
	}
}

// IsValidReservationStatus reports whether s is a known status value.
func IsValidReservationStatus(s ReservationStatus) bool {
	switch s {
	case ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusDepositSubmitted,
		ReservationStatusOnTheWay,
		ReservationStatusOngoing,
		ReservationStatusAwaitingOwnerConfirmation,
		ReservationStatusCompleted,
		ReservationStatusCancelled,
		ReservationStatusRejected,
		ReservationStatusExpired:
		return true
	}
	return false
}
