package validator

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"renthub_backend/internal/models"
)

// registerCustomRules installs the project's validation tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-reservation-status", validateReservationStatus)
	mustRegister("is-moderation-status", validateModerationStatus)
	mustRegister("is-rating", validateRating)
	mustRegister("date-only", validateDateOnly)
}

func validateReservationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empties
	}
	return models.IsValidReservationStatus(models.ReservationStatus(value))
}

func validateModerationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ModerationStatus(value) {
	case models.ModerationStatusPending, models.ModerationStatusApproved, models.ModerationStatusRejected:
		return true
	}
	return false
}

func validateRating(fl validator.FieldLevel) bool {
	rating := fl.Field().Int()
	return rating >= 1 && rating <= 5
}

// Dates travel as YYYY-MM-DD strings; no time component is accepted.
func validateDateOnly(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.ParseInLocation("2006-01-02", value, time.Local)
	return err == nil
}
