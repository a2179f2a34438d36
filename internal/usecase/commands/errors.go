package commands

import (
	"errors"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/domain/booking"
	"marketplace-booking/internal/domain/reservation"
	"marketplace-booking/internal/pkg/errs"
)

var (
	ErrServiceNotOwned = errs.New("service is not owned by actor")
	ErrBookingNotFound = errs.New("booking not found")
	ErrServiceNotFound = errs.New("service not found")
)

// classify marks domain failures with the error kind callers switch on.
// Errors that already carry a kind pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case hasKind(err):
		return err
	case errors.Is(err, booking.ErrNotParticipant),
		errors.Is(err, booking.ErrNotProvider),
		errors.Is(err, ErrServiceNotOwned):
		return errs.Mark(err, errs.ErrUnauthorizedAction)
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrAlreadyStarted),
		errors.Is(err, booking.ErrCancelNoticeTooLate),
		errors.Is(err, booking.ErrNotYetEnded):
		return errs.Mark(err, errs.ErrInvalidTransition)
	case errors.Is(err, booking.ErrStartInPast):
		return errs.Mark(err, errs.ErrSlotUnavailable)
	case errors.Is(err, booking.ErrInvalidDuration),
		errors.Is(err, booking.ErrNoteTooLong),
		errors.Is(err, booking.ErrSelfBooking),
		errors.Is(err, booking.ErrInvalidMeetingLink),
		errors.Is(err, booking.ErrNegativePrice),
		errors.Is(err, availability.ErrInvalidWindows),
		errors.Is(err, availability.ErrInvalidDayOfWeek),
		errors.Is(err, availability.ErrInvalidTimeOfDay),
		errors.Is(err, reservation.ErrInvalidHold):
		return errs.Mark(err, errs.ErrValidation)
	default:
		return err
	}
}

func hasKind(err error) bool {
	return errs.Is(err, errs.ErrValidation) ||
		errs.Is(err, errs.ErrSlotUnavailable) ||
		errs.Is(err, errs.ErrConflict) ||
		errs.Is(err, errs.ErrUnauthorizedAction) ||
		errs.Is(err, errs.ErrNotFound) ||
		errs.Is(err, errs.ErrInvalidTransition)
}
