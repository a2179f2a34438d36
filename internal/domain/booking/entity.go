package booking

import (
	"errors"
	"time"

	"marketplace-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrSelfBooking         = errors.New("provider cannot book their own service")
	ErrStartInPast         = errors.New("booking must start in the future")
	ErrNotParticipant      = errors.New("actor is not a participant of the booking")
	ErrNotProvider         = errors.New("only the provider may perform this action")
	ErrInvalidTransition   = errors.New("booking status transition not allowed")
	ErrAlreadyStarted      = errors.New("booking has already started")
	ErrCancelNoticeTooLate = errors.New("cancellation notice period has passed")
	ErrNotYetEnded         = errors.New("booking has not ended yet")
)

type ServiceSpec struct {
	ID                  uuid.UUID
	ProviderID          uuid.UUID
	BasePriceCents      int64
	BaseDurationMinutes int
}

type Services struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
	Policy          Policy
}

type Booking struct {
	id              uuid.UUID
	serviceID       uuid.UUID
	providerID      uuid.UUID
	clientID        uuid.UUID
	startTime       time.Time
	endTime         time.Time
	durationMinutes int
	status          Status
	price           Money
	note            Note
	meetingLink     MeetingLink
	createdAt       time.Time
	updatedAt       time.Time
}

// NewBooking prices and opens a booking. Whether the interval fits the
// provider's availability is checked by the caller against live data.
func NewBooking(
	services *Services,
	svc ServiceSpec,
	clientID uuid.UUID,
	start time.Time,
	durationMinutes int,
	note Note,
) (*Booking, error) {
	if err := services.Policy.ValidateDuration(durationMinutes); err != nil {
		return nil, err
	}
	if clientID == svc.ProviderID {
		return nil, ErrSelfBooking
	}
	now := services.Clock.Now()
	if !start.After(now) {
		return nil, ErrStartInPast
	}

	cents := services.PriceCalculator.CalculatePriceCents(PriceContext{
		ServiceID:           svc.ID,
		BasePriceCents:      svc.BasePriceCents,
		BaseDurationMinutes: svc.BaseDurationMinutes,
	}, durationMinutes)
	price, err := NewMoney(cents)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:              uuid.New(),
		serviceID:       svc.ID,
		providerID:      svc.ProviderID,
		clientID:        clientID,
		startTime:       start,
		endTime:         start.Add(time.Duration(durationMinutes) * time.Minute),
		durationMinutes: durationMinutes,
		status:          services.Policy.initialStatus(),
		price:           price,
		note:            note,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func ReconstructBooking(
	id, serviceID, providerID, clientID uuid.UUID,
	startTime, endTime time.Time,
	durationMinutes int,
	status Status,
	price Money,
	note Note,
	meetingLink MeetingLink,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		serviceID:       serviceID,
		providerID:      providerID,
		clientID:        clientID,
		startTime:       startTime,
		endTime:         endTime,
		durationMinutes: durationMinutes,
		status:          status,
		price:           price,
		note:            note,
		meetingLink:     meetingLink,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return userID == b.clientID || userID == b.providerID
}

// Cancel is open to either participant while the booking is active and has
// not started, minus the configured notice.
func (b *Booking) Cancel(actorID uuid.UUID, now time.Time, policy Policy) error {
	if !b.IsParticipant(actorID) {
		return ErrNotParticipant
	}
	if !b.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	if !now.Before(b.startTime) {
		return ErrAlreadyStarted
	}
	if policy.CancelMinNotice > 0 && now.Add(policy.CancelMinNotice).After(b.startTime) {
		return ErrCancelNoticeTooLate
	}
	return b.transition(StatusCancelled, now)
}

func (b *Booking) Complete(actorID uuid.UUID, now time.Time, policy Policy) error {
	if actorID != b.providerID {
		return ErrNotProvider
	}
	if b.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	if policy.EnforceCompleteAfterEnd && now.Before(b.endTime) {
		return ErrNotYetEnded
	}
	return b.transition(StatusCompleted, now)
}

func (b *Booking) Confirm(actorID uuid.UUID, now time.Time) error {
	if actorID != b.providerID {
		return ErrNotProvider
	}
	if b.status != StatusPending {
		return ErrInvalidTransition
	}
	return b.transition(StatusConfirmed, now)
}

func (b *Booking) AttachMeetingLink(actorID uuid.UUID, link MeetingLink, now time.Time) error {
	if actorID != b.providerID {
		return ErrNotProvider
	}
	if b.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.meetingLink = link
	b.updatedAt = now
	return nil
}

func (b *Booking) transition(next Status, now time.Time) error {
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	b.status = next
	b.updatedAt = now
	return nil
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) ServiceID() uuid.UUID     { return b.serviceID }
func (b *Booking) ProviderID() uuid.UUID    { return b.providerID }
func (b *Booking) ClientID() uuid.UUID      { return b.clientID }
func (b *Booking) StartTime() time.Time     { return b.startTime }
func (b *Booking) EndTime() time.Time       { return b.endTime }
func (b *Booking) DurationMinutes() int     { return b.durationMinutes }
func (b *Booking) Status() Status           { return b.status }
func (b *Booking) Price() Money             { return b.price }
func (b *Booking) Note() Note               { return b.note }
func (b *Booking) MeetingLink() MeetingLink { return b.meetingLink }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time     { return b.updatedAt }
