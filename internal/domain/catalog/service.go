package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle          = errors.New("service title cannot be empty")
	ErrTitleTooLong        = errors.New("service title is too long (max 255 characters)")
	ErrNegativeBasePrice   = errors.New("base price cannot be negative")
	ErrInvalidBaseDuration = errors.New("base duration must be positive")
	ErrProviderRequired    = errors.New("service must have an owning provider")
)

const MaxTitleLength = 255

// Service is a bookable offering owned by exactly one provider. Listing
// management lives elsewhere; the booking core only reads it.
type Service struct {
	id                  uuid.UUID
	providerID          uuid.UUID
	title               string
	basePriceCents      int64
	baseDurationMinutes int
	createdAt           time.Time
	updatedAt           time.Time
}

func NewService(id, providerID uuid.UUID, title string, basePriceCents int64, baseDurationMinutes int) (*Service, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if providerID == uuid.Nil {
		return nil, ErrProviderRequired
	}
	if basePriceCents < 0 {
		return nil, ErrNegativeBasePrice
	}
	if baseDurationMinutes <= 0 {
		return nil, ErrInvalidBaseDuration
	}
	return &Service{
		id:                  id,
		providerID:          providerID,
		title:               title,
		basePriceCents:      basePriceCents,
		baseDurationMinutes: baseDurationMinutes,
	}, nil
}

func ReconstructService(id, providerID uuid.UUID, title string, basePriceCents int64, baseDurationMinutes int, createdAt, updatedAt time.Time) *Service {
	return &Service{
		id:                  id,
		providerID:          providerID,
		title:               title,
		basePriceCents:      basePriceCents,
		baseDurationMinutes: baseDurationMinutes,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

func (s *Service) IsOwnedBy(userID uuid.UUID) bool {
	return s.providerID == userID
}

func (s *Service) ID() uuid.UUID            { return s.id }
func (s *Service) ProviderID() uuid.UUID    { return s.providerID }
func (s *Service) Title() string            { return s.title }
func (s *Service) BasePriceCents() int64    { return s.basePriceCents }
func (s *Service) BaseDurationMinutes() int { return s.baseDurationMinutes }
func (s *Service) CreatedAt() time.Time     { return s.createdAt }
func (s *Service) UpdatedAt() time.Time     { return s.updatedAt }
