package usecase

import (
	"marketplace-booking/internal/pkg/jwt"
	"marketplace-booking/internal/usecase/shared"
)

// TokenValidator turns a bearer token issued by the marketplace auth service
// into the calling actor.
type TokenValidator interface {
	ValidateToken(tokenString string) (shared.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (shared.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return shared.Actor{}, err
	}
	return shared.Actor{ID: claims.UserID, Role: claims.Role}, nil
}
