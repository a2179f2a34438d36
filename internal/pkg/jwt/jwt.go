package jwt

import (
	"time"

	"marketplace-booking/internal/domain/user"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errs.New("invalid token")
	ErrExpiredToken = errs.New("token expired")
)

// Claims identify a marketplace account. Tokens are issued by the marketplace
// auth service; this service only validates them, and IssueToken exists for
// tooling and tests.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	secret   []byte
	duration time.Duration
	issuer   string
	leeway   time.Duration
	clock    clock.Clock
}

func NewService(cfg config.JWTConfig, clk clock.Clock) *Service {
	return &Service{
		secret:   []byte(cfg.Secret),
		duration: cfg.Duration,
		issuer:   cfg.Issuer,
		leeway:   cfg.Leeway,
		clock:    clk,
	}
}

func (s *Service) IssueToken(userID uuid.UUID, role user.Role) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken accepts only HS256 tokens naming a known role and a
// non-nil account.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.clock.Now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errs.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, errs.Wrap(ErrInvalidToken, err.Error())
	}

	if claims.UserID == uuid.Nil {
		return nil, errs.Wrap(ErrInvalidToken, "token has no account")
	}
	if !claims.Role.IsValid() {
		return nil, errs.Wrapf(ErrInvalidToken, "unknown role %q", claims.Role)
	}
	return claims, nil
}
