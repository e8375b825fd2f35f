package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

const issuer = "rafflehub"

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidTokenClaims = errors.New("invalid token claims")
)

type JWTServiceInterface interface {
	GenerateJWT(actor domain.Actor, expirationTime time.Time) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims carry the identity asserted by the external identity service.
type Claims struct {
	OwnerID string `json:"owner_id"`
	Role    string `json:"role"`
	jwt.StandardClaims
}

func (c *Claims) Actor() domain.Actor {
	role := domain.Role(c.Role)
	if role == "" {
		role = domain.RoleUser
	}
	return domain.Actor{ID: c.OwnerID, Role: role}
}

type JWTService struct {
	secret []byte
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

func (s *JWTService) GenerateJWT(actor domain.Actor, expirationTime time.Time) (string, error) {
	claims := Claims{
		OwnerID: actor.ID,
		Role:    string(actor.Role),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.OwnerID == "" || claims.Issuer != issuer {
		return nil, ErrInvalidTokenClaims
	}

	return claims, nil
}
