package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

const testSecret = "test-secret"

func TestGenerateJWT(t *testing.T) {
	jwtService := NewJWTService(testSecret)

	tests := []struct {
		name           string
		actor          domain.Actor
		expirationTime time.Time
	}{
		{
			name:           "Valid Token",
			actor:          domain.Actor{ID: "owner-1", Role: domain.RoleUser},
			expirationTime: time.Now().Add(time.Hour),
		},
		{
			name:           "Expired Token",
			actor:          domain.Actor{ID: "owner-1", Role: domain.RoleAdmin},
			expirationTime: time.Now().Add(-time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwtService.GenerateJWT(tt.actor, tt.expirationTime)

			assert.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}

func TestValidateToken(t *testing.T) {
	jwtService := NewJWTService(testSecret)

	tests := []struct {
		name          string
		tokenString   string
		setup         func() string
		expectError   bool
		expectedActor domain.Actor
	}{
		{
			name: "Valid Token",
			setup: func() string {
				token, _ := jwtService.GenerateJWT(domain.Actor{ID: "owner-1", Role: domain.RoleOrganizer}, time.Now().Add(time.Hour))
				return token
			},
			expectedActor: domain.Actor{ID: "owner-1", Role: domain.RoleOrganizer},
		},
		{
			name: "Missing role defaults to user",
			setup: func() string {
				token, _ := jwtService.GenerateJWT(domain.Actor{ID: "owner-2"}, time.Now().Add(time.Hour))
				return token
			},
			expectedActor: domain.Actor{ID: "owner-2", Role: domain.RoleUser},
		},
		{
			name:        "Invalid Token",
			tokenString: "invalid.token.string",
			expectError: true,
		},
		{
			name: "Expired Token",
			setup: func() string {
				token, _ := jwtService.GenerateJWT(domain.Actor{ID: "owner-1"}, time.Now().Add(-time.Hour))
				return token
			},
			expectError: true,
		},
		{
			name: "Signed with another secret",
			setup: func() string {
				token, _ := NewJWTService("other").GenerateJWT(domain.Actor{ID: "owner-1"}, time.Now().Add(time.Hour))
				return token
			},
			expectError: true,
		},
		{
			name: "Invalid Claims Type",
			setup: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
					ExpiresAt: time.Now().Add(time.Hour).Unix(),
					Issuer:    issuer,
				})
				signedToken, _ := token.SignedString([]byte(testSecret))
				return signedToken
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString := tt.tokenString
			if tt.setup != nil {
				tokenString = tt.setup()
			}

			claims, err := jwtService.ValidateToken(tokenString)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedActor, claims.Actor())
			}
		})
	}
}
