package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptySecret = errors.New("secret cannot be empty")

// HashServiceInterface guards organizer security codes.
type HashServiceInterface interface {
	Hash(secret string) (string, error)
	Compare(hashed, secret string) bool
}

type HashService struct{}

func (b *HashService) Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b *HashService) Compare(hashed, secret string) bool {
	if hashed == "" || secret == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
	return err == nil
}
