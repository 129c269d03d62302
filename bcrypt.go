package guard

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 14

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyPassword
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// TemporaryCredentialHash generates a temporary credential and its bcrypt
// hash. The plaintext is returned exactly once; only the hash is meant to
// be stored.
func TemporaryCredentialHash(length int) (plaintext, hash string, err error) {
	plaintext, err = GenerateTemporaryCredential(length)
	if err != nil {
		return "", "", err
	}

	hash, err = HashPassword(plaintext)
	if err != nil {
		return "", "", err
	}

	return plaintext, hash, nil
}
