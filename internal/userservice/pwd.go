package userservice

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// set replaces the stored hash with one derived from plaintext.
func (p *Password) set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	p.Plain = plaintext
	p.hash = hash

	return nil
}

// matches reports whether plaintext is the password behind the stored hash.
// A corrupt stored hash is an error, not a mismatch.
func (p *Password) matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password hash: %w", err)
	}
}
