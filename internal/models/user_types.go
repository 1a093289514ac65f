package models

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// User is the model for the 'users' table.
type User struct {
	ID            int64   `json:"id" db:"user_id"`
	Name          string  `json:"name" db:"name"`
	Email         string  `json:"email" db:"email"`
	PasswordHash  string  `json:"-" db:"password"`
	WalletBalance float64 `json:"walletBalance" db:"wallet_balance"`
}

// Password wraps a bcrypt hash together with the plaintext it was
// derived from (kept only in memory, never stored).
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
