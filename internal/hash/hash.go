package hash

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	ModePlain  = "plain"
	ModeBcrypt = "bcrypt"
)

// Hasher turns a password into its stored form and checks candidates against it.
type Hasher interface {
	HashPassword(password string) (string, error)
	CheckPassword(stored, password string) bool
}

func New(mode string) (Hasher, error) {
	switch mode {
	case ModePlain, "":
		return Plain{}, nil
	case ModeBcrypt:
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hashing mode %q", mode)
	}
}

// Plain stores passwords as given and compares them byte for byte.
// Kept for compatibility with existing plaintext user tables.
type Plain struct{}

func (Plain) HashPassword(password string) (string, error) {
	return password, nil
}

func (Plain) CheckPassword(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

type Bcrypt struct {
	Cost int
}

func (b Bcrypt) HashPassword(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

func (Bcrypt) CheckPassword(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
