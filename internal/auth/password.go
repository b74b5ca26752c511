package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when BCRYPT_COST is unset.
const DefaultCost = 12

// maxPasswordBytes is bcrypt's input limit. Longer inputs would be truncated.
const maxPasswordBytes = 72

var (
	// ErrPasswordMismatch means the plaintext does not match the stored hash.
	ErrPasswordMismatch = errors.New("auth: invalid password")
	// ErrPasswordTooLong rejects plaintexts bcrypt would silently truncate.
	ErrPasswordTooLong = errors.New("auth: password must be 72 bytes or fewer")
)

// PasswordService hashes account passwords at registration and seed time and
// checks them at login. Only the hash is ever stored on a User; the salt and
// cost travel inside it.
type PasswordService struct {
	cost int
}

func NewPasswordService() *PasswordService {
	return &PasswordService{cost: DefaultCost}
}

// NewPasswordServiceWithCost hashes with cost, or DefaultCost when cost is
// outside bcrypt's accepted range.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return NewPasswordService()
	}
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt encoding of plaintext.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(out), nil
}

// Verify returns nil on a match and ErrPasswordMismatch on a wrong password.
// A malformed hash is reported as a wrapped bcrypt error.
func (p *PasswordService) Verify(hash, plaintext string) error {
	switch err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
}
