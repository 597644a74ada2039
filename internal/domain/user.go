package domain

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 8

// User represents a registered account that owns generations and flashcards.
// Password is only populated transiently during registration; persistence
// works with HashedPassword.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and plaintext password.
// It generates a new UUID for the user ID and sets timestamps.
// Returns an error if validation fails.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}

	// Either a plaintext password (pre-hash) or a stored hash must be present.
	if u.Password == "" && u.HashedPassword == "" {
		return ErrInvalidPassword
	}

	if u.Password != "" && len(u.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters",
			ErrInvalidPassword, MinPasswordLength)
	}

	return nil
}
