package auth

import (
	"strconv"
	"time"

	"github.com/invoice-manager/invoice-manager/internal/shared"
)

// User represents an authenticated user account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the identity the rest of the application sees.
func (u User) Principal() shared.Principal {
	return shared.Principal{ID: strconv.FormatInt(u.ID, 10), Email: u.Email}
}
