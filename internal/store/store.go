// Package store durably persists finished registrations.
package store

import (
	"context"
	"time"

	"github.com/kersley/attend/internal/catalog"
)

// Receipt confirms a stored registration.
type Receipt struct {
	ID          string
	Email       string
	SubmittedAt time.Time
}

// Registrations is the contract the session machine submits through.
type Registrations interface {
	// Submit stores the validated answer set for the email.
	// Submitting again for the same email replaces the earlier record.
	Submit(ctx context.Context, email string, answers catalog.Answers) (Receipt, error)
}
