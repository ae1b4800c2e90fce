// Package identity talks to the conference account service: passwordless
// account provisioning keyed on email, confirmation-status checks, and
// confirmation-mail resends.
package identity

import "context"

// ProvisionStatus is the outcome of a provisioning request.
type ProvisionStatus string

const (
	// StatusConfirmationRequired means the account was created and the
	// user must confirm their email before continuing.
	StatusConfirmationRequired ProvisionStatus = "confirmation_required"
	// StatusAlreadyExists means an account is already registered for the
	// email address.
	StatusAlreadyExists ProvisionStatus = "already_exists"
)

// ProvisionResult reports a completed provisioning call.
type ProvisionResult struct {
	Status ProvisionStatus
	Email  string
}

// Service is the narrow contract the session machine consumes.
type Service interface {
	// Provision starts passwordless account creation for the email.
	Provision(ctx context.Context, email string) (ProvisionResult, error)

	// CheckConfirmed reports whether the most recently provisioned
	// identity has confirmed its email. Returns an error on transport
	// failure or when no identity is pending.
	CheckConfirmed(ctx context.Context) (bool, error)

	// Resend triggers a new confirmation mail for the email.
	Resend(ctx context.Context, email string) error
}
