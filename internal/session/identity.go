package session

import (
	"strings"
	"unicode/utf8"

	"github.com/kersley/attend/internal/catalog"
)

// The five fixed early-identity steps, in order.
const (
	stepFirstName = iota
	stepLastName
	stepEmail
	stepPassword
	stepConfirmPassword
	identityStepCount
)

// Answer keys for the identity fields. Password material is never
// written to the answer map.
const (
	keyFirstName = "firstName"
	keyLastName  = "lastName"
	keyEmail     = "email"
)

const minPasswordLength = 8

// pendingIdentity holds password entry in progress. It lives only in
// memory and is zeroed once provisioning starts.
type pendingIdentity struct {
	password string
}

// ValidateFirstName checks a first-name input.
func ValidateFirstName(raw string) catalog.Result {
	if strings.TrimSpace(raw) == "" {
		return catalog.Invalid("Please enter your first name.")
	}
	return catalog.Valid()
}

// ValidateLastName checks a last-name input.
func ValidateLastName(raw string) catalog.Result {
	if strings.TrimSpace(raw) == "" {
		return catalog.Invalid("Please enter your last name.")
	}
	return catalog.Valid()
}

// ValidateEmail checks an email input for the basic local@domain.tld shape.
func ValidateEmail(raw string) catalog.Result {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return catalog.Invalid("Please enter your email address.")
	}
	if !catalog.ValidEmail(trimmed) {
		return catalog.Invalid("That does not look like a valid email address.")
	}
	return catalog.Valid()
}

// ValidatePassword checks password length.
func ValidatePassword(raw string) catalog.Result {
	if raw == "" {
		return catalog.Invalid("Please enter a password.")
	}
	if len(raw) < minPasswordLength {
		return catalog.Invalid("Passwords need at least 8 characters.")
	}
	return catalog.Valid()
}

// ValidateConfirmPassword checks the confirmation against the captured
// password. It must match exactly.
func ValidateConfirmPassword(password, confirm string) catalog.Result {
	if confirm != password {
		return catalog.Invalid("Passwords do not match.")
	}
	return catalog.Valid()
}

// PromptMasked reports whether the active step collects password
// material, so the shell can mask what is typed.
func (m *Machine) PromptMasked() bool {
	return m.phase == PhaseEarlyIdentity &&
		(m.step.Index == stepPassword || m.step.Index == stepConfirmPassword)
}

// identityPrompt returns the prompt line for an identity step.
func identityPrompt(step int) string {
	switch step {
	case stepFirstName:
		return "What is your first name?"
	case stepLastName:
		return "What is your last name?"
	case stepEmail:
		return "What email address should we use for your account?"
	case stepPassword:
		return "Choose a password (at least 8 characters)."
	case stepConfirmPassword:
		return "Type the password again to confirm."
	default:
		return ""
	}
}

// identityEcho returns the echo text for an identity step's input.
// Password material is masked.
func identityEcho(step int, raw string) string {
	if step == stepPassword || step == stepConfirmPassword {
		return strings.Repeat("*", utf8.RuneCountInString(raw))
	}
	return raw
}
