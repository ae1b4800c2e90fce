// Package session implements the registration session state machine: it
// owns the phase, the current step pointer, the accumulated answers and
// the last error, and drives every transition by consuming one event at
// a time. External collaborator calls are modeled as explicit pending
// phases: dispatching emits an effect, the caller executes it and feeds
// the outcome back as a resolution event.
package session

// Phase is the top-level discrete state of the session machine.
type Phase int

const (
	PhaseLoadingSaved Phase = iota
	PhaseIntro
	PhaseEarlyIdentity
	PhaseProvisioningAccount
	PhaseAwaitingConfirmation
	PhaseQuestioning
	PhaseReviewing
	PhaseEditing
	PhaseSubmitting
	PhaseSuccess
	PhaseSubmissionError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoadingSaved:
		return "loading_saved"
	case PhaseIntro:
		return "intro"
	case PhaseEarlyIdentity:
		return "early_identity"
	case PhaseProvisioningAccount:
		return "provisioning_account"
	case PhaseAwaitingConfirmation:
		return "awaiting_email_confirmation"
	case PhaseQuestioning:
		return "questioning"
	case PhaseReviewing:
		return "reviewing"
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseSubmissionError:
		return "submission_error"
	default:
		return "unknown"
	}
}

// StepKind tags which numbering space a step pointer lives in. The early
// identity steps and the catalog indices are deliberately kept in
// separate spaces so they can never be confused for one another.
type StepKind int

const (
	// StepIdentity points into the fixed five early-identity steps.
	StepIdentity StepKind = iota
	// StepCatalog points into the question catalog.
	StepCatalog
)

// Step is a tagged pointer into one of the two numbering spaces.
type Step struct {
	Kind  StepKind
	Index int
}

// IdentityStep returns a pointer to early-identity step n (0-4).
func IdentityStep(n int) Step {
	return Step{Kind: StepIdentity, Index: n}
}

// CatalogStep returns a pointer to catalog index n (zero-based).
func CatalogStep(n int) Step {
	return Step{Kind: StepCatalog, Index: n}
}
