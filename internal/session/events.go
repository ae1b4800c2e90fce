package session

import (
	"github.com/kersley/attend/internal/catalog"
	"github.com/kersley/attend/internal/identity"
	"github.com/kersley/attend/internal/store"
)

// Event is one unit of input to the state machine. Exactly one event is
// processed at a time; Dispatch is not safe for concurrent use.
type Event interface {
	sessionEvent()
}

// InputReceived carries one raw line of user input.
type InputReceived struct {
	Raw string
}

// CommandReceived carries a named command with its arguments.
type CommandReceived struct {
	Name string
	Args []string
}

// ProvisionResolved reports the outcome of an EffectProvision.
type ProvisionResolved struct {
	Result identity.ProvisionResult
	Err    error
}

// ConfirmationResolved reports the outcome of an EffectCheckConfirmation.
type ConfirmationResolved struct {
	Confirmed bool
	Err       error
}

// ResendResolved reports the outcome of an EffectResend.
type ResendResolved struct {
	Err error
}

// SubmitResolved reports the outcome of an EffectSubmit.
type SubmitResolved struct {
	Receipt store.Receipt
	Err     error
}

func (InputReceived) sessionEvent()        {}
func (CommandReceived) sessionEvent()      {}
func (ProvisionResolved) sessionEvent()    {}
func (ConfirmationResolved) sessionEvent() {}
func (ResendResolved) sessionEvent()       {}
func (SubmitResolved) sessionEvent()       {}

// Effect is a request to the caller to invoke an external collaborator
// and feed the outcome back as the matching resolution event.
type Effect interface {
	sessionEffect()
}

// EffectProvision asks the caller to start account provisioning.
type EffectProvision struct {
	Email string
}

// EffectCheckConfirmation asks the caller to check the pending
// identity's confirmation status.
type EffectCheckConfirmation struct{}

// EffectResend asks the caller to resend the confirmation mail.
type EffectResend struct {
	Email string
}

// EffectSubmit asks the caller to persist the finished registration.
type EffectSubmit struct {
	Email   string
	Answers catalog.Answers
}

// EffectExit signals that the session is over and the caller should
// shut down.
type EffectExit struct {
	Saved bool
}

// EffectComplete signals a successfully submitted registration.
type EffectComplete struct {
	Receipt store.Receipt
}

func (EffectProvision) sessionEffect()         {}
func (EffectCheckConfirmation) sessionEffect() {}
func (EffectResend) sessionEffect()            {}
func (EffectSubmit) sessionEffect()            {}
func (EffectExit) sessionEffect()              {}
func (EffectComplete) sessionEffect()          {}

// Result is what one Dispatch produces: lines to display and effects
// for the caller to run.
type Result struct {
	Outputs []Output
	Effects []Effect
}

func (r *Result) add(outputs ...Output) {
	r.Outputs = append(r.Outputs, outputs...)
}

func (r *Result) effect(effects ...Effect) {
	r.Effects = append(r.Effects, effects...)
}

func (r *Result) merge(other Result) {
	r.Outputs = append(r.Outputs, other.Outputs...)
	r.Effects = append(r.Effects, other.Effects...)
}
