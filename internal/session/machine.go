package session

import (
	"errors"
	"strings"

	"github.com/kersley/attend/internal/catalog"
	"github.com/kersley/attend/internal/identity"
	"github.com/kersley/attend/internal/log"
	"github.com/kersley/attend/internal/snapshot"
)

// Machine is the single owner of the session state. It consumes one
// event at a time via Dispatch and is not safe for concurrent use.
//
// The snapshot store is the only collaborator the machine calls
// directly; identity and registration calls are requested through
// effects and resolved by follow-up events.
type Machine struct {
	catalog   *catalog.Catalog
	snapshots snapshot.Store

	phase   Phase
	step    Step
	answers catalog.Answers

	pending      pendingIdentity
	accountEmail string
	lastError    string

	savedAvailable bool
	saved          snapshot.Snapshot

	// inFlight is set while an external collaborator call is
	// outstanding; further input is rejected until the resolution
	// event arrives.
	inFlight bool
}

// New creates a machine in the loading_saved phase. Call Start to load
// any saved snapshot and enter intro.
func New(cat *catalog.Catalog, snapshots snapshot.Store) *Machine {
	return &Machine{
		catalog:   cat,
		snapshots: snapshots,
		phase:     PhaseLoadingSaved,
		answers:   catalog.Answers{},
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Step returns the current step pointer.
func (m *Machine) Step() Step {
	return m.step
}

// Answers returns a copy of the accumulated answers.
func (m *Machine) Answers() catalog.Answers {
	return m.answers.Clone()
}

// LastError returns the most recent validation or transition failure
// message, or "" after a successful transition.
func (m *Machine) LastError() string {
	return m.lastError
}

// Start runs the startup protocol: attempt to load a saved snapshot,
// then enter the intro phase.
func (m *Machine) Start() Result {
	var res Result

	saved, err := m.snapshots.Load()
	switch {
	case err == nil:
		m.saved = saved
		m.savedAvailable = true
		log.Info(log.CatSession, "Snapshot restored", "answers", len(saved.Answers))
	case errors.Is(err, snapshot.ErrNotFound):
		// Nothing saved; silent.
	default:
		// Malformed or unreadable: report once and carry on without it.
		res.add(errorLine("Could not restore your saved progress."))
		log.ErrorErr(log.CatSession, "Snapshot load failed", err)
	}

	m.phase = PhaseIntro
	res.add(m.welcome()...)
	return res
}

// HandleLine lexes one raw line into an input or command event and
// dispatches it. This is the entry point the terminal shell uses.
func (m *Machine) HandleLine(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	fields := strings.Fields(trimmed)

	if len(fields) > 0 && m.isCommand(fields) {
		return m.Dispatch(CommandReceived{Name: strings.ToLower(fields[0]), Args: fields[1:]})
	}
	return m.Dispatch(InputReceived{Raw: raw})
}

// isCommand reports whether the line is a command in the current phase.
// The command words of the input-accepting phases are all arg-less, so
// they only count as commands when the line is exactly that one word;
// answers like "back home" or "Save the date" validate as input.
func (m *Machine) isCommand(fields []string) bool {
	w := strings.ToLower(fields[0])
	switch m.phase {
	case PhaseEarlyIdentity:
		if len(fields) != 1 {
			return false
		}
		return w == "exit" || w == "help"
	case PhaseQuestioning:
		if len(fields) != 1 {
			return false
		}
		switch w {
		case "next", "back", "save", "exit", "review", "help":
			return true
		}
		return false
	case PhaseEditing:
		if len(fields) != 1 {
			return false
		}
		switch w {
		case "save", "exit", "review", "help":
			return true
		}
		return false
	default:
		// Command-only phases: every line is a command attempt.
		return true
	}
}

// Dispatch consumes one event and returns the outputs and effects it
// produced. lastError is cleared on every state-changing success and
// set on every failure.
func (m *Machine) Dispatch(ev Event) Result {
	// Resolution events are accepted only while a call is outstanding;
	// anything arriving late (after an exit or phase change) is dropped.
	switch ev.(type) {
	case ProvisionResolved, ConfirmationResolved, ResendResolved, SubmitResolved:
		if !m.inFlight {
			log.Warn(log.CatSession, "Dropping stale resolution event", "phase", m.phase)
			return Result{}
		}
	default:
		if m.inFlight {
			return Result{Outputs: []Output{
				errorLine("Still working on the previous step - one moment."),
			}}
		}
	}

	switch ev := ev.(type) {
	case InputReceived:
		return m.handleInput(ev.Raw)
	case CommandReceived:
		return m.handleCommand(ev.Name, ev.Args)
	case ProvisionResolved:
		return m.resolveProvision(ev)
	case ConfirmationResolved:
		return m.resolveConfirmation(ev)
	case ResendResolved:
		return m.resolveResend(ev)
	case SubmitResolved:
		return m.resolveSubmit(ev)
	default:
		return Result{Outputs: []Output{errorLine("Unknown event.")}}
	}
}

func (m *Machine) handleInput(raw string) Result {
	switch m.phase {
	case PhaseEarlyIdentity:
		return m.handleIdentityInput(raw)
	case PhaseQuestioning:
		return m.handleQuestionInput(raw)
	case PhaseEditing:
		return m.handleEditInput(raw)
	default:
		// Command-only phases land here only for empty lines.
		return Result{}
	}
}

func (m *Machine) handleCommand(name string, args []string) Result {
	// exit aborts from any interruptible phase; editing treats it as a
	// return to review instead (see handleEditCommand).
	if name == "exit" && m.phase != PhaseEditing {
		return m.exitSession()
	}
	if name == "help" {
		res := Result{Outputs: m.helpFor(m.phase)}
		res.add(m.redisplay()...)
		return res
	}

	switch m.phase {
	case PhaseIntro:
		return m.handleIntroCommand(name, args)
	case PhaseAwaitingConfirmation:
		return m.handleAwaitingCommand(name)
	case PhaseQuestioning:
		return m.handleQuestionCommand(name)
	case PhaseReviewing:
		return m.handleReviewCommand(name, args)
	case PhaseEditing:
		return m.handleEditCommand(name)
	case PhaseSubmissionError:
		return m.handleSubmissionErrorCommand(name)
	default:
		return m.invalidCommand()
	}
}

// redisplay re-renders the current prompt so the user is never left
// without guidance after a help or error line.
func (m *Machine) redisplay() []Output {
	switch m.phase {
	case PhaseEarlyIdentity:
		return m.displayIdentityStep()
	case PhaseQuestioning:
		return m.displayQuestion(m.step.Index)
	case PhaseEditing:
		return m.displayEditQuestion(m.step.Index)
	case PhaseAwaitingConfirmation:
		return m.displayAwaiting()
	case PhaseReviewing:
		return []Output{reviewInstructions()}
	default:
		return nil
	}
}

func (m *Machine) invalidCommand() Result {
	m.lastError = "invalid command in this phase"
	res := Result{Outputs: []Output{errorLine("Invalid command in this phase. Type `help` for options.")}}
	res.add(m.redisplay()...)
	return res
}

// handleIntroCommand accepts `register new` and `register continue`.
func (m *Machine) handleIntroCommand(name string, args []string) Result {
	if name != "register" || len(args) != 1 {
		return m.invalidCommand()
	}

	switch strings.ToLower(args[0]) {
	case "new":
		m.answers = catalog.Answers{}
		m.pending = pendingIdentity{}
		m.accountEmail = ""
		m.lastError = ""
		if err := m.snapshots.Clear(); err != nil {
			log.ErrorErr(log.CatSession, "Snapshot clear failed", err)
		}
		m.savedAvailable = false
		m.phase = PhaseEarlyIdentity
		m.step = IdentityStep(stepFirstName)

		res := Result{Outputs: []Output{system("Starting a new registration.")}}
		res.add(m.displayIdentityStep()...)
		return res

	case "continue":
		if !m.savedAvailable {
			m.lastError = "no saved progress"
			return Result{Outputs: []Output{
				errorLine("There is no saved progress to continue. Type `register new` to start."),
			}}
		}
		m.answers = m.saved.Answers.Clone()
		m.accountEmail = m.saved.AccountEmail
		m.lastError = ""
		m.phase = PhaseQuestioning
		m.step = CatalogStep(m.saved.CurrentIndex)

		res := Result{Outputs: []Output{system("Resuming your saved registration.")}}
		res.add(m.displayQuestion(m.step.Index)...)
		return res

	default:
		return m.invalidCommand()
	}
}

// handleIdentityInput runs one early-identity step.
func (m *Machine) handleIdentityInput(raw string) Result {
	step := m.step.Index
	input := strings.TrimSpace(raw)
	res := Result{Outputs: []Output{echo(identityEcho(step, raw))}}

	fail := func(v catalog.Result) Result {
		m.lastError = v.Message
		res.add(errorLine(v.Message))
		res.add(m.displayIdentityStep()...)
		return res
	}

	switch step {
	case stepFirstName:
		if v := ValidateFirstName(input); !v.OK {
			return fail(v)
		}
		m.answers[keyFirstName] = input
	case stepLastName:
		if v := ValidateLastName(input); !v.OK {
			return fail(v)
		}
		m.answers[keyLastName] = input
	case stepEmail:
		if v := ValidateEmail(input); !v.OK {
			return fail(v)
		}
		m.answers[keyEmail] = input
	case stepPassword:
		if v := ValidatePassword(raw); !v.OK {
			return fail(v)
		}
		m.pending.password = raw
	case stepConfirmPassword:
		if v := ValidateConfirmPassword(m.pending.password, raw); !v.OK {
			// Mismatch restarts password entry from the password step.
			m.pending = pendingIdentity{}
			m.lastError = v.Message
			m.step = IdentityStep(stepPassword)
			res.add(errorLine(v.Message))
			res.add(m.displayIdentityStep()...)
			return res
		}
		return m.startProvisioning(res)
	}

	m.lastError = ""
	m.step = IdentityStep(step + 1)
	res.add(m.displayIdentityStep()...)
	return res
}

// startProvisioning transitions into the pending provisioning phase.
// The password confirmed intent locally; the provisioning request
// itself is passwordless and keyed on email alone.
func (m *Machine) startProvisioning(res Result) Result {
	email, _ := m.answers[keyEmail].(string)
	m.pending = pendingIdentity{}
	m.lastError = ""
	m.phase = PhaseProvisioningAccount
	m.inFlight = true

	res.add(info("Creating your account..."))
	res.effect(EffectProvision{Email: email})
	log.Info(log.CatSession, "Provisioning account")
	return res
}

func (m *Machine) resolveProvision(ev ProvisionResolved) Result {
	m.inFlight = false

	if ev.Err != nil {
		// Hard failure: back to confirm-password so the user can retry.
		m.lastError = ev.Err.Error()
		m.phase = PhaseEarlyIdentity
		m.step = IdentityStep(stepConfirmPassword)
		res := Result{Outputs: []Output{
			errorf("Could not create your account: %s", ev.Err.Error()),
		}}
		res.add(m.displayIdentityStep()...)
		return res
	}

	switch ev.Result.Status {
	case identity.StatusAlreadyExists:
		m.lastError = "already registered"
		m.pending = pendingIdentity{}
		m.phase = PhaseEarlyIdentity
		m.step = IdentityStep(stepEmail)
		res := Result{Outputs: []Output{
			errorLine("This email is already registered. Use a different address."),
		}}
		res.add(m.displayIdentityStep()...)
		return res

	default: // confirmation required
		m.lastError = ""
		m.accountEmail = ev.Result.Email
		m.phase = PhaseAwaitingConfirmation
		m.saveSnapshot()
		res := Result{Outputs: []Output{successLine("Account created.")}}
		res.add(m.displayAwaiting()...)
		return res
	}
}

// handleAwaitingCommand accepts continue/resend (exit and help are
// handled globally).
func (m *Machine) handleAwaitingCommand(name string) Result {
	switch name {
	case "continue":
		m.inFlight = true
		return Result{
			Outputs: []Output{info("Checking your confirmation status...")},
			Effects: []Effect{EffectCheckConfirmation{}},
		}
	case "resend":
		m.inFlight = true
		return Result{
			Outputs: []Output{info("Resending the confirmation mail...")},
			Effects: []Effect{EffectResend{Email: m.accountEmail}},
		}
	default:
		m.lastError = "invalid command"
		res := Result{Outputs: []Output{
			errorLine("Invalid command. Use continue, resend, exit or help."),
		}}
		return res
	}
}

func (m *Machine) resolveConfirmation(ev ConfirmationResolved) Result {
	m.inFlight = false

	if ev.Err != nil {
		m.lastError = ev.Err.Error()
		return Result{Outputs: []Output{
			errorf("Could not check your confirmation status: %s", ev.Err.Error()),
		}}
	}
	if !ev.Confirmed {
		m.lastError = "email not confirmed"
		return Result{Outputs: []Output{
			errorLine("Your email is not confirmed yet. Open the link in the mail, then type `continue`."),
		}}
	}

	m.lastError = ""
	m.phase = PhaseQuestioning
	m.step = CatalogStep(m.catalog.FirstIndex(m.answers))
	log.Info(log.CatSession, "Email confirmed, questioning starts")

	res := Result{Outputs: []Output{successLine("Email confirmed. Let's get to the questions.")}}
	res.add(m.displayQuestion(m.step.Index)...)
	return res
}

func (m *Machine) resolveResend(ev ResendResolved) Result {
	m.inFlight = false

	if ev.Err != nil {
		m.lastError = ev.Err.Error()
		return Result{Outputs: []Output{
			errorf("Could not resend the mail: %s", ev.Err.Error()),
		}}
	}
	m.lastError = ""
	return Result{Outputs: []Output{
		successLine("Confirmation mail sent again. Check your inbox."),
	}}
}

// exitSession aborts the session. From the answer-collecting phases it
// performs a best-effort local save first; identity phases never save,
// so password material cannot leak into a snapshot.
func (m *Machine) exitSession() Result {
	var res Result
	saved := false

	switch m.phase {
	case PhaseQuestioning, PhaseReviewing:
		if err := m.saveSnapshot(); err == nil {
			saved = true
			res.add(info("Progress saved locally."))
		} else {
			res.add(errorLine("Could not save your progress before exiting."))
		}
	}

	res.add(system("Goodbye."))
	res.effect(EffectExit{Saved: saved})
	log.Info(log.CatSession, "Session exit requested", "phase", m.phase, "saved", saved)
	return res
}

// saveSnapshot persists the current resume point.
func (m *Machine) saveSnapshot() error {
	idx := 0
	if m.step.Kind == StepCatalog {
		idx = m.step.Index
	}
	err := m.snapshots.Save(snapshot.Snapshot{
		CurrentIndex: idx,
		Answers:      m.answers.Clone(),
		AccountEmail: m.accountEmail,
	})
	if err != nil {
		log.ErrorErr(log.CatSession, "Snapshot save failed", err)
		return err
	}
	m.savedAvailable = true
	return nil
}
