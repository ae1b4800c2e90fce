package session

import (
	"strconv"

	"github.com/kersley/attend/internal/catalog"
	"github.com/kersley/attend/internal/log"
)

// handleReviewCommand runs submit/edit/back in the reviewing phase.
func (m *Machine) handleReviewCommand(name string, args []string) Result {
	switch name {
	case "submit":
		return m.startSubmit()

	case "edit":
		if len(args) != 1 {
			m.lastError = "edit needs a question number"
			return Result{Outputs: []Output{
				errorLine("Tell me which answer to edit, e.g. `edit 7`."),
			}}
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			m.lastError = "edit needs a number"
			return Result{Outputs: []Output{
				errorf("%q is not a question number.", args[0]),
			}}
		}
		if n < 1 || n > m.catalog.Len() {
			m.lastError = "edit out of range"
			return Result{Outputs: []Output{
				errorf("There is no question %d. Valid numbers are 1 to %d.", n, m.catalog.Len()),
			}}
		}
		m.lastError = ""
		m.phase = PhaseEditing
		m.step = CatalogStep(n - 1)
		return Result{Outputs: m.displayEditQuestion(m.step.Index)}

	case "back":
		// Resume questioning at the tail so the user can continue forward.
		last := m.catalog.LastIndex(m.answers)
		if last < 0 {
			last = 0
		}
		m.lastError = ""
		m.phase = PhaseQuestioning
		m.step = CatalogStep(last)
		return Result{Outputs: m.displayQuestion(last)}

	default:
		return m.invalidCommand()
	}
}

// handleEditInput overwrites a single answer and returns to review.
// A valid answer is auto-saved immediately.
func (m *Machine) handleEditInput(raw string) Result {
	res := Result{Outputs: []Output{echo(raw)}}

	q, err := m.catalog.At(m.step.Index)
	if err != nil {
		m.lastError = "question not found"
		res.add(errorLine("Question not found. This is a bug in the question catalog."))
		return res
	}

	value, v := catalog.ParseAnswer(q, raw, m.answers)
	if !v.OK {
		m.lastError = v.Message
		res.add(errorLine(v.Message))
		res.add(m.displayEditQuestion(m.step.Index)...)
		return res
	}

	if value != nil {
		m.answers[q.ID] = value
	} else {
		delete(m.answers, q.ID)
	}
	m.lastError = ""
	if err := m.saveSnapshot(); err != nil {
		res.add(errorLine("Answer updated, but saving it failed."))
	}
	log.Debug(log.CatSession, "Answer edited", "question", q.ID)

	m.phase = PhaseReviewing
	res.add(m.displayReview()...)
	return res
}

// handleEditCommand: save works as usual; exit and review both return
// to the review listing without changing the answer.
func (m *Machine) handleEditCommand(name string) Result {
	switch name {
	case "save":
		if err := m.saveSnapshot(); err != nil {
			m.lastError = err.Error()
			return Result{Outputs: []Output{errorLine("Could not save your progress.")}}
		}
		m.lastError = ""
		return Result{Outputs: []Output{successLine("Progress saved.")}}

	case "exit", "review":
		m.lastError = ""
		m.phase = PhaseReviewing
		return Result{Outputs: m.displayReview()}

	default:
		return m.invalidCommand()
	}
}

// startSubmit enters the pending submit phase and asks the caller to
// persist the registration.
func (m *Machine) startSubmit() Result {
	m.lastError = ""
	m.phase = PhaseSubmitting
	m.inFlight = true
	log.Info(log.CatSession, "Submitting registration", "answers", len(m.answers))

	return Result{
		Outputs: []Output{info("Submitting your registration...")},
		Effects: []Effect{EffectSubmit{
			Email:   m.accountEmail,
			Answers: m.answers.Clone(),
		}},
	}
}

func (m *Machine) resolveSubmit(ev SubmitResolved) Result {
	m.inFlight = false

	if ev.Err != nil {
		m.lastError = ev.Err.Error()
		m.phase = PhaseSubmissionError
		log.ErrorErr(log.CatSession, "Submit failed", ev.Err)
		return Result{Outputs: []Output{
			errorf("Your registration could not be submitted: %s", ev.Err.Error()),
			hint("Type `retry` to try again, or `review` to check your answers."),
		}}
	}

	if err := m.snapshots.Clear(); err != nil {
		log.ErrorErr(log.CatSession, "Snapshot clear failed after submit", err)
	}
	m.savedAvailable = false
	m.lastError = ""
	m.phase = PhaseSuccess
	log.Info(log.CatSession, "Registration complete", "id", ev.Receipt.ID)

	res := Result{Outputs: []Output{
		successLine("Registration complete. See you at the conference!"),
		system("Your confirmation id is " + ev.Receipt.ID + "."),
	}}
	res.effect(EffectComplete{Receipt: ev.Receipt})
	return res
}

// handleSubmissionErrorCommand accepts retry and review.
func (m *Machine) handleSubmissionErrorCommand(name string) Result {
	switch name {
	case "retry":
		return m.startSubmit()
	case "review":
		m.lastError = ""
		m.phase = PhaseReviewing
		return Result{Outputs: m.displayReview()}
	default:
		m.lastError = "invalid command"
		return Result{Outputs: []Output{
			errorLine("Invalid command. Use retry, review, exit or help."),
		}}
	}
}
