package session

import (
	"fmt"

	"github.com/kersley/attend/internal/catalog"
)

const noAnswerPlaceholder = "[no answer]"

// welcome produces the intro banner.
func (m *Machine) welcome() []Output {
	lines := []Output{
		system("Welcome to the conference registration terminal."),
		info("Type `register new` to start a fresh registration."),
	}
	if m.savedAvailable {
		lines = append(lines,
			info("Type `register continue` to resume your saved progress."),
			hint("Starting fresh overwrites your saved progress."),
		)
	}
	lines = append(lines, hint("Type `help` at any point to see what you can do."))
	return lines
}

// displayIdentityStep renders the prompt for the current identity step.
func (m *Machine) displayIdentityStep() []Output {
	step := m.step.Index
	lines := []Output{
		question(fmt.Sprintf("[%d/%d] %s", step+1, identityStepCount, identityPrompt(step))),
	}
	if step == stepEmail {
		lines = append(lines, hint("We send a confirmation mail to this address."))
	}
	return lines
}

// displayQuestion renders the catalog question at the current step,
// including hint, numbered options and a live progress indicator.
func (m *Machine) displayQuestion(idx int) []Output {
	q, err := m.catalog.At(idx)
	if err != nil {
		return []Output{errorLine("Question not found. This is a bug in the question catalog.")}
	}

	pos, total := m.catalog.LivePosition(idx, m.answers)
	lines := []Output{
		question(fmt.Sprintf("[%d/%d] %s", pos, total, q.Label)),
	}
	if q.Description != "" {
		lines = append(lines, info(q.Description))
	}
	for i, opt := range q.Options {
		lines = append(lines, info(fmt.Sprintf("  %d. %s", i+1, opt)))
	}
	if q.Hint != "" {
		lines = append(lines, hint(q.Hint))
	}
	if !q.Required {
		lines = append(lines, hint("Optional - press enter to skip."))
	}
	return lines
}

// displayEditQuestion renders a question in editing mode, including the
// currently stored answer.
func (m *Machine) displayEditQuestion(idx int) []Output {
	lines := m.displayQuestion(idx)
	q, err := m.catalog.At(idx)
	if err != nil {
		return lines
	}
	current := noAnswerPlaceholder
	if v, ok := m.answers[q.ID]; ok {
		current = catalog.FormatAnswer(q, v)
	}
	return append(lines, info(fmt.Sprintf("Current answer: %s", current)))
}

// displayReview renders the full review listing: every question in
// catalog order with its stored answer, skipping currently ineligible
// ones. Numbers shown are 1-based full-catalog positions, matching the
// `edit <n>` command.
func (m *Machine) displayReview() []Output {
	lines := []Output{
		system("Review your answers:"),
	}
	for i, q := range m.catalog.Questions() {
		if !q.Eligible(m.answers) {
			continue
		}
		answer := noAnswerPlaceholder
		if v, ok := m.answers[q.ID]; ok {
			answer = catalog.FormatAnswer(&q, v)
		}
		lines = append(lines, info(fmt.Sprintf("%2d. %s: %s", i+1, q.Label, answer)))
	}
	return append(lines, reviewInstructions())
}

// reviewInstructions is the single line re-shown after help or an
// unrecognized command while reviewing.
func reviewInstructions() Output {
	return hint("Type `submit` to finish, `edit <n>` to change an answer, or `back` to keep answering.")
}

// displayAwaiting renders the confirmation instructions.
func (m *Machine) displayAwaiting() []Output {
	return []Output{
		info(fmt.Sprintf("We sent a confirmation mail to %s.", m.accountEmail)),
		info("Open the link in the mail, then type `continue` here."),
		hint("Type `resend` if the mail has not arrived."),
	}
}

// helpFor returns the phase-specific help lines.
func (m *Machine) helpFor(phase Phase) []Output {
	switch phase {
	case PhaseIntro:
		lines := []Output{hint("Commands: register new, help, exit")}
		if m.savedAvailable {
			lines = append(lines, hint("You have saved progress: register continue"))
		}
		return lines
	case PhaseEarlyIdentity:
		return []Output{
			hint("Answer the question, or type: exit, help"),
		}
	case PhaseAwaitingConfirmation:
		return []Output{hint("Commands: continue, resend, exit, help")}
	case PhaseQuestioning:
		return []Output{
			hint("Answer the question, or type: next, back, save, review, exit, help"),
		}
	case PhaseReviewing:
		return []Output{hint("Commands: submit, edit <n>, back, help")}
	case PhaseEditing:
		return []Output{
			hint("Enter a new answer, or type: review, save, help"),
		}
	case PhaseSubmissionError:
		return []Output{hint("Commands: retry, review, exit, help")}
	default:
		return []Output{hint("Commands: help, exit")}
	}
}
