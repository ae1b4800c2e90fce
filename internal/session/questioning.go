package session

import (
	"github.com/kersley/attend/internal/catalog"
	"github.com/kersley/attend/internal/log"
)

// handleQuestionInput validates one answer attempt in the questioning
// phase and advances to the next eligible question on success.
func (m *Machine) handleQuestionInput(raw string) Result {
	res := Result{Outputs: []Output{echo(raw)}}

	q, err := m.catalog.At(m.step.Index)
	if err != nil {
		// Index out of sync with the catalog: a defect, not a user error.
		m.lastError = "question not found"
		log.Error(log.CatSession, "Question not found", "index", m.step.Index)
		res.add(errorLine("Question not found. This is a bug in the question catalog."))
		return res
	}

	value, v := catalog.ParseAnswer(q, raw, m.answers)
	if !v.OK {
		m.lastError = v.Message
		res.add(errorLine(v.Message))
		if q.Hint != "" {
			res.add(hint(q.Hint))
		}
		res.add(m.displayQuestion(m.step.Index)...)
		return res
	}

	if value != nil {
		m.answers[q.ID] = value
	} else {
		// Optional question skipped: drop any stale answer so dependent
		// questions do not stay live.
		delete(m.answers, q.ID)
	}
	m.lastError = ""
	res.merge(m.advance())
	return res
}

// advance moves to the next eligible question, or into review when none
// remain.
func (m *Machine) advance() Result {
	next := m.catalog.NextIndex(m.step.Index, m.answers)
	if next >= m.catalog.Len() {
		m.phase = PhaseReviewing
		return Result{Outputs: m.displayReview()}
	}
	m.step = CatalogStep(next)
	return Result{Outputs: m.displayQuestion(next)}
}

// handleQuestionCommand runs next/back/save/review in questioning.
// exit and help are handled globally.
func (m *Machine) handleQuestionCommand(name string) Result {
	switch name {
	case "next":
		q, err := m.catalog.At(m.step.Index)
		if err != nil {
			m.lastError = "question not found"
			return Result{Outputs: []Output{errorLine("Question not found. This is a bug in the question catalog.")}}
		}
		if _, answered := m.answers[q.ID]; !answered {
			m.lastError = "question not answered"
			res := Result{Outputs: []Output{
				errorLine("Answer this question first, or `save` and come back later."),
			}}
			res.add(m.displayQuestion(m.step.Index)...)
			return res
		}
		m.lastError = ""
		return m.advance()

	case "back":
		prev := m.catalog.PrevIndex(m.step.Index, m.answers)
		if prev < 0 {
			m.lastError = "cannot go back further"
			res := Result{Outputs: []Output{errorLine("Cannot go back further.")}}
			res.add(m.displayQuestion(m.step.Index)...)
			return res
		}
		m.lastError = ""
		m.step = CatalogStep(prev)
		return Result{Outputs: m.displayQuestion(prev)}

	case "save":
		if err := m.saveSnapshot(); err != nil {
			m.lastError = err.Error()
			return Result{Outputs: []Output{errorLine("Could not save your progress.")}}
		}
		m.lastError = ""
		return Result{Outputs: []Output{successLine("Progress saved. Type `exit` to leave, or keep answering.")}}

	case "review":
		m.lastError = ""
		m.phase = PhaseReviewing
		return Result{Outputs: m.displayReview()}

	default:
		return m.invalidCommand()
	}
}
