package catalog

import (
	"errors"
	"fmt"
)

// ErrQuestionNotFound is returned when an index or id resolves to no
// catalog entry. Reaching it through navigation indicates a catalog bug,
// not a user error.
var ErrQuestionNotFound = errors.New("question not found")

// Catalog is the ordered, read-only question set for one process.
type Catalog struct {
	questions []Question
	byID      map[string]int
}

// Len returns the number of questions in catalog order.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// At returns the question at a zero-based catalog index.
func (c *Catalog) At(i int) (*Question, error) {
	if i < 0 || i >= len(c.questions) {
		return nil, fmt.Errorf("index %d: %w", i, ErrQuestionNotFound)
	}
	return &c.questions[i], nil
}

// ByID returns the question with the given id.
func (c *Catalog) ByID(id string) (*Question, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("id %q: %w", id, ErrQuestionNotFound)
	}
	return &c.questions[i], nil
}

// IndexOf returns the zero-based catalog index for a question id.
func (c *Catalog) IndexOf(id string) (int, bool) {
	i, ok := c.byID[id]
	return i, ok
}

// Questions returns the questions in catalog order. The slice is shared;
// callers must treat it as read-only.
func (c *Catalog) Questions() []Question {
	return c.questions
}
