package catalog

// Navigation helpers. All functions are pure: they never mutate the
// catalog or the answer map, and repeated calls with unchanged inputs
// return the same result.

// NextIndex scans forward from current+1 and returns the first eligible
// index. Questions whose dependency condition is unmet are skipped
// transparently. Returns Len() when no eligible question remains.
func (c *Catalog) NextIndex(current int, answers Answers) int {
	for i := current + 1; i < len(c.questions); i++ {
		if c.questions[i].Eligible(answers) {
			return i
		}
	}
	return len(c.questions)
}

// PrevIndex scans backward from current-1 and returns the first eligible
// index, or -1 when the boundary has been reached.
func (c *Catalog) PrevIndex(current int, answers Answers) int {
	start := current - 1
	if start >= len(c.questions) {
		start = len(c.questions) - 1
	}
	for i := start; i >= 0; i-- {
		if c.questions[i].Eligible(answers) {
			return i
		}
	}
	return -1
}

// FirstIndex returns the first eligible index, or Len() for an empty or
// fully skipped catalog.
func (c *Catalog) FirstIndex(answers Answers) int {
	return c.NextIndex(-1, answers)
}

// LastIndex returns the last eligible index, or -1 if none.
func (c *Catalog) LastIndex(answers Answers) int {
	return c.PrevIndex(len(c.questions), answers)
}

// LiveCount returns the number of currently eligible questions.
func (c *Catalog) LiveCount(answers Answers) int {
	count := 0
	for i := range c.questions {
		if c.questions[i].Eligible(answers) {
			count++
		}
	}
	return count
}

// LivePosition returns the 1-based position of the question at index i
// among the live questions, together with the live total. Position is 0
// when the question at i is itself skipped.
func (c *Catalog) LivePosition(i int, answers Answers) (pos, total int) {
	for j := range c.questions {
		if !c.questions[j].Eligible(answers) {
			continue
		}
		total++
		if j == i {
			pos = total
		}
	}
	return pos, total
}
