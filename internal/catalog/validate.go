package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Result is the outcome of validating one raw input against a question.
type Result struct {
	OK      bool
	Message string
}

// Valid returns a passing result.
func Valid() Result {
	return Result{OK: true}
}

// Invalid returns a failing result with a user-facing message.
func Invalid(message string) Result {
	return Result{Message: message}
}

// emailPattern is intentionally loose: local@domain.tld with no spaces.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has a basic local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ParseAnswer validates raw input against the question's type and rules
// and returns the typed value to store. Select answers are stored as
// option labels (not the raw 1-based digits); ranking answers are stored
// as labels ordered by rank. A nil value with an OK result means an
// optional question was left unanswered.
//
// The function is pure: the answers map is only read (it is unused today
// but kept in the signature because cross-field rules read it).
func ParseAnswer(q *Question, raw string, answers Answers) (any, Result) {
	_ = answers
	input := strings.TrimSpace(raw)

	if input == "" {
		if q.Required {
			return nil, Invalid(q.Rules.message("required", "This field is required."))
		}
		return nil, Valid()
	}

	switch q.Type {
	case TypeText, TypeTextarea:
		return parseText(q, input)
	case TypeEmail:
		return parseEmail(q, input)
	case TypeNumber, TypeScale:
		return parseNumber(q, input)
	case TypeBoolean:
		return parseBoolean(q, input)
	case TypeSingleSelect:
		return parseSingleSelect(q, input)
	case TypeMultiSelect:
		return parseMultiSelect(q, input)
	case TypeRanking:
		return parseRanking(q, input)
	default:
		return nil, Invalid(fmt.Sprintf("Unsupported question type %q.", q.Type))
	}
}

func parseText(q *Question, input string) (any, Result) {
	if q.Rules.MinLength > 0 && len(input) < q.Rules.MinLength {
		return nil, Invalid(q.Rules.message("minLength",
			fmt.Sprintf("Please enter at least %d characters.", q.Rules.MinLength)))
	}
	if q.Rules.MaxLength > 0 && len(input) > q.Rules.MaxLength {
		return nil, Invalid(q.Rules.message("maxLength",
			fmt.Sprintf("Please keep it under %d characters.", q.Rules.MaxLength)))
	}
	return input, Valid()
}

func parseEmail(q *Question, input string) (any, Result) {
	if !ValidEmail(input) {
		return nil, Invalid(q.Rules.message("email", "Please enter a valid email address."))
	}
	return parseText(q, input)
}

func parseNumber(q *Question, input string) (any, Result) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return nil, Invalid(q.Rules.message("format", "Please enter a whole number."))
	}
	if q.Rules.Min != nil && q.Rules.Max != nil {
		if n < *q.Rules.Min || n > *q.Rules.Max {
			return nil, Invalid(q.Rules.message("range",
				fmt.Sprintf("Please enter a number between %d and %d.", *q.Rules.Min, *q.Rules.Max)))
		}
	} else if q.Rules.Min != nil && n < *q.Rules.Min {
		return nil, Invalid(q.Rules.message("min",
			fmt.Sprintf("Please enter a number of at least %d.", *q.Rules.Min)))
	} else if q.Rules.Max != nil && n > *q.Rules.Max {
		return nil, Invalid(q.Rules.message("max",
			fmt.Sprintf("Please enter a number no greater than %d.", *q.Rules.Max)))
	}
	return n, Valid()
}

func parseBoolean(q *Question, input string) (any, Result) {
	switch strings.ToLower(input) {
	case "y", "yes", "1":
		return true, Valid()
	case "n", "no", "2":
		return false, Valid()
	default:
		return nil, Invalid(q.Rules.message("format", "Please answer yes or no (y/n)."))
	}
}

func parseSingleSelect(q *Question, input string) (any, Result) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return nil, Invalid(q.Rules.message("format",
			fmt.Sprintf("Please enter a number between 1 and %d.", len(q.Options))))
	}
	if n < 1 || n > len(q.Options) {
		return nil, Invalid(q.Rules.message("range",
			fmt.Sprintf("Please enter a number between 1 and %d.", len(q.Options))))
	}
	return q.Options[n-1], Valid()
}

// parseMultiSelect validates space-separated 1-based indices.
// Rule precedence: format, range, duplicate, count.
func parseMultiSelect(q *Question, input string) (any, Result) {
	tokens := strings.Fields(strings.ReplaceAll(input, ",", " "))

	indices := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, Invalid(q.Rules.message("format",
				fmt.Sprintf("%q is not a number. Enter option numbers separated by spaces.", tok)))
		}
		indices = append(indices, n)
	}
	for _, n := range indices {
		if n < 1 || n > len(q.Options) {
			return nil, Invalid(q.Rules.message("range",
				fmt.Sprintf("Option %d does not exist. Choose between 1 and %d.", n, len(q.Options))))
		}
	}
	seen := make(map[int]bool, len(indices))
	for _, n := range indices {
		if seen[n] {
			return nil, Invalid(q.Rules.message("duplicate",
				fmt.Sprintf("Option %d was selected more than once.", n)))
		}
		seen[n] = true
	}

	minSel := q.Rules.MinSelections
	if minSel == 0 && q.Required {
		minSel = 1
	}
	if len(indices) < minSel {
		return nil, Invalid(q.Rules.message("minSelections",
			fmt.Sprintf("Please select at least %d option(s).", minSel)))
	}
	if q.Rules.MaxSelections > 0 && len(indices) > q.Rules.MaxSelections {
		return nil, Invalid(q.Rules.message("maxSelections",
			fmt.Sprintf("Please select no more than %d option(s).", q.Rules.MaxSelections)))
	}

	labels := make([]string, len(indices))
	for i, n := range indices {
		labels[i] = q.Options[n-1]
	}
	return labels, Valid()
}

// rankingToken matches one option:rank pair.
var rankingToken = regexp.MustCompile(`^(\d+):(\d+)$`)

// parseRanking validates comma-or-space-separated optionIndex:rank pairs.
// Rules are checked in order: token format, option range, rank range,
// duplicate option, duplicate rank, rank contiguity from 1, minimum
// ranked count. Validation stops at the first failing rule. The stored
// value is the option labels ordered by rank.
func parseRanking(q *Question, input string) (any, Result) {
	tokens := strings.Fields(strings.ReplaceAll(input, ",", " "))

	maxRank := q.Rules.MaxRank
	if maxRank == 0 {
		maxRank = len(q.Options)
	}

	type pair struct{ option, rank int }
	pairs := make([]pair, 0, len(tokens))
	for _, tok := range tokens {
		m := rankingToken.FindStringSubmatch(tok)
		if m == nil {
			return nil, Invalid(q.Rules.message("format",
				fmt.Sprintf("%q is not in option:rank form (example: 3:1).", tok)))
		}
		option, _ := strconv.Atoi(m[1])
		rank, _ := strconv.Atoi(m[2])
		pairs = append(pairs, pair{option: option, rank: rank})
	}

	for _, p := range pairs {
		if p.option < 1 || p.option > len(q.Options) {
			return nil, Invalid(q.Rules.message("range",
				fmt.Sprintf("Option %d does not exist. Choose between 1 and %d.", p.option, len(q.Options))))
		}
	}
	for _, p := range pairs {
		if p.rank < 1 || p.rank > maxRank {
			return nil, Invalid(q.Rules.message("rankRange",
				fmt.Sprintf("Rank %d is out of range. Ranks go from 1 to %d.", p.rank, maxRank)))
		}
	}

	seenOption := make(map[int]bool, len(pairs))
	for _, p := range pairs {
		if seenOption[p.option] {
			return nil, Invalid(q.Rules.message("duplicateOption",
				fmt.Sprintf("Option %d was ranked more than once.", p.option)))
		}
		seenOption[p.option] = true
	}
	seenRank := make(map[int]bool, len(pairs))
	for _, p := range pairs {
		if seenRank[p.rank] {
			return nil, Invalid(q.Rules.message("duplicateRank",
				fmt.Sprintf("Rank %d was used more than once.", p.rank)))
		}
		seenRank[p.rank] = true
	}

	// Ranks must form a contiguous sequence starting at 1.
	for r := 1; r <= len(pairs); r++ {
		if !seenRank[r] {
			return nil, Invalid(q.Rules.message("contiguous",
				fmt.Sprintf("Ranks must start at 1 with no gaps; rank %d is missing.", r)))
		}
	}

	if len(pairs) < q.Rules.MinRanked {
		return nil, Invalid(q.Rules.message("minRanked",
			fmt.Sprintf("Please rank at least %d option(s).", q.Rules.MinRanked)))
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].rank < pairs[j].rank })
	labels := make([]string, len(pairs))
	for i, p := range pairs {
		labels[i] = q.Options[p.option-1]
	}
	return labels, Valid()
}

// FormatAnswer renders a stored typed answer for display in listings.
func FormatAnswer(q *Question, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case int:
		return strconv.Itoa(v)
	case []string:
		if q != nil && q.Type == TypeRanking {
			parts := make([]string, len(v))
			for i, label := range v {
				parts[i] = fmt.Sprintf("%d. %s", i+1, label)
			}
			return strings.Join(parts, ", ")
		}
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
