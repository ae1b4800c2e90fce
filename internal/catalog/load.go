package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kersley/attend/internal/log"
)

//go:embed questions.yaml
var embeddedCatalog []byte

// catalogFile is the YAML document shape.
type catalogFile struct {
	Questions []Question `yaml:"questions"`
}

// LoadDefault parses the catalog embedded in the binary.
func LoadDefault() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// LoadFile parses a catalog from an external YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the --catalog flag
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document.
// Questions are sorted by their declared order; the zero-based slice
// position becomes the catalog index used everywhere else.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding catalog yaml: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, fmt.Errorf("catalog contains no questions")
	}

	questions := file.Questions
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})

	byID := make(map[string]int, len(questions))
	for i := range questions {
		q := &questions[i]
		if q.ID == "" {
			return nil, fmt.Errorf("question at position %d has no id", i+1)
		}
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		if err := validateDescriptor(q); err != nil {
			return nil, fmt.Errorf("question %q: %w", q.ID, err)
		}
		byID[q.ID] = i
	}

	// Resolve dependencies after ids are indexed. A dependency must
	// reference a question that occurs earlier in catalog order.
	for i := range questions {
		q := &questions[i]
		if q.DependsOn == "" {
			continue
		}
		target, ok := byID[q.DependsOn]
		if !ok {
			return nil, fmt.Errorf("question %q depends on unknown id %q", q.ID, q.DependsOn)
		}
		if target >= i {
			return nil, fmt.Errorf("question %q depends on %q which does not occur earlier", q.ID, q.DependsOn)
		}
		dep, err := resolveDependency(q, &questions[target])
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", q.ID, err)
		}
		q.dependency = dep
	}

	log.Info(log.CatCatalog, "Catalog loaded", "questions", len(questions))
	return &Catalog{questions: questions, byID: byID}, nil
}

// validateDescriptor checks the per-question invariants that do not
// involve other questions.
func validateDescriptor(q *Question) error {
	switch q.Type {
	case TypeText, TypeTextarea, TypeEmail, TypeNumber, TypeScale, TypeBoolean:
		// No options expected.
	case TypeSingleSelect, TypeMultiSelect, TypeRanking:
		if len(q.Options) == 0 {
			return fmt.Errorf("type %s requires options", q.Type)
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}

	if q.Type == TypeScale || q.Type == TypeNumber {
		if q.Rules.Min != nil && q.Rules.Max != nil && *q.Rules.Min > *q.Rules.Max {
			return fmt.Errorf("min %d exceeds max %d", *q.Rules.Min, *q.Rules.Max)
		}
	}
	if q.Rules.MaxRank != 0 && q.Rules.MaxRank > len(q.Options) {
		return fmt.Errorf("maxRank %d exceeds option count %d", q.Rules.MaxRank, len(q.Options))
	}
	return nil
}

// resolveDependency turns the raw dependsValue into an explicit matcher.
// A list value, or any dependency on a multi-select question, becomes
// ContainsAny; everything else is an exact Equals match.
func resolveDependency(q, target *Question) (*Dependency, error) {
	values, isList, err := dependencyValues(q.DependsValue)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("dependsOn %q has no dependsValue", q.DependsOn)
	}

	kind := MatchEquals
	if isList || target.Type == TypeMultiSelect {
		kind = MatchContainsAny
	}
	return &Dependency{QuestionID: q.DependsOn, Kind: kind, Values: values}, nil
}

// dependencyValues normalizes a YAML scalar or sequence into strings.
func dependencyValues(raw any) ([]string, bool, error) {
	switch v := raw.(type) {
	case nil:
		return nil, false, nil
	case string:
		return []string{v}, false, nil
	case bool:
		if v {
			return []string{"true"}, false, nil
		}
		return []string{"false"}, false, nil
	case int:
		return []string{fmt.Sprintf("%d", v)}, false, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, _, err := dependencyValues(item)
			if err != nil {
				return nil, false, err
			}
			out = append(out, s...)
		}
		return out, true, nil
	default:
		return nil, false, fmt.Errorf("unsupported dependsValue type %T", raw)
	}
}
