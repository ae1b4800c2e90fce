// Package snapshot persists in-progress registration sessions so a user
// can resume later. Snapshots are JSON wrapped in base64: obfuscated at
// rest, deliberately not encrypted.
package snapshot

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kersley/attend/internal/catalog"
)

// ErrNotFound is returned by Load when no snapshot has been saved.
var ErrNotFound = errors.New("no saved snapshot")

// ErrMalformed is returned by Load when a snapshot exists but cannot be
// decoded. Callers treat this the same as no snapshot.
var ErrMalformed = errors.New("snapshot is malformed")

// Snapshot is the serialized resume point of a session.
type Snapshot struct {
	CurrentIndex int             `json:"currentIndex"`
	Answers      catalog.Answers `json:"answers"`
	AccountEmail string          `json:"accountEmail"`
}

// Store saves, loads and clears one snapshot.
type Store interface {
	Save(s Snapshot) error
	Load() (Snapshot, error)
	Clear() error
}

// Encode serializes a snapshot to its at-rest form.
func Encode(s Snapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out, nil
}

// Decode parses the at-rest form back into a snapshot.
func Decode(data []byte) (Snapshot, error) {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(raw, data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var s Snapshot
	if err := json.Unmarshal(raw[:n], &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if s.CurrentIndex < 0 {
		return Snapshot{}, fmt.Errorf("%w: negative index", ErrMalformed)
	}
	s.Answers = normalizeAnswers(s.Answers)
	return s, nil
}

// normalizeAnswers restores the typed answer values that JSON decoding
// flattens: integral float64 back to int, []any back to []string.
func normalizeAnswers(in catalog.Answers) catalog.Answers {
	if in == nil {
		return catalog.Answers{}
	}
	out := make(catalog.Answers, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case float64:
			if val == float64(int(val)) {
				out[k] = int(val)
			} else {
				out[k] = val
			}
		case []any:
			labels := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok {
					labels = append(labels, s)
				}
			}
			out[k] = labels
		default:
			out[k] = v
		}
	}
	return out
}
