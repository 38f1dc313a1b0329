package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Filters is the JSON structure of an entity filter file:
//
//	{"entities": ["EMAIL_ADDRESS", "PHONE_NUMBER"]}
type Filters struct {
	Entities []string `json:"entities"`
}

// LoadFilters reads an entity allow-list. An empty path means no filter and
// returns nil. Names are upper-cased and trimmed; validation against the
// known entity kinds is left to the scanner.
func LoadFilters(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	if err := RequireFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // User-provided filter path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read filters file: %w", err)
	}

	var f Filters
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFilters, path, err)
	}

	out := make([]string, 0, len(f.Entities))
	for _, e := range f.Entities {
		e = strings.ToUpper(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out, nil
}
