// Package params parses setting overrides from the command line and from
// settings files. Parsed values are validated against setting bounds by the
// settings store, not here; this package only handles the KEY=VALUE grammar.
package params

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSettingOverrides converts a slice of "name=value" strings into a
// settings override map. Later duplicates of a name win, matching flag
// repetition semantics.
//
// Example:
//
//	overrides, err := ParseSettingOverrides([]string{"repeat=3"})
//	// Returns: map[string]int{"repeat": 3}
func ParseSettingOverrides(pairs []string) (map[string]int, error) {
	result := make(map[string]int, len(pairs))

	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("setting %q is not in name=value format (example: --set repeat=3)", pair)
		}
		if name == "" {
			return nil, fmt.Errorf("setting has empty name: %q", pair)
		}

		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("setting %q value %q is not an integer", name, raw)
		}

		result[name] = value
	}

	return result, nil
}
