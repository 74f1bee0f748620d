package params

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParseSettingsFile parses settings file content in .env format into a
// settings override map.
//
// Format rules:
//   - Lines starting with # are comments
//   - Empty lines are ignored
//   - Format: NAME=VALUE, whitespace around = is trimmed
//   - Values can be quoted with single or double quotes
//
// Unlike .env autoloading (godotenv handles that at startup), this format
// carries integer setting values, so every value must parse as an integer.
func ParseSettingsFile(content []byte) (map[string]int, error) {
	result := make(map[string]int)
	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, raw, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format, expected NAME=VALUE", lineNum)
		}

		name = strings.TrimSpace(name)
		raw = strings.TrimSpace(raw)

		if name == "" {
			return nil, fmt.Errorf("line %d: empty setting name", lineNum)
		}

		if len(raw) >= 2 {
			if (strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`)) ||
				(strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'")) {
				raw = raw[1 : len(raw)-1]
			}
		}

		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: setting %q value %q is not an integer", lineNum, name, raw)
		}

		result[name] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	return result, nil
}
