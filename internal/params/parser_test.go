package params

import (
	"strings"
	"testing"
)

func TestParseSettingOverrides(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    map[string]int
		wantErr string
	}{
		{
			name:  "single override",
			input: []string{"repeat=3"},
			want:  map[string]int{"repeat": 3},
		},
		{
			name:  "multiple overrides",
			input: []string{"repeat=2", "verbosity=1"},
			want:  map[string]int{"repeat": 2, "verbosity": 1},
		},
		{
			name:  "empty input",
			input: []string{},
			want:  map[string]int{},
		},
		{
			name:  "nil input",
			input: nil,
			want:  map[string]int{},
		},
		{
			name:  "negative value",
			input: []string{"offset=-5"},
			want:  map[string]int{"offset": -5},
		},
		{
			name:  "duplicate name last wins",
			input: []string{"repeat=2", "repeat=7"},
			want:  map[string]int{"repeat": 7},
		},
		{
			name:    "missing equals",
			input:   []string{"repeat3"},
			wantErr: "not in name=value format",
		},
		{
			name:    "empty name",
			input:   []string{"=3"},
			wantErr: "empty name",
		},
		{
			name:    "non-integer value",
			input:   []string{"repeat=three"},
			wantErr: "not an integer",
		},
		{
			name:    "empty value",
			input:   []string{"repeat="},
			wantErr: "not an integer",
		},
		{
			name:    "error on second pair",
			input:   []string{"repeat=2", "bad"},
			wantErr: "not in name=value format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSettingOverrides(tt.input)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got: %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseSettingOverrides() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for name, value := range tt.want {
				if got[name] != value {
					t.Errorf("got[%q] = %d, want %d", name, got[name], value)
				}
			}
		})
	}
}
