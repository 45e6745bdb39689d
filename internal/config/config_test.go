package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Config
		wantErr string
	}{
		{
			name:  "empty",
			input: "",
			want:  Default(),
		},
		{
			name: "overrides",
			input: `
color: never
max_call_depth: 50
dump:
  symbol_ids: true
serve:
  addr: ":9000"
`,
			want: &Config{
				Color:        ColorNever,
				MaxCallDepth: 50,
				Dump:         DumpConfig{SymbolIDs: true},
				Serve:        ServeConfig{Addr: ":9000"},
				Xref:         XrefConfig{DB: DefaultXrefDB},
			},
		},
		{
			name:    "unknown key",
			input:   "colour: never\n",
			wantErr: "colour",
		},
		{
			name:    "bad color",
			input:   "color: sometimes\n",
			wantErr: "color must be",
		},
		{
			name:    "negative depth",
			input:   "max_call_depth: -1\n",
			wantErr: "max_call_depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Parse() error = %v, want error containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("Load() of a missing explicit path should fail")
	}

	path := filepath.Join(dir, "clarke.yaml")
	if err := os.WriteFile(path, []byte("max_call_depth: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MaxCallDepth != 7 {
		t.Errorf("MaxCallDepth = %d, want 7", cfg.MaxCallDepth)
	}
	if cfg.Color != ColorAuto {
		t.Errorf("Color = %q, want %q", cfg.Color, ColorAuto)
	}
}

func TestPrecedenceTablesAgree(t *testing.T) {
	for op := range Precedences {
		if _, ok := Associativities[op]; !ok {
			t.Errorf("operator %q has a precedence but no associativity", op)
		}
	}
	if len(Precedences) != len(Associativities) {
		t.Errorf("tables differ in size: %d vs %d", len(Precedences), len(Associativities))
	}
}
