package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("REVIEW_MATCHER_TEST_KEY", " from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr string
	}{
		{
			name:   "file wins",
			src:    Source{Name: "key", File: keyFile, Env: "REVIEW_MATCHER_TEST_KEY", Value: "inline"},
			expect: "from-file",
		},
		{
			name:   "env wins over inline",
			src:    Source{Name: "key", Env: "REVIEW_MATCHER_TEST_KEY", Value: "inline"},
			expect: "from-env",
		},
		{
			name:   "unset env falls back to inline",
			src:    Source{Name: "key", Env: "REVIEW_MATCHER_UNSET_KEY", Value: " inline "},
			expect: "inline",
		},
		{
			name:    "empty file",
			src:     Source{Name: "key", File: emptyFile},
			wantErr: "is empty",
		},
		{
			name:    "missing file",
			src:     Source{Name: "key", File: filepath.Join(dir, "missing")},
			wantErr: "reading key",
		},
		{
			name:    "nothing configured",
			src:     Source{Env: "REVIEW_MATCHER_UNSET_KEY"},
			wantErr: "secret is not configured (set REVIEW_MATCHER_UNSET_KEY)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
