package langver

import (
	"strings"
	"testing"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // constraint, "" for no directive
	}{
		{"first line", "//! lumen >= 0.1\nfn main() {}\n", ">= 0.1"},
		{"after comments and blanks", "// header\n\n//! lumen ^0.4\nlet x = 1\n", "^0.4"},
		{"none", "fn main() {}\n", ""},
		{"not in leading lines", "fn main() {}\n//! lumen >= 9.0\n", ""},
		{"plain comment is not a directive", "// lumen >= 9.0\nfn main() {}\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Find(tt.src)
			if tt.want == "" {
				if d != nil {
					t.Fatalf("Find = %+v, want nil", d)
				}
				return
			}
			if d == nil {
				t.Fatal("Find = nil")
			}
			if d.Constraint != tt.want {
				t.Errorf("constraint = %q, want %q", d.Constraint, tt.want)
			}
		})
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string // substring, "" for success
	}{
		{"no directive", "fn main() {}\n", ""},
		{"satisfied range", "//! lumen >= 0.1, < 1.0\nfn main() {}\n", ""},
		{"unsatisfied range", "//! lumen >= 9.0\nfn main() {}\n", "does not satisfy"},
		{"empty constraint", "//! lumen\nfn main() {}\n", "no constraint"},
		{"malformed constraint", "//! lumen banana\nfn main() {}\n", "invalid version constraint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.src)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Verify() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
