package core

import "testing"

func TestValidLicense(t *testing.T) {
	tests := map[string]bool{
		"MIT":                    true,
		"Apache-2.0":             true,
		"(MIT OR Apache-2.0)":    true,
		"":                       false,
		"SEE LICENSE IN LICENSE": false,
		"not a license":          false,
	}
	for in, want := range tests {
		if got := ValidLicense(in); got != want {
			t.Errorf("ValidLicense(%q) = %v, want %v", in, got, want)
		}
	}
}
