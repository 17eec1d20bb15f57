package utils

import (
	"strings"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("RELDB_TEST_VAR", "")
	if got := GetEnvOrDefault("RELDB_TEST_VAR", "dflt"); got != "dflt" {
		t.Fatalf("expected default, got %q", got)
	}
	t.Setenv("RELDB_TEST_VAR", "set")
	if got := GetEnvOrDefault("RELDB_TEST_VAR", "dflt"); got != "set" {
		t.Fatalf("expected env value, got %q", got)
	}
	t.Setenv("RELDB_TEST_INT", "4096")
	if got := GetEnvOrDefaultInt("RELDB_TEST_INT", 1); got != 4096 {
		t.Fatalf("expected 4096, got %d", got)
	}
}

func TestIDs(t *testing.T) {
	a, b := GenKSortedID("t_"), GenKSortedID("t_")
	if !strings.HasPrefix(a, "t_") || a == b {
		t.Fatalf("unexpected ksorted ids %q %q", a, b)
	}
	if s := GenRandomString(5); len(s) != 5 {
		t.Fatalf("unexpected random string %q", s)
	}
}
