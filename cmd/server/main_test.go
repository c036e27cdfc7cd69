package main

import "testing"

func TestEnvOr_UsesEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	if got := envOr("PORT", "8080"); got != "9090" {
		t.Fatalf("envOr()=%q want %q", got, "9090")
	}
}

func TestEnvOr_FallsBack(t *testing.T) {
	t.Setenv("PORT", "")
	if got := envOr("PORT", "8080"); got != "8080" {
		t.Fatalf("envOr()=%q want %q", got, "8080")
	}
}

func TestEnvOr_TrimsWhitespace(t *testing.T) {
	t.Setenv("PORT", "  ")
	if got := envOr("PORT", "8080"); got != "8080" {
		t.Fatalf("envOr()=%q want %q", got, "8080")
	}
}
