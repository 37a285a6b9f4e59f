package httpapi

import "testing"

func TestSetMaxBodyBytesDefaultWhenNonPositive(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB on zero, got %d", maxBodyBytes)
	}
}

func TestCORSDefaults(t *testing.T) {
	defer SetCORSOptions(false, nil, nil, nil)
	SetCORSOptions(true, nil, nil, nil)
	if got := corsOrigins(); len(got) != 1 || got[0] != "*" {
		t.Fatalf("origins=%v", got)
	}
	if got := corsMethods(); len(got) == 0 {
		t.Fatalf("methods=%v", got)
	}
	SetCORSOptions(true, []string{"https://app.example.com"}, nil, nil)
	if got := corsOrigins(); len(got) != 1 || got[0] != "https://app.example.com" {
		t.Fatalf("origins=%v", got)
	}
}
