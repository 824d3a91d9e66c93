package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessageConstructors(t *testing.T) {
	if m := System("be helpful"); m.Role != RoleSystem || m.Content != "be helpful" {
		t.Fatalf("System() = %+v", m)
	}
	if m := User("hi"); m.Role != RoleUser {
		t.Fatalf("User() role = %q, want %q", m.Role, RoleUser)
	}
	if m := Assistant("hello"); m.Role != RoleAssistant {
		t.Fatalf("Assistant() role = %q, want %q", m.Role, RoleAssistant)
	}
}

func TestFailureSentinelsAreDistinct(t *testing.T) {
	wrapped := fmt.Errorf("dial tcp: %w", ErrConnectivity)
	if !errors.Is(wrapped, ErrConnectivity) {
		t.Fatalf("expected wrapped error to match ErrConnectivity")
	}
	if errors.Is(wrapped, ErrUnrecognized) {
		t.Fatalf("connectivity error must not match ErrUnrecognized")
	}
}
