package models

import (
	"strings"
	"testing"
)

func TestNewManufacturerName(t *testing.T) {
	t.Run("valid two characters", func(t *testing.T) {
		n, err := NewManufacturerName("Ax")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "Ax" {
			t.Fatalf("expected %q, got %q", "Ax", n.String())
		}
	})

	t.Run("valid 32 characters", func(t *testing.T) {
		s := strings.Repeat("x", 32)
		if _, err := NewManufacturerName(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("single character returns error", func(t *testing.T) {
		if _, err := NewManufacturerName("A"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("33 characters returns error", func(t *testing.T) {
		if _, err := NewManufacturerName(strings.Repeat("x", 33)); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestManufacturerName_Key(t *testing.T) {
	a := ManufacturerName("Acme Watchworks")
	b := ManufacturerName("ACME WATCHWORKS")
	if a.Key() != b.Key() {
		t.Fatalf("expected case-insensitive keys to match: %q vs %q", a.Key(), b.Key())
	}
	if a.String() != "Acme Watchworks" {
		t.Fatalf("original casing lost: %q", a.String())
	}
}

func TestNewUsername(t *testing.T) {
	t.Run("valid three characters", func(t *testing.T) {
		u, err := NewUsername("abc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.String() != "abc" {
			t.Fatalf("expected %q, got %q", "abc", u.String())
		}
	})

	t.Run("valid 32 characters", func(t *testing.T) {
		if _, err := NewUsername(strings.Repeat("x", 32)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("two characters returns error", func(t *testing.T) {
		if _, err := NewUsername("ab"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("33 characters returns error", func(t *testing.T) {
		if _, err := NewUsername(strings.Repeat("x", 33)); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
