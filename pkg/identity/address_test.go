package identity

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAddress(t *testing.T) {
	t.Run("valid lowercase", func(t *testing.T) {
		a, err := ParseAddress("0x8ba1f109551bd432803012645ac136ddd64dba72")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Hex() != "0x8ba1f109551bd432803012645ac136ddd64dba72" {
			t.Fatalf("unexpected hex: %s", a.Hex())
		}
	})

	t.Run("mixed case normalizes to lowercase", func(t *testing.T) {
		a, err := ParseAddress("0x8Ba1f109551bD432803012645Ac136ddd64DBA72")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Hex() != "0x8ba1f109551bd432803012645ac136ddd64dba72" {
			t.Fatalf("expected lowercase normalization, got %s", a.Hex())
		}
	})

	t.Run("case variants compare equal", func(t *testing.T) {
		a, _ := ParseAddress("0x8ba1f109551bd432803012645ac136ddd64dba72")
		b, _ := ParseAddress("0x8BA1F109551BD432803012645AC136DDD64DBA72")
		if a != b {
			t.Fatal("case variants parsed to different addresses")
		}
	})

	invalid := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no prefix", "8ba1f109551bd432803012645ac136ddd64dba72"},
		{"too short", "0x8ba1"},
		{"too long", "0x8ba1f109551bd432803012645ac136ddd64dba7200"},
		{"non-hex", "0x8ba1f109551bd432803012645ac136ddd64dbg7z"},
	}
	for _, tt := range invalid {
		t.Run(tt.name+" rejected", func(t *testing.T) {
			if _, err := ParseAddress(tt.in); !errors.Is(err, ErrInvalidAddress) {
				t.Fatalf("expected ErrInvalidAddress, got %v", err)
			}
		})
	}
}

func TestAddress_IsZero(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Fatal("zero value not reported as zero")
	}
	a, _ := ParseAddress("0x0000000000000000000000000000000000000001")
	if a.IsZero() {
		t.Fatal("non-zero address reported as zero")
	}
}

func TestAddress_JSONRoundTrip(t *testing.T) {
	a, _ := ParseAddress("0x8ba1f109551bd432803012645ac136ddd64dba72")

	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"0x8ba1f109551bd432803012645ac136ddd64dba72"` {
		t.Fatalf("unexpected JSON: %s", raw)
	}

	var back Address
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != a {
		t.Fatal("round trip changed the address")
	}
}
