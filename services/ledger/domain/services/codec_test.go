package services

import (
	"encoding/hex"
	"testing"

	"github.com/ghuser/trueauth/pkg/identity"
	"github.com/ghuser/trueauth/services/ledger/domain/models"
)

func TestKeccak256(t *testing.T) {
	t.Run("empty input known vector", func(t *testing.T) {
		got := Keccak256()
		want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
		if hex.EncodeToString(got[:]) != want {
			t.Fatalf("expected %s, got %x", want, got)
		}
	})

	t.Run("concatenates chunks", func(t *testing.T) {
		whole := Keccak256([]byte("hello world"))
		split := Keccak256([]byte("hello "), []byte("world"))
		if whole != split {
			t.Fatalf("chunked hash %x differs from whole hash %x", split, whole)
		}
	})
}

func TestHashMetadata(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a, err := HashMetadata([]string{"color:blue", "size:42"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := HashMetadata([]string{"color:blue", "size:42"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a != b {
			t.Fatalf("same list hashed to %x and %x", a, b)
		}
	})

	t.Run("order sensitive", func(t *testing.T) {
		a, err := HashMetadata([]string{"color:blue", "size:42"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := HashMetadata([]string{"size:42", "color:blue"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a == b {
			t.Fatal("reordered list produced the same commitment")
		}
	})

	t.Run("element boundaries matter", func(t *testing.T) {
		a, err := HashMetadata([]string{"ab", "c"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := HashMetadata([]string{"a", "bc"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a == b {
			t.Fatal("different element boundaries produced the same commitment")
		}
	})

	t.Run("empty list rejected", func(t *testing.T) {
		if _, err := HashMetadata(nil); err == nil {
			t.Fatal("expected error, got nil")
		}
		if _, err := HashMetadata([]string{}); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("invalid utf-8 rejected", func(t *testing.T) {
		if _, err := HashMetadata([]string{"ok", string([]byte{0xff, 0xfe})}); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("empty elements allowed", func(t *testing.T) {
		if _, err := HashMetadata([]string{""}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestStructHash(t *testing.T) {
	base := func() *models.Certificate {
		owner, _ := identity.ParseAddress("0x8ba1f109551bd432803012645ac136ddd64dba72")
		hash, _ := HashMetadata([]string{"color:blue"})
		return &models.Certificate{
			Name:         "Chronograph",
			UniqueID:     "WCH-1",
			Serial:       "SN-1",
			Date:         1718236800,
			Owner:        owner,
			MetadataHash: hash,
			Metadata:     []string{"color:blue"},
		}
	}

	t.Run("deterministic", func(t *testing.T) {
		if StructHash(base()) != StructHash(base()) {
			t.Fatal("same certificate produced different struct hashes")
		}
	})

	mutations := []struct {
		name   string
		mutate func(*models.Certificate)
	}{
		{"name", func(c *models.Certificate) { c.Name = "Chronograph X" }},
		{"uniqueId", func(c *models.Certificate) { c.UniqueID = "WCH-2" }},
		{"serial", func(c *models.Certificate) { c.Serial = "SN-2" }},
		{"date", func(c *models.Certificate) { c.Date++ }},
		{"owner", func(c *models.Certificate) { c.Owner[19] ^= 0x01 }},
		{"metadataHash", func(c *models.Certificate) { c.MetadataHash[0] ^= 0x01 }},
	}
	for _, tt := range mutations {
		t.Run("changes with "+tt.name, func(t *testing.T) {
			orig := base()
			mutated := base()
			tt.mutate(mutated)
			if StructHash(orig) == StructHash(mutated) {
				t.Fatalf("mutating %s did not change the struct hash", tt.name)
			}
		})
	}
}

func TestDomainSeparator(t *testing.T) {
	contract, _ := identity.ParseAddress("0x0000000000000000000000000000000000000001")
	base := Domain{Name: "CertificateAuth", Version: "1", ChainID: 31337, VerifyingContract: contract}

	t.Run("deterministic", func(t *testing.T) {
		if base.Separator() != base.Separator() {
			t.Fatal("same domain produced different separators")
		}
	})

	t.Run("binds chain id", func(t *testing.T) {
		other := base
		other.ChainID = 1
		if base.Separator() == other.Separator() {
			t.Fatal("different chain ids produced the same separator")
		}
	})

	t.Run("binds contract", func(t *testing.T) {
		other := base
		other.VerifyingContract[19] ^= 0x01
		if base.Separator() == other.Separator() {
			t.Fatal("different contracts produced the same separator")
		}
	})
}

func TestBuildTypedData(t *testing.T) {
	contract, _ := identity.ParseAddress("0x0000000000000000000000000000000000000001")
	owner, _ := identity.ParseAddress("0x8ba1f109551bd432803012645ac136ddd64dba72")
	d := Domain{Name: "CertificateAuth", Version: "1", ChainID: 31337, VerifyingContract: contract}

	cert := &models.Certificate{
		Name:     "Chronograph",
		UniqueID: "WCH-1",
		Serial:   "SN-1",
		Date:     1718236800,
		Owner:    owner,
		Metadata: []string{"color:blue"},
	}

	td, err := d.BuildTypedData(cert)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if td.Primary != "Certificate" {
		t.Fatalf("expected primary type Certificate, got %q", td.Primary)
	}
	if td.Domain.ChainID != "31337" {
		t.Fatalf("expected chain id 31337, got %s", td.Domain.ChainID)
	}
	if _, ok := td.Types["Certificate"]; !ok {
		t.Fatal("typed data missing Certificate type definition")
	}

	wantHash, err := HashMetadata(cert.Metadata)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := td.Message["metadataHash"].(string)
	if !ok {
		t.Fatal("typed data message missing metadataHash")
	}
	if got != "0x"+hex.EncodeToString(wantHash[:]) {
		t.Fatalf("metadata hash not recomputed: got %s", got)
	}
}
