package services

import (
	"errors"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/ghuser/trueauth/pkg/identity"
	ledgerdomain "github.com/ghuser/trueauth/services/ledger/domain"
	"github.com/ghuser/trueauth/services/ledger/domain/models"
)

// signDigest produces a wallet-style r‖s‖v signature over the digest.
func signDigest(t *testing.T, key *secp256k1.PrivateKey, digest [32]byte) []byte {
	t.Helper()
	// SignCompact puts the recovery code first; rotate it to the end.
	compact := secpecdsa.SignCompact(key, digest[:], false)
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return sig
}

func walletAddress(key *secp256k1.PrivateKey) identity.Address {
	uncompressed := key.PubKey().SerializeUncompressed()
	hash := Keccak256(uncompressed[1:])
	var addr identity.Address
	copy(addr[:], hash[12:])
	return addr
}

func testDomain() Domain {
	contract, _ := identity.ParseAddress("0x0000000000000000000000000000000000000001")
	return Domain{Name: "CertificateAuth", Version: "1", ChainID: 31337, VerifyingContract: contract}
}

func testCertificate(t *testing.T) *models.Certificate {
	t.Helper()
	owner, _ := identity.ParseAddress("0x8ba1f109551bd432803012645ac136ddd64dba72")
	hash, err := HashMetadata([]string{"color:blue", "movement:automatic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &models.Certificate{
		Name:         "Chronograph",
		UniqueID:     "WCH-1",
		Serial:       "SN-1",
		Date:         1718236800,
		Owner:        owner,
		MetadataHash: hash,
		Metadata:     []string{"color:blue", "movement:automatic"},
	}
}

func TestRecover_RoundTrip(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	digest := testDomain().Digest(testCertificate(t))
	sig := signDigest(t, key, digest)

	got, err := Recover(digest, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != walletAddress(key) {
		t.Fatalf("recovered %s, expected %s", got.Hex(), walletAddress(key).Hex())
	}
}

func TestRecover_AcceptsZeroBasedRecoveryID(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	digest := testDomain().Digest(testCertificate(t))
	sig := signDigest(t, key, digest)
	sig[64] -= 27 // v in {0, 1}

	got, err := Recover(digest, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != walletAddress(key) {
		t.Fatalf("recovered %s, expected %s", got.Hex(), walletAddress(key).Hex())
	}
}

func TestRecover_MutatedCertificateChangesSigner(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	d := testDomain()
	cert := testCertificate(t)
	sig := signDigest(t, key, d.Digest(cert))
	wallet := walletAddress(key)

	mutations := []struct {
		name   string
		mutate func(*models.Certificate)
	}{
		{"name", func(c *models.Certificate) { c.Name = "Counterfeit" }},
		{"uniqueId", func(c *models.Certificate) { c.UniqueID = "WCH-999" }},
		{"serial", func(c *models.Certificate) { c.Serial = "SN-999" }},
		{"date", func(c *models.Certificate) { c.Date++ }},
		{"owner", func(c *models.Certificate) { c.Owner[0] ^= 0x01 }},
		{"metadataHash", func(c *models.Certificate) { c.MetadataHash[31] ^= 0x01 }},
	}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			mutated := *cert
			tt.mutate(&mutated)

			recovered, err := Recover(d.Digest(&mutated), sig)
			if err == nil && recovered == wallet {
				t.Fatalf("signature still attributed to signer after mutating %s", tt.name)
			}
		})
	}
}

func TestRecover_DifferentDomainChangesSigner(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	cert := testCertificate(t)
	sig := signDigest(t, key, testDomain().Digest(cert))
	wallet := walletAddress(key)

	otherChain := testDomain()
	otherChain.ChainID = 1
	recovered, err := Recover(otherChain.Digest(cert), sig)
	if err == nil && recovered == wallet {
		t.Fatal("signature valid across chains")
	}

	otherContract := testDomain()
	otherContract.VerifyingContract[19] ^= 0x01
	recovered, err = Recover(otherContract.Digest(cert), sig)
	if err == nil && recovered == wallet {
		t.Fatal("signature valid across registry instances")
	}
}

func TestRecover_MalformedSignatures(t *testing.T) {
	digest := testDomain().Digest(testCertificate(t))

	tests := []struct {
		name string
		sig  []byte
	}{
		{"nil", nil},
		{"short", make([]byte, 64)},
		{"long", make([]byte, 66)},
		{"bad recovery id", func() []byte {
			s := make([]byte, 65)
			s[64] = 29
			return s
		}()},
		{"garbage r and s", func() []byte {
			s := make([]byte, 65)
			for i := range s[:64] {
				s[i] = 0xff
			}
			s[64] = 27
			return s
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Recover(digest, tt.sig)
			if !errors.Is(err, ledgerdomain.ErrInvalidSignature) {
				t.Fatalf("expected ErrInvalidSignature, got %v", err)
			}
		})
	}
}
