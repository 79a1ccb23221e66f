package services

import (
	"fmt"

	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/ghuser/trueauth/pkg/identity"
	ledgerdomain "github.com/ghuser/trueauth/services/ledger/domain"
)

// Recover returns the wallet identity that produced sig over digest.
//
// sig is the 65-byte r‖s‖v wire format with v in {0, 1, 27, 28}. Any encoding
// anomaly — wrong length, out-of-range recovery id, point recovery failure —
// is reported as ErrInvalidSignature; callers never see a low-level decode
// error. Pure function: no storage, no network.
func Recover(digest [32]byte, sig []byte) (identity.Address, error) {
	if len(sig) != 65 {
		return identity.Address{}, fmt.Errorf("%w: signature must be 65 bytes, got %d", ledgerdomain.ErrInvalidSignature, len(sig))
	}

	v := sig[64]
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return identity.Address{}, fmt.Errorf("%w: recovery id out of range", ledgerdomain.ErrInvalidSignature)
	}

	// RecoverCompact wants the recovery code first: v ‖ r ‖ s.
	compact := make([]byte, 65)
	compact[0] = v
	copy(compact[1:], sig[:64])

	pub, _, err := secpecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return identity.Address{}, fmt.Errorf("%w: %v", ledgerdomain.ErrInvalidSignature, err)
	}

	// Wallet address = last 20 bytes of keccak256 of the uncompressed public
	// key without its 0x04 prefix.
	uncompressed := pub.SerializeUncompressed()
	hash := Keccak256(uncompressed[1:])

	var addr identity.Address
	copy(addr[:], hash[12:])
	return addr, nil
}
