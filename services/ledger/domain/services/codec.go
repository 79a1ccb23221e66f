// Package services contains the stateless domain services for the ledger
// bounded context: the canonical certificate codec, the domain-separated
// digest, and signature recovery. Everything here is a pure function of its
// inputs — no storage, no network — so the cryptographic path can be
// property-tested in isolation.
package services

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"

	"github.com/ghuser/trueauth/services/ledger/domain/models"
)

// certificateType is the canonical type string committed to by every
// certificate signature. Reordering or renaming any field changes the type
// hash and invalidates all existing signatures.
const certificateType = "Certificate(string name,string uniqueId,string serial,uint256 date,address owner,bytes32 metadataHash)"

const wordSize = 32

// Keccak256 returns the legacy Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var digest [32]byte
	h.Sum(digest[:0])
	return digest
}

// HashMetadata computes the commitment hash over an ordered metadata list:
// Keccak-256 of the ABI encoding of a dynamic string[]. The encoding is
// order-sensitive — swapping two entries changes the digest.
//
// Malformed metadata is rejected before hashing, never coerced: the list must
// be non-empty (the encoding of an empty sequence is not distinguishable from
// padding) and every entry must be valid UTF-8.
func HashMetadata(metadata []string) ([32]byte, error) {
	encoded, err := encodeStringArray(metadata)
	if err != nil {
		return [32]byte{}, err
	}
	return Keccak256(encoded), nil
}

// StructHash computes the typed-data hash of the certificate's signed field
// tuple: keccak256(abi.encode(typeHash, keccak(name), keccak(uniqueId),
// keccak(serial), uint256(date), address(owner), metadataHash)).
//
// Injective over the tuple: every field occupies its own 32-byte word, string
// fields through their hashes, so no two distinct tuples share an encoding.
func StructHash(cert *models.Certificate) [32]byte {
	typeHash := Keccak256([]byte(certificateType))
	nameHash := Keccak256([]byte(cert.Name))
	uniqueIDHash := Keccak256([]byte(cert.UniqueID))
	serialHash := Keccak256([]byte(cert.Serial))

	encoded := make([]byte, 0, 7*wordSize)
	encoded = append(encoded, typeHash[:]...)
	encoded = append(encoded, nameHash[:]...)
	encoded = append(encoded, uniqueIDHash[:]...)
	encoded = append(encoded, serialHash[:]...)
	encoded = append(encoded, uint256Word(big.NewInt(cert.Date))...)
	encoded = append(encoded, addressWord(cert.Owner[:])...)
	encoded = append(encoded, cert.MetadataHash[:]...)

	return Keccak256(encoded)
}

// encodeStringArray ABI-encodes a dynamic string[]: a head word pointing at
// the array data, the element count, one offset word per element (relative to
// the start of the element area), then each element as a length word followed
// by its bytes right-padded to a 32-byte boundary.
func encodeStringArray(list []string) ([]byte, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("metadata list must not be empty")
	}
	for i, s := range list {
		if !utf8.ValidString(s) {
			return nil, fmt.Errorf("metadata entry %d is not valid UTF-8", i)
		}
	}

	n := len(list)
	out := make([]byte, 0, wordSize*(2+2*n))
	out = append(out, offsetWord(wordSize)...) // head: array data starts after this word
	out = append(out, offsetWord(n)...)        // element count

	// Element offsets are measured from the first byte after the count word.
	offset := n * wordSize
	for _, s := range list {
		out = append(out, offsetWord(offset)...)
		offset += wordSize + paddedLen(len(s))
	}
	for _, s := range list {
		out = append(out, offsetWord(len(s))...)
		out = append(out, rightPad([]byte(s))...)
	}
	return out, nil
}

// offsetWord encodes a non-negative integer as a 32-byte big-endian word.
func offsetWord(v int) []byte {
	word := make([]byte, wordSize)
	binary.BigEndian.PutUint64(word[wordSize-8:], uint64(v))
	return word
}

// uint256Word encodes v as a 32-byte big-endian word.
func uint256Word(v *big.Int) []byte {
	word := make([]byte, wordSize)
	v.FillBytes(word)
	return word
}

// addressWord left-pads a 20-byte address to a 32-byte word.
func addressWord(addr []byte) []byte {
	word := make([]byte, wordSize)
	copy(word[wordSize-len(addr):], addr)
	return word
}

// rightPad pads b with zero bytes up to the next 32-byte boundary.
func rightPad(b []byte) []byte {
	padded := make([]byte, paddedLen(len(b)))
	copy(padded, b)
	return padded
}

func paddedLen(n int) int {
	if n%wordSize == 0 {
		return n
	}
	return n + wordSize - n%wordSize
}
