package services

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ghuser/trueauth/pkg/identity"
	"github.com/ghuser/trueauth/services/ledger/domain/models"
)

// domainType is the EIP-712 domain type string. The domain binds every
// signature to one deployment: same certificate, different chain or registry
// instance, different digest.
const domainType = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"

// Domain identifies one deployment of the ledger for signature purposes.
type Domain struct {
	Name              string
	Version           string
	ChainID           int64
	VerifyingContract identity.Address
}

// Separator computes the domain separator hash.
func (d Domain) Separator() [32]byte {
	typeHash := Keccak256([]byte(domainType))
	nameHash := Keccak256([]byte(d.Name))
	versionHash := Keccak256([]byte(d.Version))

	encoded := make([]byte, 0, 5*wordSize)
	encoded = append(encoded, typeHash[:]...)
	encoded = append(encoded, nameHash[:]...)
	encoded = append(encoded, versionHash[:]...)
	encoded = append(encoded, uint256Word(big.NewInt(d.ChainID))...)
	encoded = append(encoded, addressWord(d.VerifyingContract[:])...)

	return Keccak256(encoded)
}

// Digest computes the signed digest for a certificate under this domain:
// keccak256(0x19 ‖ 0x01 ‖ domainSeparator ‖ structHash).
func (d Domain) Digest(cert *models.Certificate) [32]byte {
	separator := d.Separator()
	structHash := StructHash(cert)

	preimage := make([]byte, 0, 2+2*wordSize)
	preimage = append(preimage, 0x19, 0x01)
	preimage = append(preimage, separator[:]...)
	preimage = append(preimage, structHash[:]...)

	return Keccak256(preimage)
}

// TypedData is the wallet-facing signing object: the structured payload a
// manufacturer's wallet renders and signs. Shape follows the common typed
// structured data convention so any standard wallet can consume it.
type TypedData struct {
	Domain  TypedDataDomain             `json:"domain"`
	Types   map[string][]TypedDataField `json:"types"`
	Primary string                      `json:"primaryType"`
	Message map[string]any              `json:"message"`
}

// TypedDataDomain mirrors Domain with wire-friendly field names.
type TypedDataDomain struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	ChainID           string `json:"chainId"`
	VerifyingContract string `json:"verifyingContract"`
}

// TypedDataField names one field of a typed struct.
type TypedDataField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// BuildTypedData assembles the signing object for a certificate. The metadata
// commitment is recomputed here so a caller-supplied hash never reaches a
// wallet for signing.
func (d Domain) BuildTypedData(cert *models.Certificate) (*TypedData, error) {
	metadataHash, err := HashMetadata(cert.Metadata)
	if err != nil {
		return nil, fmt.Errorf("hash metadata: %w", err)
	}

	return &TypedData{
		Domain: TypedDataDomain{
			Name:              d.Name,
			Version:           d.Version,
			ChainID:           strconv.FormatInt(d.ChainID, 10),
			VerifyingContract: d.VerifyingContract.Hex(),
		},
		Types: map[string][]TypedDataField{
			"Certificate": {
				{Name: "name", Type: "string"},
				{Name: "uniqueId", Type: "string"},
				{Name: "serial", Type: "string"},
				{Name: "date", Type: "uint256"},
				{Name: "owner", Type: "address"},
				{Name: "metadataHash", Type: "bytes32"},
			},
		},
		Primary: "Certificate",
		Message: map[string]any{
			"name":         cert.Name,
			"uniqueId":     cert.UniqueID,
			"serial":       cert.Serial,
			"date":         strconv.FormatInt(cert.Date, 10),
			"owner":        cert.Owner.Hex(),
			"metadataHash": "0x" + fmt.Sprintf("%x", metadataHash),
		},
	}, nil
}
