package handlers

import (
	"fmt"
	"time"

	"github.com/ghuser/trueauth/pkg/identity"
	"github.com/ghuser/trueauth/services/ledger/domain/models"
)

// CertificatePayload is the wire form of a certificate. Field names follow
// the signed typed-data fields; metadata travels alongside its commitment.
type CertificatePayload struct {
	Name         string   `json:"name"         validate:"required"           example:"Chronograph ref. 5711"`
	UniqueID     string   `json:"uniqueId"     validate:"required"           example:"WCH-2024-00042"`
	Serial       string   `json:"serial"       validate:"required"           example:"SN-98321"`
	Date         int64    `json:"date"         validate:"required,gt=0"      example:"1718236800"`
	Owner        string   `json:"owner"        validate:"required,wallet"    example:"0x8ba1f109551bd432803012645ac136ddd64dba72"`
	MetadataHash string   `json:"metadataHash" validate:"required,hex32"     example:"0x9c22ff5f21f0b81b113e63f7db6da94fedef11b2119b4088b89664fb9a3cb658"`
	Metadata     []string `json:"metadata"     validate:"required,min=1"     example:"color:midnight blue"`
} // @name CertificatePayload

// SignedCertificateRequest carries a certificate plus its 65-byte signature,
// 0x-prefixed hex.
type SignedCertificateRequest struct {
	Certificate CertificatePayload `json:"certificate" validate:"required"`
	Signature   string             `json:"signature"   validate:"required" example:"0x..."`
} // @name SignedCertificateRequest

// ItemResponse describes one ownership record.
type ItemResponse struct {
	ItemID       string    `json:"item_id"      example:"WCH-2024-00042"`
	Name         string    `json:"name"         example:"Chronograph ref. 5711"`
	Serial       string    `json:"serial"       example:"SN-98321"`
	Date         int64     `json:"date"         example:"1718236800"`
	Owner        string    `json:"owner"        example:"0xd8da6bf26964af9d7eed9e03e53415d37aa96045"`
	Manufacturer string    `json:"manufacturer" example:"0x8ba1f109551bd432803012645ac136ddd64dba72"`
	Metadata     []string  `json:"metadata"`
	State        string    `json:"state"        example:"owned"`
	ClaimedAt    time.Time `json:"claimed_at"   example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid signature"`
} // @name ErrorResponse

func (p *CertificatePayload) toDomain() (*models.Certificate, error) {
	owner, err := identity.ParseAddress(p.Owner)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	hash, err := models.ParseMetadataHash(p.MetadataHash)
	if err != nil {
		return nil, fmt.Errorf("metadataHash: %w", err)
	}
	return &models.Certificate{
		Name:         p.Name,
		UniqueID:     p.UniqueID,
		Serial:       p.Serial,
		Date:         p.Date,
		Owner:        owner,
		MetadataHash: hash,
		Metadata:     p.Metadata,
	}, nil
}

func (r *SignedCertificateRequest) toDomain() (*models.SignedCertificate, error) {
	cert, err := r.Certificate.toDomain()
	if err != nil {
		return nil, err
	}
	sig, err := models.ParseSignature(r.Signature)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	return &models.SignedCertificate{Certificate: *cert, Signature: sig}, nil
}

func itemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ItemID:       item.ItemID,
		Name:         item.Name,
		Serial:       item.Serial,
		Date:         item.Date,
		Owner:        item.Owner.Hex(),
		Manufacturer: item.Manufacturer.Hex(),
		Metadata:     item.Metadata,
		State:        string(item.State),
		ClaimedAt:    item.ClaimedAt,
	}
}
