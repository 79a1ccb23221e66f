package handlers

import (
	"encoding/hex"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/trueauth/pkg/errhttp"
	"github.com/ghuser/trueauth/pkg/httpx"
	appsvcs "github.com/ghuser/trueauth/services/ledger/application/services"
)

// SignedCertificateResponse returns a stored certificate with its signature.
type SignedCertificateResponse struct {
	Certificate CertificatePayload `json:"certificate"`
	Signature   string             `json:"signature" example:"0x..."`
} // @name SignedCertificateResponse

// GetCertificateHandler handles GET /certificate/{uniqueId} requests.
type GetCertificateHandler struct {
	svc *appsvcs.Services
}

// NewGetCertificateHandler returns a handler backed by the given services.
func NewGetCertificateHandler(svc *appsvcs.Services) *GetCertificateHandler {
	return &GetCertificateHandler{svc: svc}
}

// Execute fetches a stored certificate by its item identifier.
//
//	@Summary	Get certificate
//	@Tags		ledger
//	@Produce	json
//	@Param		uniqueId	path		string	true	"Certificate unique identifier"
//	@Success	200			{object}	SignedCertificateResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/certificate/{uniqueId} [get]
func (h *GetCertificateHandler) Execute(w http.ResponseWriter, r *http.Request) {
	sc, err := h.svc.Ledger.GetCertificate(r.Context(), chi.URLParam(r, "uniqueId"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, SignedCertificateResponse{
		Certificate: CertificatePayload{
			Name:         sc.Certificate.Name,
			UniqueID:     sc.Certificate.UniqueID,
			Serial:       sc.Certificate.Serial,
			Date:         sc.Certificate.Date,
			Owner:        sc.Certificate.Owner.Hex(),
			MetadataHash: sc.Certificate.MetadataHashHex(),
			Metadata:     sc.Certificate.Metadata,
		},
		Signature: "0x" + hex.EncodeToString(sc.Signature),
	})
}
