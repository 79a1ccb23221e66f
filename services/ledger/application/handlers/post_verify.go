package handlers

import (
	"net/http"

	"github.com/ghuser/trueauth/pkg/httpx"
	"github.com/ghuser/trueauth/pkg/identity"
	pkgvalidator "github.com/ghuser/trueauth/pkg/validator"
	appsvcs "github.com/ghuser/trueauth/services/ledger/application/services"
)

// VerifyResponse is the authenticity verdict for a presented certificate.
// Invalid certificates carry no manufacturer name and no failure reason.
type VerifyResponse struct {
	IsValid          bool   `json:"is_valid"          example:"true"`
	ManufacturerName string `json:"manufacturer_name" example:"Acme Watchworks"`
} // @name VerifyResponse

// PostVerifyHandler handles POST /item/verify requests.
type PostVerifyHandler struct {
	svc *appsvcs.Services
}

// NewPostVerifyHandler returns a handler backed by the given services.
func NewPostVerifyHandler(svc *appsvcs.Services) *PostVerifyHandler {
	return &PostVerifyHandler{svc: svc}
}

// Execute checks a certificate's authenticity without touching the ledger.
//
//	@Summary		Verify authenticity
//	@Description	Reports whether a certificate was signed by a registered manufacturer
//	@Tags			ledger
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SignedCertificateRequest	true	"Certificate and signature"
//	@Success		200		{object}	VerifyResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/item/verify [post]
func (h *PostVerifyHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SignedCertificateRequest](w, r)
	if !ok {
		return
	}
	sc, err := req.toDomain()
	if err != nil {
		// Malformed fields are just another way to be inauthentic.
		httpx.JSON(w, http.StatusOK, VerifyResponse{IsValid: false})
		return
	}

	chainID := identity.ChainIDFromCtx(r.Context())
	valid, name := h.svc.Ledger.VerifyAuthenticity(r.Context(), sc, chainID)
	httpx.JSON(w, http.StatusOK, VerifyResponse{IsValid: valid, ManufacturerName: name})
}
