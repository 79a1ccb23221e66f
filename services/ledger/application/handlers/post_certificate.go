package handlers

import (
	"net/http"

	"github.com/ghuser/trueauth/pkg/errhttp"
	"github.com/ghuser/trueauth/pkg/httpx"
	"github.com/ghuser/trueauth/pkg/identity"
	pkgvalidator "github.com/ghuser/trueauth/pkg/validator"
	appsvcs "github.com/ghuser/trueauth/services/ledger/application/services"
)

// PostCertificateHandler handles POST /certificate requests.
type PostCertificateHandler struct {
	svc *appsvcs.Services
}

// NewPostCertificateHandler returns a handler backed by the given services.
func NewPostCertificateHandler(svc *appsvcs.Services) *PostCertificateHandler {
	return &PostCertificateHandler{svc: svc}
}

// Execute stores a signed certificate issued by the calling manufacturer.
//
//	@Summary		Issue certificate
//	@Description	Stores a manufacturer-signed certificate for later claim or lookup
//	@Tags			ledger
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SignedCertificateRequest	true	"Certificate and signature"
//	@Success		201		{object}	CertificatePayload
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/certificate [post]
func (h *PostCertificateHandler) Execute(w http.ResponseWriter, r *http.Request) {
	issuer, err := identity.WalletFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "wallet authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[SignedCertificateRequest](w, r)
	if !ok {
		return
	}
	sc, err := req.toDomain()
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	chainID := identity.ChainIDFromCtx(r.Context())
	if err := h.svc.Ledger.IssueCertificate(r.Context(), sc, issuer, chainID); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, req.Certificate)
}
