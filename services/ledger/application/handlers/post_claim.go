package handlers

import (
	"net/http"

	"github.com/ghuser/trueauth/pkg/errhttp"
	"github.com/ghuser/trueauth/pkg/httpx"
	"github.com/ghuser/trueauth/pkg/identity"
	pkgvalidator "github.com/ghuser/trueauth/pkg/validator"
	appsvcs "github.com/ghuser/trueauth/services/ledger/application/services"
)

// PostClaimHandler handles POST /item/claim requests.
type PostClaimHandler struct {
	svc *appsvcs.Services
}

// NewPostClaimHandler returns a handler backed by the given services.
func NewPostClaimHandler(svc *appsvcs.Services) *PostClaimHandler {
	return &PostClaimHandler{svc: svc}
}

// Execute claims an item: verifies the presented certificate and binds the
// item to the caller as its first owner.
//
//	@Summary		Claim item
//	@Description	Verifies a signed certificate and records the caller as first owner
//	@Tags			ledger
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SignedCertificateRequest	true	"Certificate and signature"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/item/claim [post]
func (h *PostClaimHandler) Execute(w http.ResponseWriter, r *http.Request) {
	claimant, err := identity.WalletFromCtx(r.Context())
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
	item, err := h.svc.Ledger.Claim(r.Context(), sc, claimant, chainID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, itemResponse(item))
}
