package handlers

import (
	"fmt"
	"net/http"

	"github.com/ghuser/trueauth/pkg/errhttp"
	"github.com/ghuser/trueauth/pkg/httpx"
	"github.com/ghuser/trueauth/pkg/identity"
	pkgvalidator "github.com/ghuser/trueauth/pkg/validator"
	appsvcs "github.com/ghuser/trueauth/services/ledger/application/services"
	"github.com/ghuser/trueauth/services/ledger/domain/models"
)

// TypedDataRequest carries the certificate fields to render into an EIP-712
// signing payload. The metadata commitment is computed server-side.
type TypedDataRequest struct {
	Name     string   `json:"name"     validate:"required"       example:"Chronograph ref. 5711"`
	UniqueID string   `json:"uniqueId" validate:"required"       example:"WCH-2024-00042"`
	Serial   string   `json:"serial"   validate:"required"       example:"SN-98321"`
	Date     int64    `json:"date"     validate:"required,gt=0"  example:"1718236800"`
	Owner    string   `json:"owner"    validate:"required,wallet" example:"0x8ba1f109551bd432803012645ac136ddd64dba72"`
	Metadata []string `json:"metadata" validate:"required,min=1" example:"color:midnight blue"`
} // @name TypedDataRequest

// PostTypedDataHandler handles POST /certificate/typed-data requests.
type PostTypedDataHandler struct {
	svc *appsvcs.Services
}

// NewPostTypedDataHandler returns a handler backed by the given services.
func NewPostTypedDataHandler(svc *appsvcs.Services) *PostTypedDataHandler {
	return &PostTypedDataHandler{svc: svc}
}

// Execute renders the EIP-712 signing payload for a certificate.
//
//	@Summary		Build typed data
//	@Description	Returns the EIP-712 object a manufacturer wallet signs to issue a certificate
//	@Tags			ledger
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TypedDataRequest	true	"Certificate fields"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/certificate/typed-data [post]
func (h *PostTypedDataHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[TypedDataRequest](w, r)
	if !ok {
		return
	}

	owner, err := identity.ParseAddress(req.Owner)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, fmt.Sprintf("owner: %s", err))
		return
	}

	td, err := h.svc.Ledger.BuildTypedData(r.Context(), &models.Certificate{
		Name:     req.Name,
		UniqueID: req.UniqueID,
		Serial:   req.Serial,
		Date:     req.Date,
		Owner:    owner,
		Metadata: req.Metadata,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, td)
}
