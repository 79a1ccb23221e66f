package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/trueauth/pkg/errhttp"
	"github.com/ghuser/trueauth/pkg/httpx"
	"github.com/ghuser/trueauth/pkg/identity"
	pkgvalidator "github.com/ghuser/trueauth/pkg/validator"
	appsvcs "github.com/ghuser/trueauth/services/registry/application/services"
)

// RegisterManufacturerRequest is the request body for POST /manufacturer/register.
type RegisterManufacturerRequest struct {
	Name string `json:"name" validate:"required,min=2,max=32" example:"Acme Watchworks"`
} // @name RegisterManufacturerRequest

// ManufacturerResponse describes a registered manufacturer.
type ManufacturerResponse struct {
	Address      string    `json:"address"       example:"0x8ba1f109551bd432803012645ac136ddd64dba72"`
	Name         string    `json:"name"          example:"Acme Watchworks"`
	RegisteredAt time.Time `json:"registered_at" example:"2024-01-15T10:30:00Z"`
} // @name ManufacturerResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"name already taken"`
} // @name ErrorResponse

// RegisterManufacturerHandler handles POST /manufacturer/register requests.
type RegisterManufacturerHandler struct {
	svc *appsvcs.Services
}

// NewRegisterManufacturerHandler returns a handler backed by the given services.
func NewRegisterManufacturerHandler(svc *appsvcs.Services) *RegisterManufacturerHandler {
	return &RegisterManufacturerHandler{svc: svc}
}

// Execute registers the caller's wallet as a manufacturer.
//
//	@Summary		Register manufacturer
//	@Description	Binds a unique display name to the caller's wallet address
//	@Tags			registry
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterManufacturerRequest	true	"Registration request"
//	@Success		201		{object}	ManufacturerResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/manufacturer/register [post]
func (h *RegisterManufacturerHandler) Execute(w http.ResponseWriter, r *http.Request) {
	addr, err := identity.WalletFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "wallet authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[RegisterManufacturerRequest](w, r)
	if !ok {
		return
	}

	m, err := h.svc.Registry.RegisterManufacturer(r.Context(), addr, req.Name)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, ManufacturerResponse{
		Address:      m.Address.Hex(),
		Name:         m.Name.String(),
		RegisteredAt: m.RegisteredAt,
	})
}
