package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/trueauth/pkg/httpx"
	"github.com/ghuser/trueauth/pkg/identity"
	appsvcs "github.com/ghuser/trueauth/services/registry/application/services"
)

// GetManufacturerHandler handles GET /manufacturer/{address} requests.
type GetManufacturerHandler struct {
	svc *appsvcs.Services
}

// NewGetManufacturerHandler returns a handler backed by the given services.
func NewGetManufacturerHandler(svc *appsvcs.Services) *GetManufacturerHandler {
	return &GetManufacturerHandler{svc: svc}
}

// Execute looks up a manufacturer profile by wallet address.
//
//	@Summary	Get manufacturer
//	@Tags		registry
//	@Produce	json
//	@Param		address	path		string	true	"Wallet address (0x-prefixed hex)"
//	@Success	200		{object}	ManufacturerResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/manufacturer/{address} [get]
func (h *GetManufacturerHandler) Execute(w http.ResponseWriter, r *http.Request) {
	addr, err := identity.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid address")
		return
	}

	m, found, err := h.svc.Registry.GetManufacturer(r.Context(), addr)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if !found {
		httpx.JSONError(w, http.StatusNotFound, "manufacturer not found")
		return
	}

	httpx.JSON(w, http.StatusOK, ManufacturerResponse{
		Address:      m.Address.Hex(),
		Name:         m.Name.String(),
		RegisteredAt: m.RegisteredAt,
	})
}

// GetUserHandler handles GET /user/{address} requests.
type GetUserHandler struct {
	svc *appsvcs.Services
}

// NewGetUserHandler returns a handler backed by the given services.
func NewGetUserHandler(svc *appsvcs.Services) *GetUserHandler {
	return &GetUserHandler{svc: svc}
}

// Execute looks up a user profile by wallet address.
//
//	@Summary	Get user
//	@Tags		registry
//	@Produce	json
//	@Param		address	path		string	true	"Wallet address (0x-prefixed hex)"
//	@Success	200		{object}	UserResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/user/{address} [get]
func (h *GetUserHandler) Execute(w http.ResponseWriter, r *http.Request) {
	addr, err := identity.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid address")
		return
	}

	u, found, err := h.svc.Registry.GetUser(r.Context(), addr)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if !found {
		httpx.JSONError(w, http.StatusNotFound, "user not found")
		return
	}

	httpx.JSON(w, http.StatusOK, UserResponse{
		Address:      u.Address.Hex(),
		Username:     u.Username.String(),
		RegisteredAt: u.RegisteredAt,
	})
}
