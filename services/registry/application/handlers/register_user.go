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

// RegisterUserRequest is the request body for POST /user/register.
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32" example:"collector_jane"`
} // @name RegisterUserRequest

// UserResponse describes a registered user.
type UserResponse struct {
	Address      string    `json:"address"       example:"0xd8da6bf26964af9d7eed9e03e53415d37aa96045"`
	Username     string    `json:"username"      example:"collector_jane"`
	RegisteredAt time.Time `json:"registered_at" example:"2024-01-15T10:30:00Z"`
} // @name UserResponse

// RegisterUserHandler handles POST /user/register requests.
type RegisterUserHandler struct {
	svc *appsvcs.Services
}

// NewRegisterUserHandler returns a handler backed by the given services.
func NewRegisterUserHandler(svc *appsvcs.Services) *RegisterUserHandler {
	return &RegisterUserHandler{svc: svc}
}

// Execute registers the caller's wallet as a user.
//
//	@Summary		Register user
//	@Description	Binds a unique username to the caller's wallet address
//	@Tags			registry
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterUserRequest	true	"Registration request"
//	@Success		201		{object}	UserResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/user/register [post]
func (h *RegisterUserHandler) Execute(w http.ResponseWriter, r *http.Request) {
	addr, err := identity.WalletFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "wallet authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[RegisterUserRequest](w, r)
	if !ok {
		return
	}

	u, err := h.svc.Registry.RegisterUser(r.Context(), addr, req.Username)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, UserResponse{
		Address:      u.Address.Hex(),
		Username:     u.Username.String(),
		RegisteredAt: u.RegisteredAt,
	})
}
