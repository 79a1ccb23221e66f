package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/trueauth/pkg/errhttp"
	"github.com/ghuser/trueauth/pkg/httpx"
	"github.com/ghuser/trueauth/pkg/identity"
	pkgvalidator "github.com/ghuser/trueauth/pkg/validator"
	appsvcs "github.com/ghuser/trueauth/services/transfer/application/services"
)

// GenerateCodeRequest is the request body for POST /transfer/code.
type GenerateCodeRequest struct {
	ItemID    string `json:"itemId"    validate:"required" example:"WCH-2024-00042"`
	Recipient string `json:"recipient" validate:"required,wallet" example:"0xd8da6bf26964af9d7eed9e03e53415d37aa96045"`
} // @name GenerateCodeRequest

// GenerateCodeResponse carries the minted single-use code. The token is
// returned exactly once, here.
type GenerateCodeResponse struct {
	Code      string    `json:"code"       example:"0x4f3c..."`
	ItemID    string    `json:"item_id"    example:"WCH-2024-00042"`
	Recipient string    `json:"recipient"  example:"0xd8da6bf26964af9d7eed9e03e53415d37aa96045"`
	ExpiresAt time.Time `json:"expires_at" example:"2024-01-18T10:30:00Z"`
} // @name GenerateCodeResponse

// CodeRequest carries a transfer-code token for revoke and redeem.
type CodeRequest struct {
	Code string `json:"code" validate:"required" example:"0x4f3c..."`
} // @name CodeRequest

// RedeemResponse reports a completed transfer.
type RedeemResponse struct {
	ItemID string `json:"item_id" example:"WCH-2024-00042"`
	Owner  string `json:"owner"   example:"0xd8da6bf26964af9d7eed9e03e53415d37aa96045"`
} // @name RedeemResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"transfer code is not active"`
} // @name ErrorResponse

// PostGenerateCodeHandler handles POST /transfer/code requests.
type PostGenerateCodeHandler struct {
	svc *appsvcs.Services
}

// NewPostGenerateCodeHandler returns a handler backed by the given services.
func NewPostGenerateCodeHandler(svc *appsvcs.Services) *PostGenerateCodeHandler {
	return &PostGenerateCodeHandler{svc: svc}
}

// Execute mints a single-use transfer code for an item the caller owns.
//
//	@Summary		Generate transfer code
//	@Description	Mints a single-use code addressed to a recipient wallet
//	@Tags			transfer
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GenerateCodeRequest	true	"Item and recipient"
//	@Success		201		{object}	GenerateCodeResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/transfer/code [post]
func (h *PostGenerateCodeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	owner, err := identity.WalletFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "wallet authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[GenerateCodeRequest](w, r)
	if !ok {
		return
	}
	recipient, err := identity.ParseAddress(req.Recipient)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid recipient address")
		return
	}

	code, err := h.svc.Transfer.GenerateCode(r.Context(), req.ItemID, owner, recipient)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, GenerateCodeResponse{
		Code:      code.Token,
		ItemID:    code.ItemID,
		Recipient: code.Recipient.Hex(),
		ExpiresAt: code.ExpiresAt,
	})
}

// PostRevokeHandler handles POST /transfer/revoke requests.
type PostRevokeHandler struct {
	svc *appsvcs.Services
}

// NewPostRevokeHandler returns a handler backed by the given services.
func NewPostRevokeHandler(svc *appsvcs.Services) *PostRevokeHandler {
	return &PostRevokeHandler{svc: svc}
}

// Execute cancels an unconsumed code the caller generated.
//
//	@Summary		Revoke transfer code
//	@Description	Permanently invalidates an outstanding code
//	@Tags			transfer
//	@Accept			json
//	@Produce		json
//	@Param			request	body	CodeRequest	true	"Code to revoke"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		410	{object}	ErrorResponse
//	@Router			/transfer/revoke [post]
func (h *PostRevokeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	requester, err := identity.WalletFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "wallet authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CodeRequest](w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Transfer.Revoke(r.Context(), req.Code, requester); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.NoContent(w)
}

// PostRedeemHandler handles POST /transfer/redeem requests.
type PostRedeemHandler struct {
	svc *appsvcs.Services
}

// NewPostRedeemHandler returns a handler backed by the given services.
func NewPostRedeemHandler(svc *appsvcs.Services) *PostRedeemHandler {
	return &PostRedeemHandler{svc: svc}
}

// Execute redeems a code presented by its named recipient, completing the
// ownership transfer.
//
//	@Summary		Redeem transfer code
//	@Description	Consumes a code and reassigns the item to the caller
//	@Tags			transfer
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CodeRequest	true	"Code to redeem"
//	@Success		200		{object}	RedeemResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		410		{object}	ErrorResponse
//	@Router			/transfer/redeem [post]
func (h *PostRedeemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	claimant, err := identity.WalletFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "wallet authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CodeRequest](w, r)
	if !ok {
		return
	}

	code, err := h.svc.Transfer.Redeem(r.Context(), req.Code, claimant)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, RedeemResponse{
		ItemID: code.ItemID,
		Owner:  claimant.Hex(),
	})
}
