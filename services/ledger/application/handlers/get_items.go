package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/trueauth/pkg/errhttp"
	"github.com/ghuser/trueauth/pkg/httpx"
	"github.com/ghuser/trueauth/pkg/identity"
	appsvcs "github.com/ghuser/trueauth/services/ledger/application/services"
	"github.com/ghuser/trueauth/services/ledger/domain/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListItemsResponse is a paginated slice of the caller's items.
type ListItemsResponse struct {
	Items  []ItemResponse `json:"items"`
	Total  int            `json:"total"  example:"42"`
	Limit  int            `json:"limit"  example:"20"`
	Offset int            `json:"offset" example:"0"`
} // @name ListItemsResponse

// OwnerResponse is the current-owner projection of an item.
type OwnerResponse struct {
	Owner string `json:"owner" example:"0xd8da6bf26964af9d7eed9e03e53415d37aa96045"`
} // @name OwnerResponse

// ListItemsHandler handles GET /items requests.
type ListItemsHandler struct {
	svc *appsvcs.Services
}

// NewListItemsHandler returns a handler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services) *ListItemsHandler {
	return &ListItemsHandler{svc: svc}
}

// Execute lists the items the caller currently owns.
//
//	@Summary	List owned items
//	@Tags		ledger
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (max 100)"
//	@Param		offset	query		int	false	"Page offset"
//	@Success	200		{object}	ListItemsResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	owner, err := identity.WalletFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "wallet authentication required")
		return
	}

	opts := parseQueryOpts(r)
	items, total, err := h.svc.Ledger.ListOwned(r.Context(), owner, opts)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = itemResponse(item)
	}
	httpx.JSON(w, http.StatusOK, ListItemsResponse{
		Items:  out,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// GetItemHandler handles GET /item/{itemId} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
}

// NewGetItemHandler returns a handler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services) *GetItemHandler {
	return &GetItemHandler{svc: svc}
}

// Execute fetches the full ownership record for an item.
//
//	@Summary	Get item
//	@Tags		ledger
//	@Produce	json
//	@Param		itemId	path		string	true	"Item identifier"
//	@Success	200		{object}	ItemResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/item/{itemId} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Ledger.GetItem(r.Context(), chi.URLParam(r, "itemId"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, itemResponse(item))
}

// GetOwnerHandler handles GET /item/{itemId}/owner requests.
type GetOwnerHandler struct {
	svc *appsvcs.Services
}

// NewGetOwnerHandler returns a handler backed by the given services.
func NewGetOwnerHandler(svc *appsvcs.Services) *GetOwnerHandler {
	return &GetOwnerHandler{svc: svc}
}

// Execute resolves an item's current owner.
//
//	@Summary	Get item owner
//	@Tags		ledger
//	@Produce	json
//	@Param		itemId	path		string	true	"Item identifier"
//	@Success	200		{object}	OwnerResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/item/{itemId}/owner [get]
func (h *GetOwnerHandler) Execute(w http.ResponseWriter, r *http.Request) {
	owner, err := h.svc.Ledger.CurrentOwner(r.Context(), chi.URLParam(r, "itemId"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, OwnerResponse{Owner: owner.Hex()})
}

func parseQueryOpts(r *http.Request) repositories.QueryOpts {
	opts := repositories.QueryOpts{Limit: defaultPageSize}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		opts.Limit = v
	}
	if opts.Limit > maxPageSize {
		opts.Limit = maxPageSize
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		opts.Offset = v
	}
	return opts
}
