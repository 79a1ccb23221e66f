package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/trueauth/pkg/app"
	"github.com/ghuser/trueauth/pkg/identity"
	"github.com/ghuser/trueauth/services/ledger/application/handlers"
	appsvcs "github.com/ghuser/trueauth/services/ledger/application/services"
)

// LedgerRoutes registers certificate and item endpoints on the provided chi
// router. Issuance, claiming and the owned-items listing require a connected
// wallet; verification and record lookups are public.
func LedgerRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)

	r.Group(func(r chi.Router) {
		r.Use(identity.RequireWallet(a.SessionStore, a.Logger))
		r.Post("/certificate", handlers.NewPostCertificateHandler(svcs).Execute)
		r.Post("/item/claim", handlers.NewPostClaimHandler(svcs).Execute)
		r.Get("/items", handlers.NewListItemsHandler(svcs).Execute)
	})

	r.Post("/certificate/typed-data", handlers.NewPostTypedDataHandler(svcs).Execute)
	r.Get("/certificate/{uniqueId}", handlers.NewGetCertificateHandler(svcs).Execute)
	r.Post("/item/verify", handlers.NewPostVerifyHandler(svcs).Execute)
	r.Get("/item/{itemId}", handlers.NewGetItemHandler(svcs).Execute)
	r.Get("/item/{itemId}/owner", handlers.NewGetOwnerHandler(svcs).Execute)
}
