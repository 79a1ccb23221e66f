package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/trueauth/pkg/app"
	"github.com/ghuser/trueauth/pkg/identity"
	"github.com/ghuser/trueauth/services/transfer/application/handlers"
	appsvcs "github.com/ghuser/trueauth/services/transfer/application/services"
)

// TransferRoutes registers transfer-code endpoints on the provided chi
// router. Every operation acts on behalf of a wallet.
func TransferRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)

	r.Group(func(r chi.Router) {
		r.Use(identity.RequireWallet(a.SessionStore, a.Logger))
		r.Route("/transfer", func(r chi.Router) {
			r.Post("/code", handlers.NewPostGenerateCodeHandler(svcs).Execute)
			r.Post("/revoke", handlers.NewPostRevokeHandler(svcs).Execute)
			r.Post("/redeem", handlers.NewPostRedeemHandler(svcs).Execute)
		})
	})
}
