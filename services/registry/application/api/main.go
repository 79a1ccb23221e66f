package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/trueauth/pkg/app"
	"github.com/ghuser/trueauth/pkg/identity"
	"github.com/ghuser/trueauth/services/registry/application/handlers"
	appsvcs "github.com/ghuser/trueauth/services/registry/application/services"
)

// RegistryRoutes registers identity-registry endpoints on the provided chi
// router. Registration requires a connected wallet; profile lookups are
// public.
func RegistryRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)

	r.Group(func(r chi.Router) {
		r.Use(identity.RequireWallet(a.SessionStore, a.Logger))
		r.Post("/manufacturer/register", handlers.NewRegisterManufacturerHandler(svcs).Execute)
		r.Post("/user/register", handlers.NewRegisterUserHandler(svcs).Execute)
	})

	r.Get("/manufacturer/{address}", handlers.NewGetManufacturerHandler(svcs).Execute)
	r.Get("/user/{address}", handlers.NewGetUserHandler(svcs).Execute)
}
