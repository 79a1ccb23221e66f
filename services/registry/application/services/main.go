package services

import (
	"github.com/ghuser/trueauth/pkg/app"
	"github.com/ghuser/trueauth/services/registry/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Registry *RegistryService
}

// New wires all registry application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewRegistryRepository(a.Db)
	return &Services{
		Registry: NewRegistryService(repo),
	}
}
