package services

import (
	"github.com/ghuser/trueauth/pkg/app"
	"github.com/ghuser/trueauth/pkg/cache"
	"github.com/ghuser/trueauth/services/transfer/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Transfer *TransferService
}

// New wires all transfer application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewCodeRepository(a.Db, a.EventBus)
	itemCache := cache.NewItemCache(a.Redis)
	return &Services{
		Transfer: NewTransferService(repo, itemCache, a.Config.TransferCodeTTL),
	}
}
