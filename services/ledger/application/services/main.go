package services

import (
	"github.com/ghuser/trueauth/pkg/app"
	"github.com/ghuser/trueauth/pkg/cache"
	"github.com/ghuser/trueauth/pkg/identity"
	domainsvcs "github.com/ghuser/trueauth/services/ledger/domain/services"
	"github.com/ghuser/trueauth/services/ledger/infrastructure/persistence/postgres"
	registrysvcs "github.com/ghuser/trueauth/services/registry/application/services"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Ledger *LedgerService
}

// New wires all ledger application services with infrastructure from the
// Application container. The registry context supplies issuer and claimant
// lookups.
func New(a *app.Application) *Services {
	items := postgres.NewItemRepository(a.Db, a.EventBus)
	certs := postgres.NewCertificateRepository(a.Db)
	itemCache := cache.NewItemCache(a.Redis)
	registry := registrysvcs.New(a).Registry

	// Malformed registry addresses degrade to the zero address here;
	// config.ValidateForProduction rejects that before a production boot.
	registryAddr, _ := identity.ParseAddress(a.Config.RegistryAddress)

	signingDomain := domainsvcs.Domain{
		Name:              a.Config.SigningDomain,
		Version:           a.Config.SignatureVersion,
		ChainID:           a.Config.ChainID,
		VerifyingContract: registryAddr,
	}

	return &Services{
		Ledger: NewLedgerService(signingDomain, a.Config.ChainID, items, certs, registry, itemCache),
	}
}
