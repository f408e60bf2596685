package content

import (
	"log/slog"

	httpadapter "agora/contexts/community-content/content-service/adapters/http"
	"agora/contexts/community-content/content-service/adapters/memory"
	"agora/contexts/community-content/content-service/application"
	"agora/contexts/community-content/content-service/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository   ports.Repository
	Capabilities ports.Capabilities
	Notifier     ports.Notifier
	Ledger       ports.LikeLedger
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:         deps.Repository,
		Capabilities: deps.Capabilities,
		Notifier:     deps.Notifier,
		Ledger:       deps.Ledger,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Logger:       deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
	}
}

// NewInMemoryModule wires the service against the map-backed store, which also
// serves the capability and like-ledger projections. Notifier is optional and
// may be nil.
func NewInMemoryModule(notifier ports.Notifier, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:   store,
		Capabilities: store,
		Notifier:     notifier,
		Ledger:       store,
		Clock:        store,
		IDGen:        store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
