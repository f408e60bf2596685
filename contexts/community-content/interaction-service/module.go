package interaction

import (
	"log/slog"

	httpadapter "agora/contexts/community-content/interaction-service/adapters/http"
	"agora/contexts/community-content/interaction-service/adapters/memory"
	"agora/contexts/community-content/interaction-service/application"
	"agora/contexts/community-content/interaction-service/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Actors     ports.ActorDirectory
	Notifier   ports.Notifier
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:     deps.Repository,
		Actors:   deps.Actors,
		Notifier: deps.Notifier,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
	}
}

// NewInMemoryModule wires the service against the map-backed store, which also
// serves the actor and content projections. Notifier is optional and may be
// nil.
func NewInMemoryModule(notifier ports.Notifier, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Actors:     store,
		Notifier:   notifier,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
