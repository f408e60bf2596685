package report

import (
	"log/slog"

	httpadapter "agora/contexts/moderation-safety/report-service/adapters/http"
	"agora/contexts/moderation-safety/report-service/adapters/memory"
	"agora/contexts/moderation-safety/report-service/application"
	"agora/contexts/moderation-safety/report-service/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository   ports.Repository
	Capabilities ports.Capabilities
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:         deps.Repository,
		Capabilities: deps.Capabilities,
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
// serves the capability and content projections.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:   store,
		Capabilities: store,
		Clock:        store,
		IDGen:        store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
