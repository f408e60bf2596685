package authorization

import (
	"log/slog"

	"agora/contexts/identity-access/authorization-service/adapters/memory"
	"agora/contexts/identity-access/authorization-service/application"
	"agora/contexts/identity-access/authorization-service/ports"
)

type Module struct {
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Actors ports.ActorRepository
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Actors: deps.Actors,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{Actors: store, Logger: logger})
	module.Store = store
	return module
}
