package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "agora/contexts/identity-access/authorization-service/domain/errors"
	"agora/contexts/identity-access/authorization-service/ports"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetActor(ctx context.Context, actorID string) (entities.Actor, error) {
	var row actorModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(actorID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Actor{}, domainerrors.ErrActorNotFound
		}
		r.logger.Error("authorization repository operation failed",
			"event", "authz_repo_get_actor_failed",
			"module", "identity-access/authorization-service",
			"layer", "adapter",
			"actor_id", strings.TrimSpace(actorID),
			"error", err.Error(),
		)
		return entities.Actor{}, err
	}
	return row.toEntity(), nil
}

type actorModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Username  string    `gorm:"column:username"`
	Role      string    `gorm:"column:role"`
	Suspended bool      `gorm:"column:suspended"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (actorModel) TableName() string {
	return "actors"
}

func (m actorModel) toEntity() entities.Actor {
	return entities.Actor{
		ActorID:   m.ID,
		Username:  m.Username,
		Role:      entities.Role(m.Role),
		Suspended: m.Suspended,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

var _ ports.ActorRepository = (*Repository)(nil)
