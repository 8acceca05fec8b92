package services

import (
	"context"

	"taskboard/microservices/projects-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStore is the project collection collaborator. Lookups of a missing
// document return an apperrors.KindNotFoundRelated error.
type ProjectStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error)
	Insert(ctx context.Context, p *models.Project) error
	ReplaceAsNew(ctx context.Context, p *models.Project) error
	UpdateField(ctx context.Context, id primitive.ObjectID, field string, expected, value any) (bool, error)
	UpdateFieldWhere(ctx context.Context, id primitive.ObjectID, conditions map[string]any, field string, value any) (bool, error)
	IncrementField(ctx context.Context, id primitive.ObjectID, field string, delta int) error
}

type TaskStore interface {
	CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
}

// UserStore owns the per-user root project counter.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error)
	IncrementTotalProjects(ctx context.Context, id primitive.ObjectID, ceiling int) (int, bool, error)
	DecrementTotalProjects(ctx context.Context, id primitive.ObjectID) (int, bool, error)
}

// Transactor scopes a unit of work. Implementations that cannot provide
// atomicity just call fn and report Atomic false.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic reports whether a failed fn leaves no writes behind.
	Atomic() bool
}

type directTx struct{}

func (directTx) Atomic() bool { return false }

func (directTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
