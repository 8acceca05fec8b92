package repositories

import (
	"context"
	"errors"
	"time"

	"taskboard/microservices/projects-service/apperrors"
	"taskboard/microservices/projects-service/logging"
	"taskboard/microservices/projects-service/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error)
	IncrementTotalProjects(ctx context.Context, id primitive.ObjectID, ceiling int) (int, bool, error)
	DecrementTotalProjects(ctx context.Context, id primitive.ObjectID) (int, bool, error)
}

// BreakingUserRepo guards the user store with a circuit breaker. Only
// internal failures count against the breaker; a missing user or a reached
// ceiling is a normal answer.
type BreakingUserRepo struct {
	inner   userStore
	breaker *gobreaker.CircuitBreaker
}

func NewUsersBreaker(timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "UsersStoreCB",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || apperrors.KindOf(err) != apperrors.KindInternal
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func NewBreakingUserRepo(inner userStore, breaker *gobreaker.CircuitBreaker) *BreakingUserRepo {
	return &BreakingUserRepo{inner: inner, breaker: breaker}
}

func (r *BreakingUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	res, err := r.execute(func() (interface{}, error) {
		return r.inner.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.User), nil
}

func (r *BreakingUserRepo) FindSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	res, err := r.execute(func() (interface{}, error) {
		return r.inner.FindSummaries(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.UserSummary), nil
}

type counterResult struct {
	total int
	ok    bool
}

func (r *BreakingUserRepo) IncrementTotalProjects(ctx context.Context, id primitive.ObjectID, ceiling int) (int, bool, error) {
	res, err := r.execute(func() (interface{}, error) {
		total, ok, err := r.inner.IncrementTotalProjects(ctx, id, ceiling)
		return counterResult{total: total, ok: ok}, err
	})
	if err != nil {
		return 0, false, err
	}
	c := res.(counterResult)
	return c.total, c.ok, nil
}

func (r *BreakingUserRepo) DecrementTotalProjects(ctx context.Context, id primitive.ObjectID) (int, bool, error) {
	res, err := r.execute(func() (interface{}, error) {
		total, ok, err := r.inner.DecrementTotalProjects(ctx, id)
		return counterResult{total: total, ok: ok}, err
	})
	if err != nil {
		return 0, false, err
	}
	c := res.(counterResult)
	return c.total, c.ok, nil
}

func (r *BreakingUserRepo) execute(fn func() (interface{}, error)) (interface{}, error) {
	res, err := r.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, apperrors.Internal("users store unavailable", err)
	}
	return res, err
}
