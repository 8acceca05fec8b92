package services

import (
	"context"

	"taskboard/microservices/projects-service/apperrors"
	"taskboard/microservices/projects-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unlimited marks a tier without a root project ceiling.
const Unlimited = 0

var tierCeilings = map[models.Tier]int{
	models.TierGuest:    3,
	models.TierStandard: 12,
}

// CeilingFor returns the root project ceiling of a tier, or Unlimited.
func CeilingFor(tier models.Tier) int {
	if c, ok := tierCeilings[tier]; ok {
		return c
	}
	return Unlimited
}

// Reservation is one unit of root project quota taken by Reserve. The zero
// value holds nothing and releasing it is a no-op.
type Reservation struct {
	userID primitive.ObjectID
	held   bool
	Total  int
}

func (r *Reservation) Held() bool {
	return r != nil && r.held
}

// QuotaLedger gates how many ROOT projects a user may own.
type QuotaLedger struct {
	users UserStore
}

func NewQuotaLedger(users UserStore) *QuotaLedger {
	return &QuotaLedger{users: users}
}

// Reserve takes one unit of quota for a ROOT project. Other project types do
// not count and get an empty reservation.
func (l *QuotaLedger) Reserve(ctx context.Context, user models.ActiveUser, requested models.ProjectType) (Reservation, error) {
	if !requested.IsRoot() {
		return Reservation{}, nil
	}

	ceiling := CeilingFor(user.Tier)
	if ceiling != Unlimited && user.TotalProjects+1 > ceiling {
		return Reservation{}, quotaExceeded(user.Tier, ceiling)
	}

	total, ok, err := l.users.IncrementTotalProjects(ctx, user.ID, ceiling)
	if err != nil {
		return Reservation{}, err
	}
	if !ok {
		return Reservation{}, quotaExceeded(user.Tier, ceiling)
	}
	return Reservation{userID: user.ID, held: true, Total: total}, nil
}

// Release gives a reservation back. Calling it twice, or on an empty
// reservation, does nothing. The bool reports whether the store counter was
// actually decremented; a counter already at zero, or a missing user, leaves
// Total untouched.
func (l *QuotaLedger) Release(ctx context.Context, r *Reservation) (bool, error) {
	if !r.Held() {
		return false, nil
	}
	total, ok, err := l.users.DecrementTotalProjects(ctx, r.userID)
	if err != nil {
		return false, err
	}
	r.held = false
	if ok {
		r.Total = total
	}
	return ok, nil
}

func quotaExceeded(tier models.Tier, ceiling int) error {
	return apperrors.QuotaExceeded("the %s plan allows %d root projects; upgrade your subscription to create more", tier, ceiling)
}
