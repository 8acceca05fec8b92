package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Tier string

const (
	TierGuest    Tier = "GUEST"
	TierStandard Tier = "STANDARD"
	TierPremium  Tier = "PREMIUM"
	TierAdmin    Tier = "ADMIN"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	LastName      string             `bson:"lastName" json:"lastName"`
	Username      string             `bson:"username" json:"username"`
	Email         string             `bson:"email" json:"email"`
	BaseRole      Tier               `bson:"baseRole" json:"baseRole"`
	TotalProjects int                `bson:"totalProjects" json:"totalProjects"`
}

// ActiveUser is the already-authenticated caller of a request.
type ActiveUser struct {
	ID            primitive.ObjectID
	Username      string
	Tier          Tier
	TotalProjects int
}

func (u *User) Active() ActiveUser {
	return ActiveUser{
		ID:            u.ID,
		Username:      u.Username,
		Tier:          u.BaseRole,
		TotalProjects: u.TotalProjects,
	}
}

type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Name     string             `bson:"name" json:"name"`
	LastName string             `bson:"lastName" json:"lastName"`
}
