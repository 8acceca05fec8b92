package repositories

import (
	"context"
	"errors"

	"taskboard/microservices/projects-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(collection *mongo.Collection) *UserRepo {
	return &UserRepo{collection: collection}
}

func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translateReadError("failed to fetch user", "user", err)
	}
	return &user, nil
}

func (r *UserRepo) FindSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"username": 1, "name": 1, "lastName": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, translateReadError("failed to fetch users", "user", err)
	}
	defer cursor.Close(ctx)

	var users []models.UserSummary
	if err := cursor.All(ctx, &users); err != nil {
		return nil, translateReadError("failed to decode users", "user", err)
	}
	return users, nil
}

// IncrementTotalProjects adds one to the user's root project counter in a
// single conditional update. A ceiling <= 0 means unlimited. ok is false when
// the counter already sits at the ceiling; nothing is written in that case.
func (r *UserRepo) IncrementTotalProjects(ctx context.Context, id primitive.ObjectID, ceiling int) (int, bool, error) {
	filter := bson.M{"_id": id}
	if ceiling > 0 {
		filter["totalProjects"] = bson.M{"$lt": ceiling}
	}
	return r.adjustTotalProjects(ctx, filter, 1)
}

// DecrementTotalProjects gives back one unit; the counter never goes below
// zero. ok is false when nothing was decremented.
func (r *UserRepo) DecrementTotalProjects(ctx context.Context, id primitive.ObjectID) (int, bool, error) {
	return r.adjustTotalProjects(ctx, bson.M{"_id": id, "totalProjects": bson.M{"$gt": 0}}, -1)
}

func (r *UserRepo) adjustTotalProjects(ctx context.Context, filter bson.M, delta int) (int, bool, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"totalProjects": 1})

	var updated struct {
		TotalProjects int `bson:"totalProjects"`
	}
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"totalProjects": delta}}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, translateWriteError("failed to update project counter", err)
	}
	return updated.TotalProjects, true, nil
}
