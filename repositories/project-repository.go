package repositories

import (
	"context"
	"time"

	"taskboard/microservices/projects-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProjectRepo struct {
	collection *mongo.Collection
}

func NewProjectRepo(collection *mongo.Collection) *ProjectRepo {
	return &ProjectRepo{collection: collection}
}

func (r *ProjectRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		return nil, translateReadError("failed to fetch project", "project", err)
	}
	return &project, nil
}

func (r *ProjectRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translateReadError("failed to fetch projects", "project", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, translateReadError("failed to decode projects", "project", err)
	}
	return projects, nil
}

// Insert writes p, assigning an id when it has none.
func (r *ProjectRepo) Insert(ctx context.Context, p *models.Project) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, p)
	return translateWriteError("failed to create project", err)
}

// ReplaceAsNew stores p as a brand new document regardless of the id it
// carried in.
func (r *ProjectRepo) ReplaceAsNew(ctx context.Context, p *models.Project) error {
	p.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, p)
	return translateWriteError("failed to create project", err)
}

// UpdateField sets one field. When expected is non-nil the update only
// applies if the field currently holds expected; the bool reports whether a
// document changed.
func (r *ProjectRepo) UpdateField(ctx context.Context, id primitive.ObjectID, field string, expected, value any) (bool, error) {
	var conditions map[string]any
	if expected != nil {
		conditions = map[string]any{field: expected}
	}
	return r.UpdateFieldWhere(ctx, id, conditions, field, value)
}

// UpdateFieldWhere sets one field when every condition matches the stored
// document exactly.
func (r *ProjectRepo) UpdateFieldWhere(ctx context.Context, id primitive.ObjectID, conditions map[string]any, field string, value any) (bool, error) {
	filter := bson.M{"_id": id}
	for k, v := range conditions {
		filter[k] = v
	}
	update := bson.M{"$set": bson.M{field: value, "updatedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, translateWriteError("failed to update project", err)
	}
	return result.ModifiedCount > 0, nil
}

func (r *ProjectRepo) IncrementField(ctx context.Context, id primitive.ObjectID, field string, delta int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}})
	return translateWriteError("failed to update project counter", err)
}
