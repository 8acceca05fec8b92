package repositories

import (
	"context"

	"taskboard/microservices/projects-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TaskRepo struct {
	collection *mongo.Collection
}

func NewTaskRepo(collection *mongo.Collection) *TaskRepo {
	return &TaskRepo{collection: collection}
}

func (r *TaskRepo) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, translateReadError("failed to count tasks", "task", err)
	}
	return n, nil
}

func (r *TaskRepo) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, translateReadError("failed to retrieve tasks", "task", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, translateReadError("failed to decode tasks", "task", err)
	}
	return tasks, nil
}
