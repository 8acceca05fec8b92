package repositories

import (
	"context"
	"errors"
	"fmt"

	"taskboard/microservices/projects-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const codeNamespaceExists = 48

// projectValidator is the $jsonSchema enforced by the server on every
// project write.
func projectValidator() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "projectType", "projectTypeBehavior", "isEnabled", "ownerId"},
			"properties": bson.M{
				"title":               bson.M{"bsonType": "string", "minLength": 1},
				"description":         bson.M{"bsonType": "string"},
				"projectType":         bson.M{"enum": bson.A{string(models.ProjectTypeRoot), string(models.ProjectTypeSubProject)}},
				"projectTypeBehavior": bson.M{"enum": bson.A{string(models.BehaviorLeafy), string(models.BehaviorNormal)}},
				"rootParentId":        bson.M{"bsonType": "objectId"},
				"subParentId":         bson.M{"bsonType": "objectId"},
				"dependsOn":           bson.M{"bsonType": "objectId"},
				"progressStage":       bson.M{"bsonType": "string"},
				"stages":              bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "string"}},
				"isEnabled":           bson.M{"bsonType": "bool"},
				"totalSubProjects":    bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"totalProjectTodos":   bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"ownerId":             bson.M{"bsonType": "objectId"},
			},
		},
	}
}

// EnsureProjectCollection creates the projects collection with its validator
// and the unique title index. Safe to call on every boot.
func EnsureProjectCollection(ctx context.Context, db *mongo.Database, name string) (*mongo.Collection, error) {
	opts := options.CreateCollection().SetValidator(projectValidator())
	if err := db.CreateCollection(ctx, name, opts); err != nil {
		var cmdErr mongo.CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Code != codeNamespaceExists {
			return nil, fmt.Errorf("failed to create %s collection: %w", name, err)
		}
	}

	collection := db.Collection(name)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "rootParentId", Value: 1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create indexes on %s: %w", name, err)
	}
	return collection, nil
}

// EnsureTaskIndexes backs the per-project task count used during creation.
func EnsureTaskIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "projectId", Value: 1}}})
	if err != nil {
		return fmt.Errorf("failed to create projectId index on tasks: %w", err)
	}
	return nil
}
