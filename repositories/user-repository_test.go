package repositories

import (
	"context"
	"testing"

	"taskboard/microservices/projects-service/apperrors"
	"taskboard/microservices/projects-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find by id", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "users_db.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "ana"},
			{Key: "baseRole", Value: "GUEST"},
			{Key: "totalProjects", Value: 2},
		}))

		u, err := NewUserRepo(mt.Coll).FindByID(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, models.TierGuest, u.BaseRole)
		assert.Equal(mt, 2, u.TotalProjects)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "users_db.users", mtest.FirstBatch))

		_, err := NewUserRepo(mt.Coll).FindByID(ctx, primitive.NewObjectID())
		assert.Equal(mt, apperrors.KindNotFoundRelated, apperrors.KindOf(err))
	})

	mt.Run("increment below ceiling", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "totalProjects", Value: 12},
		}}))

		total, ok, err := NewUserRepo(mt.Coll).IncrementTotalProjects(ctx, primitive.NewObjectID(), 12)
		require.NoError(mt, err)
		assert.True(mt, ok)
		assert.Equal(mt, 12, total)
	})

	mt.Run("increment at ceiling matches nothing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		total, ok, err := NewUserRepo(mt.Coll).IncrementTotalProjects(ctx, primitive.NewObjectID(), 3)
		require.NoError(mt, err)
		assert.False(mt, ok)
		assert.Zero(mt, total)
	})

	mt.Run("decrement", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "totalProjects", Value: 2},
		}}))

		total, ok, err := NewUserRepo(mt.Coll).DecrementTotalProjects(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.True(mt, ok)
		assert.Equal(mt, 2, total)
	})

	mt.Run("decrement at zero is a no-op", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		total, ok, err := NewUserRepo(mt.Coll).DecrementTotalProjects(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.False(mt, ok)
		assert.Zero(mt, total)
	})

	mt.Run("summaries", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "users_db.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "ana"},
			{Key: "name", Value: "Ana"},
		}))

		users, err := NewUserRepo(mt.Coll).FindSummaries(ctx, []primitive.ObjectID{id})
		require.NoError(mt, err)
		require.Len(mt, users, 1)
		assert.Equal(mt, "ana", users[0].Username)
	})
}
