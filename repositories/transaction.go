package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTransactor runs a unit of work inside a multi-document transaction.
// The context handed to fn carries the session, so store calls made with it
// join the transaction.
type MongoTransactor struct {
	client *mongo.Client
}

func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	return &MongoTransactor{client: client}
}

// Atomic reports that a failed unit of work is rolled back by the server.
func (t *MongoTransactor) Atomic() bool { return true }

func (t *MongoTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// NoTransactor runs fn directly. Used when the deployment cannot host
// transactions; the caller's compensation path is then the only rollback.
type NoTransactor struct{}

func (NoTransactor) Atomic() bool { return false }

func (NoTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
