package mongo

import (
	"context"

	"alcyxob/fitcoach/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoTransactor struct {
	client  *mongo.Client
	enabled bool
}

// NewMongoTransactor returns a Transactor backed by client sessions. Multi-document
// transactions need a replica set; with enabled=false fn runs without one and
// callers rely on their compensating deletes instead.
func NewMongoTransactor(client *mongo.Client, enabled bool) repository.Transactor {
	return &mongoTransactor{client: client, enabled: enabled}
}

func (t *mongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
