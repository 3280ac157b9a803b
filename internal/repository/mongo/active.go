package mongo

import (
	"context"
	"time"

	"alcyxob/fitcoach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// activateExclusive flips the client's current active document off before
// switching id on. The partial unique index on active documents rejects the
// second step if another writer activated something in between.
func activateExclusive(ctx context.Context, coll *mongo.Collection, clientID, id primitive.ObjectID) error {
	now := time.Now().UTC()
	deactivate := bson.M{
		"clientId": clientID,
		"isActive": true,
		"_id":      bson.M{"$ne": id},
	}
	if _, err := coll.UpdateMany(ctx, deactivate, bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}}); err != nil {
		return err
	}

	result, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "clientId": clientID},
		bson.M{"$set": bson.M{"isActive": true, "updatedAt": now}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// singleActiveIndex allows any number of inactive documents per client but only one active.
func singleActiveIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "clientId", Value: 1}},
		Options: options.Index().
			SetName("one_active_per_client").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isActive": true}),
	}
}
