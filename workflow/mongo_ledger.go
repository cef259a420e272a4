// workflow/mongo_ledger.go
package workflow

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quoteportal/models"
)

// MongoLedger stores approval chains in the approvals collection. The
// uniq_rfq_sequence index created at startup makes Insert atomic with the
// uniqueness check, which is what the gate's race handling relies on.
type MongoLedger struct {
	collection *mongo.Collection
}

func NewMongoLedger(collection *mongo.Collection) *MongoLedger {
	return &MongoLedger{collection: collection}
}

func (l *MongoLedger) MaxSequence(ctx context.Context, rfqID primitive.ObjectID) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "sequence", Value: -1}})

	var top models.Approval
	err := l.collection.FindOne(ctx, bson.M{"rfqId": rfqID}, opts).Decode(&top)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return top.Sequence, nil
}

func (l *MongoLedger) Insert(ctx context.Context, approval *models.Approval) error {
	_, err := l.collection.InsertOne(ctx, approval)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateSequence
	}
	return err
}

func (l *MongoLedger) Entries(ctx context.Context, rfqID primitive.ObjectID) ([]models.Approval, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	cursor, err := l.collection.Find(ctx, bson.M{"rfqId": rfqID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.Approval
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Approval{}
	}
	return entries, nil
}
