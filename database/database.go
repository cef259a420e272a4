// database/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"quoteportal/config"
)

var Client *mongo.Client

func Connect() error {
	// Priority 1: Environment variable (recommended & secure)
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		// Fallback to config only if env var is not set
		mongoURI = config.MongoURI
		if mongoURI == "" {
			return fmt.Errorf("MONGODB_URI environment variable is required (or set config.MongoURI)")
		}
	}

	clientOptions := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(20 * time.Second).
		SetServerSelectionTimeout(15 * time.Second).
		SetSocketTimeout(20 * time.Second).
		SetMaxPoolSize(50)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	// Verify actual connection with ping
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()

	if err = Client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = Client.Disconnect(context.Background()) // cleanup on failure
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("Successfully connected to MongoDB")
	return nil
}

// EnsureIndexes creates the unique indexes the portal's invariants depend on.
// The (rfqId, sequence) index on approvals is load-bearing: it is the only
// thing that arbitrates concurrent approval inserts. Not an optimization.
func EnsureIndexes(ctx context.Context) error {
	db := Client.Database(config.DatabaseName)

	_, err := db.Collection("approvals").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "rfqId", Value: 1}, {Key: "sequence", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_rfq_sequence"),
	})
	if err != nil {
		return fmt.Errorf("failed to create approvals index: %w", err)
	}

	// One quote per supplier per RFQ; resubmissions update in place.
	_, err = db.Collection("quotes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "rfqId", Value: 1}, {Key: "supplierKey", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_rfq_supplier"),
	})
	if err != nil {
		return fmt.Errorf("failed to create quotes index: %w", err)
	}

	_, err = db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	log.Println("MongoDB indexes ensured")
	return nil
}

func Disconnect() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect warning: %v", err)
	}
}
