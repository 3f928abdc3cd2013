package db

import (
	"context"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectToDB() (*mongo.Database, context.CancelFunc, error) {
	mongoURI := os.Getenv("MONGODB_URI")

	uri, err := url.Parse(mongoURI)
	if err != nil {
		log.Fatalf("Error parsing MongoDB URI: %v", err)
		return nil, nil, err
	}

	dbName := strings.TrimPrefix(uri.Path, "/")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Error connecting to MongoDB: %v", err)
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Error pinging MongoDB: %v", err)
		return nil, nil, err
	}

	db := client.Database(dbName)

	return db, cancel, nil
}

// CreateFeedIndexForCollection backs the newest-first feed query with a
// compound index on createdAt (desc) and _id (desc, tie-break).
func CreateFeedIndexForCollection(db *mongo.Database, collectionName string) {
	collection := db.Collection(collectionName)

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		},
	}

	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		log.Fatal(err)
	}
}

// CreateOwnerIndexForCollection serves the per-owner listing.
func CreateOwnerIndexForCollection(db *mongo.Database, collectionName string) {
	collection := db.Collection(collectionName)

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}

	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		log.Fatal(err)
	}
}
