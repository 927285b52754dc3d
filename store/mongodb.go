package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	log.Println("Connected to MongoDB")
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (db *DB) Users() *mongo.Collection {
	return db.Database.Collection("users")
}

func (db *DB) Blogs() *mongo.Collection {
	return db.Database.Collection("blogs")
}

func (db *DB) Topics() *mongo.Collection {
	return db.Database.Collection("topics")
}

func (db *DB) Comments() *mongo.Collection {
	return db.Database.Collection("comments")
}

func (db *DB) EmailLogs() *mongo.Collection {
	return db.Database.Collection("email_logs")
}

// EnsureIndexes creates the unique and lookup indexes the handlers rely on.
// It is safe to call on every start.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{db.Users(), mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{db.Users(), mongo.IndexModel{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)}},
		{db.Topics(), mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{db.Blogs(), mongo.IndexModel{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "content", Value: "text"}}}},
		{db.Blogs(), mongo.IndexModel{Keys: bson.D{{Key: "author", Value: 1}}}},
		{db.Blogs(), mongo.IndexModel{Keys: bson.D{{Key: "topics", Value: 1}}}},
		{db.Comments(), mongo.IndexModel{Keys: bson.D{{Key: "blog", Value: 1}}}},
	}
	for _, s := range specs {
		if _, err := s.coll.Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("create index on %s: %w", s.coll.Name(), err)
		}
	}
	return nil
}

// DeleteAll empties every collection. Used by the seeder.
func (db *DB) DeleteAll(ctx context.Context) error {
	for _, c := range []*mongo.Collection{db.Comments(), db.Blogs(), db.Topics(), db.Users(), db.EmailLogs()} {
		if _, err := c.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", c.Name(), err)
		}
	}
	return nil
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}

// findOne decodes the single document matching filter into out. A missing
// document is reported as found == false with a nil error.
func findOne(ctx context.Context, coll *mongo.Collection, filter any, out any) (bool, error) {
	err := coll.FindOne(ctx, filter).Decode(out)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// aggregateOne runs pipeline and decodes the first result into out.
func aggregateOne(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out any) (bool, error) {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return false, err
	}
	defer cur.Close(ctx)
	if !cur.Next(ctx) {
		return false, cur.Err()
	}
	if err := cur.Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// updateByID applies $set to the document and decodes the updated version
// into out.
func updateByID(ctx context.Context, coll *mongo.Collection, id any, set bson.M, out any) (bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(out)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
