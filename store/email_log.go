package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/devblog/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertEmailLog records a sent mail and sets its ID.
func (db *DB) InsertEmailLog(ctx context.Context, entry *models.EmailLog) error {
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}
	res, err := db.EmailLogs().InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	entry.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// EmailLogsForUser lists what was mailed to a user for one purpose, newest
// first.
func (db *DB) EmailLogsForUser(ctx context.Context, userID primitive.ObjectID, purpose string) ([]models.EmailLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}})
	cur, err := db.EmailLogs().Find(ctx, bson.M{"userId": userID, "purpose": purpose}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	logs := make([]models.EmailLog, 0)
	if err := cur.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
