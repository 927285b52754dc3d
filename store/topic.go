package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertTopic(ctx context.Context, topic *models.Topic) error {
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = time.Now()
	}
	res, err := db.Topics().InsertOne(ctx, topic, options.InsertOne())
	if err != nil {
		return err
	}
	topic.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (db *DB) TopicByID(ctx context.Context, id primitive.ObjectID) (*models.Topic, error) {
	var t models.Topic
	found, err := findOne(ctx, db.Topics(), bson.M{"_id": id}, &t)
	if !found {
		return nil, err
	}
	return &t, nil
}

// TopicWithBlogsByID loads the topic with the titles of the blogs that
// reference it.
func (db *DB) TopicWithBlogsByID(ctx context.Context, id primitive.ObjectID) (*models.TopicWithBlogs, error) {
	var t models.TopicWithBlogs
	found, err := aggregateOne(ctx, db.Topics(), query.Lookup(bson.M{"_id": id}, topicBlogs), &t)
	if !found {
		return nil, err
	}
	return &t, nil
}

func (db *DB) ListTopics(ctx context.Context, p query.Params) (*query.Result[models.TopicWithBlogs], error) {
	return query.Run[models.TopicWithBlogs](ctx, db.Topics(), p, nil, topicBlogs)
}

// CountTopics returns how many of ids name existing topics.
func (db *DB) CountTopics(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return db.Topics().CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (db *DB) UpdateTopic(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Topic, error) {
	var t models.Topic
	found, err := updateByID(ctx, db.Topics(), id, set, &t)
	if !found {
		return nil, err
	}
	return &t, nil
}

// DeleteTopic removes the topic and pulls its id from every blog. The blogs
// themselves are kept.
func (db *DB) DeleteTopic(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := db.Topics().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if res.DeletedCount == 0 {
		return false, nil
	}
	_, err = db.Blogs().UpdateMany(ctx, bson.M{"topics": id}, bson.M{"$pull": bson.M{"topics": id}})
	if err != nil {
		return true, fmt.Errorf("detach topic %s from blogs: %w", id.Hex(), err)
	}
	return true, nil
}
