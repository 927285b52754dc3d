package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertComment(ctx context.Context, c *models.Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	res, err := db.Comments().InsertOne(ctx, c, options.InsertOne())
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (db *DB) CommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var c models.Comment
	found, err := findOne(ctx, db.Comments(), bson.M{"_id": id}, &c)
	if !found {
		return nil, err
	}
	return &c, nil
}

func (db *DB) CommentWithAuthorByID(ctx context.Context, id primitive.ObjectID) (*models.CommentWithAuthor, error) {
	var c models.CommentWithAuthor
	found, err := aggregateOne(ctx, db.Comments(), query.Lookup(bson.M{"_id": id}, commentAuthor), &c)
	if !found {
		return nil, err
	}
	return &c, nil
}

// ListComments pages through comments matching base plus the request
// filter, with the author expanded.
func (db *DB) ListComments(ctx context.Context, p query.Params, base bson.M) (*query.Result[models.CommentWithAuthor], error) {
	return query.Run[models.CommentWithAuthor](ctx, db.Comments(), p, base, commentAuthor)
}

func (db *DB) UpdateComment(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Comment, error) {
	var c models.Comment
	found, err := updateByID(ctx, db.Comments(), id, set, &c)
	if !found {
		return nil, err
	}
	return &c, nil
}

func (db *DB) DeleteComment(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := db.Comments().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
