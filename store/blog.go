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

// InsertBlog fills in defaults, derives the reading time and inserts the blog.
func (db *DB) InsertBlog(ctx context.Context, blog *models.Blog) error {
	if blog.Cover == "" {
		blog.Cover = models.DefaultBlogCover
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	if blog.Topics == nil {
		blog.Topics = []primitive.ObjectID{}
	}
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = time.Now()
	}
	blog.ReadingTime = models.ReadingTime(blog.Content)
	res, err := db.Blogs().InsertOne(ctx, blog, options.InsertOne())
	if err != nil {
		return err
	}
	blog.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (db *DB) BlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var b models.Blog
	found, err := findOne(ctx, db.Blogs(), bson.M{"_id": id}, &b)
	if !found {
		return nil, err
	}
	return &b, nil
}

func (db *DB) BlogWithTopicsByID(ctx context.Context, id primitive.ObjectID) (*models.BlogWithTopics, error) {
	var b models.BlogWithTopics
	found, err := aggregateOne(ctx, db.Blogs(), query.Lookup(bson.M{"_id": id}, blogTopics), &b)
	if !found {
		return nil, err
	}
	return &b, nil
}

// ListBlogs pages through blogs matching base plus the request filter, with
// topic names expanded.
func (db *DB) ListBlogs(ctx context.Context, p query.Params, base bson.M) (*query.Result[models.BlogWithTopics], error) {
	return query.Run[models.BlogWithTopics](ctx, db.Blogs(), p, base, blogTopics)
}

// UpdateBlog applies set. When the content changes the reading time is
// recomputed in the same update.
func (db *DB) UpdateBlog(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Blog, error) {
	if content, ok := set["content"].(string); ok {
		set["readingTime"] = models.ReadingTime(content)
	}
	var b models.Blog
	found, err := updateByID(ctx, db.Blogs(), id, set, &b)
	if !found {
		return nil, err
	}
	return &b, nil
}

// DeleteBlog removes the blog and its comments. It reports false if the blog
// did not exist.
func (db *DB) DeleteBlog(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := db.Blogs().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if res.DeletedCount == 0 {
		return false, nil
	}
	if _, err := db.Comments().DeleteMany(ctx, bson.M{"blog": id}); err != nil {
		return true, fmt.Errorf("delete comments of blog %s: %w", id.Hex(), err)
	}
	return true, nil
}

// SearchBlogs matches blogs carrying tag exactly, or else runs a full text
// search for keyword over title and content.
func (db *DB) SearchBlogs(ctx context.Context, keyword, tag string) ([]models.Blog, error) {
	var filter bson.M
	opts := options.Find()
	switch {
	case tag != "":
		filter = bson.M{"tags": tag}
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	case keyword != "":
		filter = bson.M{"$text": bson.M{"$search": keyword}}
		opts.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
		opts.SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}})
	default:
		return []models.Blog{}, nil
	}
	opts.SetLimit(query.DefaultLimit * 4)
	cur, err := db.Blogs().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	blogs := []models.Blog{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}
