package handlers

import (
	"context"
	"time"

	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/query"
	"github.com/kevinaaaquil/devblog/backend/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lookups return (nil, nil) when no document has the id.

type UserStore interface {
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	ListUsers(ctx context.Context, p query.Params) (*query.Result[models.UserWithBlogs], error)
	UserWithBlogsByID(ctx context.Context, id primitive.ObjectID) (*models.UserWithBlogs, error)
}

type AuthStore interface {
	UserStore
	SetResetToken(ctx context.Context, id primitive.ObjectID, hashed string, expires time.Time) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	UserByResetToken(ctx context.Context, hashed string, now time.Time) (*models.User, error)
	ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	InsertEmailLog(ctx context.Context, log *models.EmailLog) error
}

type BlogStore interface {
	InsertBlog(ctx context.Context, blog *models.Blog) error
	BlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	BlogWithTopicsByID(ctx context.Context, id primitive.ObjectID) (*models.BlogWithTopics, error)
	ListBlogs(ctx context.Context, p query.Params, base bson.M) (*query.Result[models.BlogWithTopics], error)
	UpdateBlog(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Blog, error)
	DeleteBlog(ctx context.Context, id primitive.ObjectID) (bool, error)
	SearchBlogs(ctx context.Context, keyword, tag string) ([]models.Blog, error)
	CountTopics(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

type TopicStore interface {
	InsertTopic(ctx context.Context, topic *models.Topic) error
	TopicByID(ctx context.Context, id primitive.ObjectID) (*models.Topic, error)
	TopicWithBlogsByID(ctx context.Context, id primitive.ObjectID) (*models.TopicWithBlogs, error)
	ListTopics(ctx context.Context, p query.Params) (*query.Result[models.TopicWithBlogs], error)
	UpdateTopic(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Topic, error)
	DeleteTopic(ctx context.Context, id primitive.ObjectID) (bool, error)
	ListBlogs(ctx context.Context, p query.Params, base bson.M) (*query.Result[models.BlogWithTopics], error)
}

type CommentStore interface {
	InsertComment(ctx context.Context, c *models.Comment) error
	CommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	CommentWithAuthorByID(ctx context.Context, id primitive.ObjectID) (*models.CommentWithAuthor, error)
	ListComments(ctx context.Context, p query.Params, base bson.M) (*query.Result[models.CommentWithAuthor], error)
	UpdateComment(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) (bool, error)
	BlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
}

type TokenIssuer interface {
	Issue(userID primitive.ObjectID) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, msg service.Message) error
}
