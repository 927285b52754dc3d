package handlers

import (
	"context"
	"time"

	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/query"
	"github.com/kevinaaaquil/devblog/backend/service"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mockStore implements every store interface the handlers use.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockStore) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *mockStore) UpdateUser(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	args := m.Called(ctx, id, set)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockStore) ListUsers(ctx context.Context, p query.Params) (*query.Result[models.UserWithBlogs], error) {
	args := m.Called(ctx, p)
	res, _ := args.Get(0).(*query.Result[models.UserWithBlogs])
	return res, args.Error(1)
}

func (m *mockStore) UserWithBlogsByID(ctx context.Context, id primitive.ObjectID) (*models.UserWithBlogs, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.UserWithBlogs)
	return u, args.Error(1)
}

func (m *mockStore) SetResetToken(ctx context.Context, id primitive.ObjectID, hashed string, expires time.Time) error {
	return m.Called(ctx, id, hashed, expires).Error(0)
}

func (m *mockStore) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) UserByResetToken(ctx context.Context, hashed string, now time.Time) (*models.User, error) {
	args := m.Called(ctx, hashed, now)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockStore) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockStore) InsertEmailLog(ctx context.Context, log *models.EmailLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *mockStore) InsertBlog(ctx context.Context, blog *models.Blog) error {
	args := m.Called(ctx, blog)
	blog.ID = primitive.NewObjectID()
	return args.Error(0)
}

func (m *mockStore) BlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Blog)
	return b, args.Error(1)
}

func (m *mockStore) BlogWithTopicsByID(ctx context.Context, id primitive.ObjectID) (*models.BlogWithTopics, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.BlogWithTopics)
	return b, args.Error(1)
}

func (m *mockStore) ListBlogs(ctx context.Context, p query.Params, base bson.M) (*query.Result[models.BlogWithTopics], error) {
	args := m.Called(ctx, p, base)
	res, _ := args.Get(0).(*query.Result[models.BlogWithTopics])
	return res, args.Error(1)
}

func (m *mockStore) UpdateBlog(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Blog, error) {
	args := m.Called(ctx, id, set)
	b, _ := args.Get(0).(*models.Blog)
	return b, args.Error(1)
}

func (m *mockStore) DeleteBlog(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) SearchBlogs(ctx context.Context, keyword, tag string) ([]models.Blog, error) {
	args := m.Called(ctx, keyword, tag)
	b, _ := args.Get(0).([]models.Blog)
	return b, args.Error(1)
}

func (m *mockStore) CountTopics(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) InsertTopic(ctx context.Context, topic *models.Topic) error {
	args := m.Called(ctx, topic)
	topic.ID = primitive.NewObjectID()
	return args.Error(0)
}

func (m *mockStore) TopicByID(ctx context.Context, id primitive.ObjectID) (*models.Topic, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Topic)
	return t, args.Error(1)
}

func (m *mockStore) TopicWithBlogsByID(ctx context.Context, id primitive.ObjectID) (*models.TopicWithBlogs, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.TopicWithBlogs)
	return t, args.Error(1)
}

func (m *mockStore) ListTopics(ctx context.Context, p query.Params) (*query.Result[models.TopicWithBlogs], error) {
	args := m.Called(ctx, p)
	res, _ := args.Get(0).(*query.Result[models.TopicWithBlogs])
	return res, args.Error(1)
}

func (m *mockStore) UpdateTopic(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Topic, error) {
	args := m.Called(ctx, id, set)
	t, _ := args.Get(0).(*models.Topic)
	return t, args.Error(1)
}

func (m *mockStore) DeleteTopic(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) InsertComment(ctx context.Context, c *models.Comment) error {
	args := m.Called(ctx, c)
	c.ID = primitive.NewObjectID()
	return args.Error(0)
}

func (m *mockStore) CommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Comment)
	return c, args.Error(1)
}

func (m *mockStore) CommentWithAuthorByID(ctx context.Context, id primitive.ObjectID) (*models.CommentWithAuthor, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.CommentWithAuthor)
	return c, args.Error(1)
}

func (m *mockStore) ListComments(ctx context.Context, p query.Params, base bson.M) (*query.Result[models.CommentWithAuthor], error) {
	args := m.Called(ctx, p, base)
	res, _ := args.Get(0).(*query.Result[models.CommentWithAuthor])
	return res, args.Error(1)
}

func (m *mockStore) UpdateComment(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Comment, error) {
	args := m.Called(ctx, id, set)
	c, _ := args.Get(0).(*models.Comment)
	return c, args.Error(1)
}

func (m *mockStore) DeleteComment(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg service.Message) error {
	return m.Called(ctx, msg).Error(0)
}
