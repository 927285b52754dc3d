package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memStore struct {
	users  []*models.User
	topics []*models.Topic
	blogs  []*models.Blog
}

func (m *memStore) CreateUser(_ context.Context, u *models.User) error {
	m.users = append(m.users, u)
	return nil
}

func (m *memStore) InsertTopic(_ context.Context, t *models.Topic) error {
	m.topics = append(m.topics, t)
	return nil
}

func (m *memStore) InsertBlog(_ context.Context, b *models.Blog) error {
	m.blogs = append(m.blogs, b)
	return nil
}

func TestImportFixtures(t *testing.T) {
	db := &memStore{}
	require.NoError(t, importData(context.Background(), db, filepath.Join("..", "..", "_data")))

	require.NotEmpty(t, db.users)
	require.NotEmpty(t, db.topics)
	require.NotEmpty(t, db.blogs)

	userIDs := map[primitive.ObjectID]bool{}
	admins := 0
	for _, u := range db.users {
		require.False(t, u.ID.IsZero(), u.Email)
		assert.Contains(t, []string{models.RoleUser, models.RoleAdmin}, u.Role, u.Email)
		assert.NotEqual(t, "123456", u.Password, u.Email)
		assert.True(t, utils.CheckPassword(u.Password, "123456"), u.Email)
		if u.Role == models.RoleAdmin {
			admins++
		}
		userIDs[u.ID] = true
	}
	assert.Equal(t, 1, admins)

	topicIDs := map[primitive.ObjectID]bool{}
	for _, tp := range db.topics {
		require.False(t, tp.ID.IsZero(), tp.Name)
		assert.NotEmpty(t, tp.Name)
		topicIDs[tp.ID] = true
	}

	for _, b := range db.blogs {
		require.False(t, b.ID.IsZero(), b.Title)
		assert.NotEmpty(t, b.Content, b.Title)
		assert.True(t, userIDs[b.Author], "blog %q has an unknown author", b.Title)
		assert.LessOrEqual(t, len(b.Tags), 3, b.Title)
		assert.LessOrEqual(t, len(b.Topics), 5, b.Title)
		for _, id := range b.Topics {
			assert.True(t, topicIDs[id], "blog %q references unknown topic %s", b.Title, id.Hex())
		}
	}
}

func TestImportMissingDir(t *testing.T) {
	err := importData(context.Background(), &memStore{}, t.TempDir())
	assert.Error(t, err)
}
