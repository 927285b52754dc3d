package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kevinaaaquil/devblog/backend/middleware"
	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/query"
	"github.com/kevinaaaquil/devblog/backend/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testServer struct {
	db     *mockStore
	mailer *mockMailer
	tokens *service.TokenService
	files  *service.LocalStore
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := &mockStore{}
	mailer := &mockMailer{}
	tokens := service.NewTokenService("test-secret", time.Hour)
	files, err := service.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	uploader := &Uploader{Files: files, MaxBytes: 1000}

	rt := &Routes{
		Auth: &AuthHandler{
			DB:        db,
			Tokens:    tokens,
			Mailer:    mailer,
			CookieTTL: time.Hour,
			ResetTTL:  10 * time.Minute,
			PublicURL: "http://localhost:5000",
		},
		Blogs:    &BlogsHandler{DB: db, Photos: uploader},
		Topics:   &TopicsHandler{DB: db},
		Comments: &CommentsHandler{DB: db},
		Users:    &UsersHandler{DB: db, Photos: uploader},
		Uploads:  uploader,
		Protect:  middleware.Protect(tokens, db),
	}
	r := chi.NewRouter()
	rt.Mount(r)
	return &testServer{db: db, mailer: mailer, tokens: tokens, files: files, router: r}
}

// login makes u resolvable by Protect and returns its Authorization header.
func (s *testServer) login(t *testing.T, u *models.User) string {
	t.Helper()
	s.db.On("UserByID", mock.Anything, u.ID).Return(u, nil)
	tok, err := s.tokens.Issue(u.ID)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *testServer) do(method, target, auth string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type response struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Count      *int            `json:"count"`
	Pagination map[string]int  `json:"pagination"`
	Error      string          `json:"error"`
	Token      string          `json:"token"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var out response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func newUser(role string) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Name: "user", Email: "user@example.com", Role: role}
}

func TestUnknownErrorsBecomeServerError(t *testing.T) {
	s := newTestServer(t)
	s.db.On("UserWithBlogsByID", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	rec := s.do(http.MethodGet, "/api/v1/users/"+primitive.NewObjectID().Hex(), "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Server Error", body.Error)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/blogs/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource with id of nope is not found", decode(t, rec).Error)
}

func TestUsersListIgnoresCredentialFields(t *testing.T) {
	s := newTestServer(t)
	var got query.Params
	s.db.On("ListUsers", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(query.Params) }).
		Return(&query.Result[models.UserWithBlogs]{}, nil)

	rec := s.do(http.MethodGet,
		"/api/v1/users?password[gt]=$2a$10$M&resetPasswordToken[gte]=a&resetPasswordExpire[lt]=2030-01-01&role=user&sort=password&select=password,name",
		"", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, bson.M{"role": "user"}, got.Filter)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, got.Sort)
	assert.Equal(t, bson.D{{Key: "name", Value: 1}}, got.Projection)
}

func TestUsersGetNotFound(t *testing.T) {
	s := newTestServer(t)
	id := primitive.NewObjectID()
	s.db.On("UserWithBlogsByID", mock.Anything, id).Return(nil, nil)

	rec := s.do(http.MethodGet, "/api/v1/users/"+id.Hex(), "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No user with that ID "+id.Hex(), decode(t, rec).Error)
}

func TestUserPhotoUploadOnlyForSelf(t *testing.T) {
	s := newTestServer(t)
	me := newUser(models.RoleUser)
	auth := s.login(t, me)

	rec := s.do(http.MethodPut, "/api/v1/users/"+primitive.NewObjectID().Hex()+"/photoupload", auth, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User with ID "+me.ID.Hex()+" is not authorized to update this user", decode(t, rec).Error)
}
