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

func (db *DB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	found, err := findOne(ctx, db.Users(), bson.M{"email": email}, &u)
	if !found {
		return nil, err
	}
	return &u, nil
}

func (db *DB) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	found, err := findOne(ctx, db.Users(), bson.M{"_id": id}, &u)
	if !found {
		return nil, err
	}
	return &u, nil
}

// CreateUser fills in defaults and inserts the user. user.ID is set on success.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Photo == "" {
		user.Photo = models.DefaultUserPhoto
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	res, err := db.Users().InsertOne(ctx, user, options.InsertOne())
	if err != nil {
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateUser applies set and returns the updated user, or nil if no user has
// the id.
func (db *DB) UpdateUser(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	var u models.User
	found, err := updateByID(ctx, db.Users(), id, set, &u)
	if !found {
		return nil, err
	}
	return &u, nil
}

func (db *DB) SetResetToken(ctx context.Context, id primitive.ObjectID, hashed string, expires time.Time) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"resetPasswordToken":  hashed,
		"resetPasswordExpire": expires,
	}})
	return err
}

func (db *DB) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$unset": bson.M{
		"resetPasswordToken":  "",
		"resetPasswordExpire": "",
	}})
	return err
}

// UserByResetToken finds the user holding the hashed token if it has not
// expired at now.
func (db *DB) UserByResetToken(ctx context.Context, hashed string, now time.Time) (*models.User, error) {
	var u models.User
	found, err := findOne(ctx, db.Users(), bson.M{
		"resetPasswordToken":  hashed,
		"resetPasswordExpire": bson.M{"$gt": now},
	}, &u)
	if !found {
		return nil, err
	}
	return &u, nil
}

// ResetPassword stores a new password hash and consumes the reset token.
func (db *DB) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
	return err
}

// ListUsers pages through users with the titles of their blogs.
func (db *DB) ListUsers(ctx context.Context, p query.Params) (*query.Result[models.UserWithBlogs], error) {
	return query.Run[models.UserWithBlogs](ctx, db.Users(), p, nil, userBlogs)
}

func (db *DB) UserWithBlogsByID(ctx context.Context, id primitive.ObjectID) (*models.UserWithBlogs, error) {
	var u models.UserWithBlogs
	found, err := aggregateOne(ctx, db.Users(), query.Lookup(bson.M{"_id": id}, userBlogs), &u)
	if !found {
		return nil, err
	}
	return &u, nil
}
