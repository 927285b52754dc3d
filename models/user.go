package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants for user authorization.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ValidRoles = []string{RoleUser, RoleAdmin}

const DefaultUserPhoto = "no-user-photo.jpg"

type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Role                string             `bson:"role" json:"role"`
	Password            string             `bson:"password" json:"-"` // bcrypt hash
	Photo               string             `bson:"photo" json:"photo"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty" json:"-"` // sha256 of the emailed token
	ResetPasswordExpire *time.Time         `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserWithBlogs is a user with the titles of the blogs they authored.
type UserWithBlogs struct {
	User  `bson:",inline"`
	Blogs []BlogRef `bson:"blogs" json:"blogs"`
}

// UserRef is the public part of a user, used when a comment's author is expanded.
type UserRef struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Role      string             `bson:"role" json:"role"`
	Photo     string             `bson:"photo" json:"photo"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
