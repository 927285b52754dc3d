package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentContent struct {
	Header    string    `bson:"header" json:"header"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Comment belongs to one blog. Blog and From never change after creation.
type Comment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CommentContent `bson:",inline"`
	Blog           primitive.ObjectID `bson:"blog" json:"blog"`
	From           primitive.ObjectID `bson:"from" json:"from"`
}

// CommentWithAuthor is a comment whose author was expanded.
type CommentWithAuthor struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CommentContent `bson:",inline"`
	Blog           primitive.ObjectID `bson:"blog" json:"blog"`
	From           *UserRef           `bson:"from,omitempty" json:"from"`
}
