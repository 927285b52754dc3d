package store

import "github.com/kevinaaaquil/devblog/backend/query"

// Field kinds used to cast list filters, per collection.
var (
	UserSchema = query.Schema{
		"_id":                 query.ObjectID,
		"role":                query.String,
		"createdAt":           query.Time,
		"password":            query.Hidden,
		"resetPasswordToken":  query.Hidden,
		"resetPasswordExpire": query.Hidden,
	}
	BlogSchema = query.Schema{
		"_id":         query.ObjectID,
		"likes":       query.Number,
		"readingTime": query.Number,
		"createdAt":   query.Time,
		"author":      query.ObjectID,
		"topics":      query.ObjectID,
	}
	TopicSchema = query.Schema{
		"_id":       query.ObjectID,
		"createdAt": query.Time,
	}
	CommentSchema = query.Schema{
		"_id":       query.ObjectID,
		"createdAt": query.Time,
		"blog":      query.ObjectID,
		"from":      query.ObjectID,
	}
)

// Relation expansions.
var (
	blogTopics = query.Populate{
		Path: "topics", From: "topics", LocalField: "topics", ForeignField: "_id",
		Select: []string{"name"},
	}
	topicBlogs = query.Populate{
		Path: "blogs", From: "blogs", LocalField: "_id", ForeignField: "topics",
		Select: []string{"title"},
	}
	userBlogs = query.Populate{
		Path: "blogs", From: "blogs", LocalField: "_id", ForeignField: "author",
		Select: []string{"title"},
	}
	commentAuthor = query.Populate{
		Path: "from", From: "users", LocalField: "from", ForeignField: "_id",
		Select: []string{"name", "email", "role", "photo", "createdAt"},
		One:    true,
	}
)
