package models

import (
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var Categories = []string{"front-end", "back-end", "full-stack"}

const (
	DefaultBlogCover = "no-photo.jpg"
	MaxBlogTags      = 3
	MaxBlogTopics    = 5
	wordsPerMinute   = 200
)

// BlogContent holds the fields shared by the stored blog and its expanded forms.
type BlogContent struct {
	Title       string    `bson:"title" json:"title,omitempty"`
	Content     string    `bson:"content" json:"content,omitempty"`
	Category    string    `bson:"category" json:"category,omitempty"`
	Tags        []string  `bson:"tags" json:"tags"`
	Cover       string    `bson:"cover" json:"cover,omitempty"`
	Likes       int       `bson:"likes" json:"likes"`
	ReadingTime int       `bson:"readingTime" json:"readingTime"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BlogContent `bson:",inline"`
	Author      primitive.ObjectID   `bson:"author" json:"author"` // set once from the authenticated user
	Topics      []primitive.ObjectID `bson:"topics" json:"topics"`
}

// BlogWithTopics is a blog whose topic references were expanded.
type BlogWithTopics struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BlogContent `bson:",inline"`
	Author      primitive.ObjectID `bson:"author,omitempty" json:"author,omitempty"`
	Topics      []TopicRef         `bson:"topics" json:"topics"`
}

// BlogRef is what a topic or user listing shows for each related blog.
type BlogRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
}

var htmlTag = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)

// ReadingTime is the whole number of minutes needed to read content at 200
// words per minute, ignoring HTML tags.
func ReadingTime(content string) int {
	words := len(strings.Fields(htmlTag.ReplaceAllString(content, " ")))
	return int(math.Round(float64(words) / wordsPerMinute))
}
