package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the part of *mongo.Collection that Run needs.
type Collection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// Pagination holds the adjacent page numbers. Zero means there is no such
// page and is omitted from JSON.
type Pagination struct {
	Prev int `json:"prev,omitempty"`
	Next int `json:"next,omitempty"`
}

type Result[T any] struct {
	Items      []T
	Pagination Pagination
	Total      int64
}

// Paginate works out the neighbours of page given the number of matching
// documents.
func Paginate(page, limit int, total int64) Pagination {
	var pg Pagination
	if total-int64(limit)*int64(page) > 0 {
		pg.Next = page + 1
	}
	if page > 1 {
		pg.Prev = page - 1
	}
	return pg
}

// Run counts the documents matching the filter, executes the pipeline and
// decodes the page into []T. Driver errors are returned as is.
func Run[T any](ctx context.Context, coll Collection, p Params, base bson.M, pops ...Populate) (*Result[T], error) {
	match := p.Match(base)
	total, err := coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Aggregate(ctx, p.Pipeline(base, pops...))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return &Result[T]{
		Items:      items,
		Pagination: Paginate(p.Page, p.Limit, total),
		Total:      total,
	}, nil
}
