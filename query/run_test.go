package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	total    int64
	docs     []interface{}
	countErr error

	countFilter interface{}
	pipeline    interface{}
}

func (f *fakeCollection) CountDocuments(_ context.Context, filter interface{}, _ ...*options.CountOptions) (int64, error) {
	f.countFilter = filter
	return f.total, f.countErr
}

func (f *fakeCollection) Aggregate(_ context.Context, pipeline interface{}, _ ...*options.AggregateOptions) (*mongo.Cursor, error) {
	f.pipeline = pipeline
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

type title struct {
	Title string `bson:"title"`
}

func TestPaginate(t *testing.T) {
	// 30 documents, 10 per page
	assert.Equal(t, Pagination{Next: 2}, Paginate(1, 10, 30))
	assert.Equal(t, Pagination{Prev: 1, Next: 3}, Paginate(2, 10, 30))
	assert.Equal(t, Pagination{Prev: 2}, Paginate(3, 10, 30))
	assert.Equal(t, Pagination{Prev: 3}, Paginate(4, 10, 30))
	assert.Equal(t, Pagination{}, Paginate(1, 25, 0))
}

func TestRunDecodesAndPaginates(t *testing.T) {
	coll := &fakeCollection{
		total: 30,
		docs:  []interface{}{bson.D{{Key: "title", Value: "a"}}, bson.D{{Key: "title", Value: "b"}}},
	}
	p := Params{Filter: bson.M{"category": "back-end"}, Sort: bson.D{{Key: "createdAt", Value: -1}}, Page: 3, Limit: 10}

	res, err := Run[title](context.Background(), coll, p, bson.M{"topics": "t1"})
	require.NoError(t, err)

	assert.Equal(t, []title{{"a"}, {"b"}}, res.Items)
	assert.Equal(t, Pagination{Prev: 2}, res.Pagination)
	assert.Equal(t, int64(30), res.Total)
	// the count is taken over the filtered set, scope included
	assert.Equal(t, bson.M{"category": "back-end", "topics": "t1"}, coll.countFilter)
}

func TestRunEmptyResultIsEmptySlice(t *testing.T) {
	coll := &fakeCollection{}
	res, err := Run[title](context.Background(), coll, Parse(nil, nil), nil)
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Equal(t, Pagination{}, res.Pagination)
}

func TestRunPropagatesCountError(t *testing.T) {
	boom := errors.New("server selection timeout")
	_, err := Run[title](context.Background(), &fakeCollection{countErr: boom}, Parse(nil, nil), nil)
	assert.Same(t, boom, err)
}

func TestPipelineStages(t *testing.T) {
	p := Params{
		Filter:     bson.M{"likes": bson.M{"$gte": int64(5)}},
		Projection: bson.D{{Key: "title", Value: 1}, {Key: "topics", Value: 1}},
		Sort:       bson.D{{Key: "likes", Value: -1}},
		Page:       2,
		Limit:      10,
	}
	pl := p.Pipeline(bson.M{"likes": int64(1)}, Populate{
		Path: "topics", From: "topics", LocalField: "topics", ForeignField: "_id", Select: []string{"name"},
	})

	want := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"likes": int64(1)}}},
		{{Key: "$sort", Value: bson.D{{Key: "likes", Value: -1}}}},
		{{Key: "$skip", Value: int64(10)}},
		{{Key: "$limit", Value: int64(10)}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "topics"},
			{Key: "localField", Value: "topics"},
			{Key: "foreignField", Value: "_id"},
			{Key: "pipeline", Value: bson.A{bson.D{{Key: "$project", Value: bson.D{{Key: "name", Value: 1}}}}}},
			{Key: "as", Value: "topics"},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "title", Value: 1}, {Key: "topics", Value: 1}}}},
	}
	assert.Equal(t, want, pl)
}

func TestPipelineFirstPageHasNoSkipAndUnwindsSingleRefs(t *testing.T) {
	p := Parse(nil, nil)
	pl := p.Pipeline(nil, Populate{Path: "from", From: "users", LocalField: "from", ForeignField: "_id", One: true})

	require.Len(t, pl, 5)
	assert.Equal(t, "$match", pl[0][0].Key)
	assert.Equal(t, "$sort", pl[1][0].Key)
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(DefaultLimit)}}, pl[2])
	assert.Equal(t, "$lookup", pl[3][0].Key)
	assert.Equal(t, bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$from"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}, pl[4])
}

func TestLookupHasNoPaging(t *testing.T) {
	pl := Lookup(bson.M{"_id": 1}, Populate{Path: "blogs", From: "blogs", LocalField: "_id", ForeignField: "author", Select: []string{"title"}})

	require.Len(t, pl, 2)
	assert.Equal(t, bson.D{{Key: "$match", Value: bson.M{"_id": 1}}}, pl[0])
	assert.Equal(t, "$lookup", pl[1][0].Key)
}
