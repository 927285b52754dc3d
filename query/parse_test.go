package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var blogSchema = Schema{
	"likes":     Number,
	"price":     Number,
	"createdAt": Time,
	"author":    ObjectID,
}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse query %q: %v", raw, err)
	}
	return v
}

func TestParseDefaults(t *testing.T) {
	p := Parse(url.Values{}, blogSchema)

	assert.Empty(t, p.Filter)
	assert.Nil(t, p.Projection)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, p.Sort)
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, int64(0), p.Skip())
}

func TestParseComparisonOperators(t *testing.T) {
	p := Parse(mustQuery(t, "price[gte]=100&price[lt]=500&category=back-end"), blogSchema)

	assert.Equal(t, bson.M{
		"price":    bson.M{"$gte": int64(100), "$lt": int64(500)},
		"category": "back-end",
	}, p.Filter)
}

func TestParseDoesNotRewriteValues(t *testing.T) {
	p := Parse(mustQuery(t, "title=the+gte+and+in+words&tags=lte"), blogSchema)

	assert.Equal(t, bson.M{
		"title": "the gte and in words",
		"tags":  "lte",
	}, p.Filter)
}

func TestParseDoesNotRewriteFieldNames(t *testing.T) {
	p := Parse(mustQuery(t, "integration=yes&gtest[gt]=3"), blogSchema)

	assert.Equal(t, bson.M{
		"integration": "yes",
		"gtest":       bson.M{"$gt": "3"},
	}, p.Filter)
}

func TestParseInOperator(t *testing.T) {
	p := Parse(mustQuery(t, "tags[in]=go,mongo&tags[in]=chi"), blogSchema)
	assert.Equal(t, bson.M{"tags": bson.M{"$in": bson.A{"go", "mongo", "chi"}}}, p.Filter)

	p = Parse(mustQuery(t, "tags=go&tags=chi"), blogSchema)
	assert.Equal(t, bson.M{"tags": bson.M{"$in": bson.A{"go", "chi"}}}, p.Filter)
}

func TestParseDropsInjectionAndUnknownOperators(t *testing.T) {
	p := Parse(mustQuery(t, "$where=sleep(1000)&title[$ne]=x&likes[regex]=.*&author.$id=1&a[b][c]=1"), blogSchema)
	assert.Empty(t, p.Filter)
}

func TestParseExactMatchWinsOverOperator(t *testing.T) {
	p := Parse(mustQuery(t, "likes=3&likes[gt]=1"), blogSchema)
	assert.Equal(t, bson.M{"likes": int64(3)}, p.Filter)
}

func TestParseCastsBySchema(t *testing.T) {
	id := primitive.NewObjectID()
	p := Parse(mustQuery(t, "author="+id.Hex()+"&createdAt[gte]=2024-01-02&likes[gt]=2.5&price=abc"), blogSchema)

	assert.Equal(t, id, p.Filter["author"])
	assert.Equal(t, bson.M{"$gte": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}, p.Filter["createdAt"])
	assert.Equal(t, bson.M{"$gt": 2.5}, p.Filter["likes"])
	// an uncastable value is kept and matches nothing
	assert.Equal(t, "abc", p.Filter["price"])
}

func TestParseSelect(t *testing.T) {
	cases := map[string]bson.D{
		"title,content":        {{Key: "title", Value: 1}, {Key: "content", Value: 1}},
		"-content":             {{Key: "content", Value: 0}},
		"title,-content":       {{Key: "title", Value: 1}},
		"title,,title, $where": {{Key: "title", Value: 1}},
		",,,":                  nil,
	}
	for raw, want := range cases {
		p := Parse(url.Values{"select": {raw}}, nil)
		assert.Equal(t, want, p.Projection, raw)
		assert.Empty(t, p.Filter, raw)
	}
}

func TestParseSort(t *testing.T) {
	p := Parse(url.Values{"sort": {"-likes,title"}}, nil)
	assert.Equal(t, bson.D{{Key: "likes", Value: -1}, {Key: "title", Value: 1}}, p.Sort)

	p = Parse(url.Values{"sort": {"-,$natural"}}, nil)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, p.Sort)
}

func TestParsePageAndLimit(t *testing.T) {
	cases := []struct {
		raw         string
		page, limit int
		skip        int64
	}{
		{"page=3&limit=10", 3, 10, 20},
		{"page=abc&limit=xyz", 1, 25, 0},
		{"page=0&limit=-4", 1, 25, 0},
		{"page=2", 2, 25, 25},
		{"page=2&limit=500", 2, MaxLimit, MaxLimit},
	}
	for _, c := range cases {
		p := Parse(mustQuery(t, c.raw), nil)
		assert.Equal(t, c.page, p.Page, c.raw)
		assert.Equal(t, c.limit, p.Limit, c.raw)
		assert.Equal(t, c.skip, p.Skip(), c.raw)
		assert.Empty(t, p.Filter, c.raw)
	}
}

func TestParseClampsHugePage(t *testing.T) {
	p := Parse(mustQuery(t, "page=4611686018427387904&limit=4"), nil)

	assert.Equal(t, maxPage, p.Page)
	assert.Equal(t, 4, p.Limit)
	assert.Positive(t, p.Skip())
	assert.Equal(t, bson.D{{Key: "$skip", Value: p.Skip()}}, p.Pipeline(nil)[2])
	assert.Equal(t, Pagination{Prev: maxPage - 1}, Paginate(p.Page, p.Limit, 30))
}

func TestParseDropsHiddenFields(t *testing.T) {
	schema := Schema{
		"role":               String,
		"password":           Hidden,
		"resetPasswordToken": Hidden,
	}
	raw := "password[gt]=$2a$10$M&password=x&password.0=x&resetPasswordToken[gte]=a&role=user" +
		"&sort=password,-role&select=password,name"
	p := Parse(mustQuery(t, raw), schema)

	assert.Equal(t, bson.M{"role": "user"}, p.Filter)
	assert.Equal(t, bson.D{{Key: "role", Value: -1}}, p.Sort)
	assert.Equal(t, bson.D{{Key: "name", Value: 1}}, p.Projection)

	p = Parse(mustQuery(t, "sort=resetPasswordToken"), schema)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, p.Sort)
}
