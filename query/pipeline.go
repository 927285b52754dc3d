package query

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Populate expands a reference into the referenced documents with a $lookup.
// Path is the output field, LocalField/ForeignField the join keys. With One
// set the joined array is unwound to a single document (or dropped when
// nothing matched).
type Populate struct {
	Path         string
	From         string
	LocalField   string
	ForeignField string
	Select       []string
	One          bool
}

func (pp Populate) stages() []bson.D {
	lookup := bson.D{
		{Key: "from", Value: pp.From},
		{Key: "localField", Value: pp.LocalField},
		{Key: "foreignField", Value: pp.ForeignField},
	}
	if len(pp.Select) > 0 {
		proj := make(bson.D, 0, len(pp.Select))
		for _, f := range pp.Select {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
		lookup = append(lookup, bson.E{Key: "pipeline", Value: bson.A{bson.D{{Key: "$project", Value: proj}}}})
	}
	lookup = append(lookup, bson.E{Key: "as", Value: pp.Path})

	stages := []bson.D{{{Key: "$lookup", Value: lookup}}}
	if pp.One {
		stages = append(stages, bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + pp.Path},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}})
	}
	return stages
}

// Match returns the filter merged with base. Keys in base win so that a
// route-level scope cannot be widened from the query string.
func (p Params) Match(base bson.M) bson.M {
	out := make(bson.M, len(p.Filter)+len(base))
	for k, v := range p.Filter {
		out[k] = v
	}
	for k, v := range base {
		out[k] = v
	}
	return out
}

// Pipeline renders the aggregation: $match, $sort, $skip, $limit, one
// $lookup per populate and finally the projection.
func (p Params) Pipeline(base bson.M, pops ...Populate) mongo.Pipeline {
	pl := mongo.Pipeline{
		{{Key: "$match", Value: p.Match(base)}},
		{{Key: "$sort", Value: p.Sort}},
	}
	if skip := p.Skip(); skip > 0 {
		pl = append(pl, bson.D{{Key: "$skip", Value: skip}})
	}
	pl = append(pl, bson.D{{Key: "$limit", Value: int64(p.Limit)}})
	for _, pp := range pops {
		pl = append(pl, pp.stages()...)
	}
	if len(p.Projection) > 0 {
		pl = append(pl, bson.D{{Key: "$project", Value: p.Projection}})
	}
	return pl
}

// Lookup is the pipeline for fetching documents by filter with the given
// populates applied, without paging. Used for single-document reads.
func Lookup(filter bson.M, pops ...Populate) mongo.Pipeline {
	pl := mongo.Pipeline{{{Key: "$match", Value: filter}}}
	for _, pp := range pops {
		pl = append(pl, pp.stages()...)
	}
	return pl
}
