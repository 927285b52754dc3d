// Package query turns list-endpoint query strings into MongoDB aggregation
// pipelines: filtering with comparison operators, projection, sorting,
// pagination and relation expansion.
package query

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultLimit = 25
	DefaultPage  = 1
	MaxLimit     = 100
)

// maxPage keeps (page-1)*limit within an int for any limit up to MaxLimit.
const maxPage = math.MaxInt / MaxLimit

// Kind tells Parse how to cast a filter value for a field.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Time
	ObjectID
	// Hidden fields can never be filtered, sorted or selected on.
	Hidden
)

// Schema maps field paths to their kind. Fields missing from the schema are
// matched as strings.
type Schema map[string]Kind

// hidden reports whether field is a Hidden field or a path below one.
func (s Schema) hidden(field string) bool {
	for name, kind := range s {
		if kind == Hidden && (field == name || strings.HasPrefix(field, name+".")) {
			return true
		}
	}
	return false
}

var reserved = map[string]bool{"select": true, "sort": true, "page": true, "limit": true}

var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// Params is the parsed form of a list request.
type Params struct {
	Filter     bson.M
	Projection bson.D
	Sort       bson.D
	Page       int
	Limit      int
}

// Skip is the number of documents before the current page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Parse never fails: malformed select or sort tokens, unknown operators,
// Hidden fields and keys that would inject a "$" operator are dropped. Limit
// is capped at MaxLimit.
func Parse(values url.Values, schema Schema) Params {
	p := Params{
		Filter:     bson.M{},
		Projection: parseSelect(values.Get("select"), schema),
		Sort:       parseSort(values.Get("sort"), schema),
		Page:       min(positiveInt(values.Get("page"), DefaultPage), maxPage),
		Limit:      min(positiveInt(values.Get("limit"), DefaultLimit), MaxLimit),
	}

	// sorted so "price" is applied before "price[gte]"
	keys := make([]string, 0, len(values))
	for k := range values {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		field, op, ok := splitKey(key)
		if !ok || schema.hidden(field) {
			continue
		}
		kind := schema[field]

		if op == "" {
			if len(vals) == 1 {
				p.Filter[field] = cast(kind, vals[0])
			} else {
				p.Filter[field] = bson.M{"$in": castAll(kind, vals)}
			}
			continue
		}

		var v any
		if op == "in" {
			v = castAll(kind, splitList(vals))
		} else {
			v = cast(kind, vals[len(vals)-1])
		}
		cond, isCond := p.Filter[field].(bson.M)
		if _, exists := p.Filter[field]; exists && !isCond {
			// an exact match on the same field wins
			continue
		}
		if cond == nil {
			cond = bson.M{}
		}
		cond[operators[op]] = v
		p.Filter[field] = cond
	}
	return p
}

// splitKey splits "price[gte]" into ("price", "gte"). A key without brackets
// yields an empty op.
func splitKey(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, "", validField(key)
	}
	if !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	field, op = key[:open], key[open+1:len(key)-1]
	if _, known := operators[op]; !known {
		return "", "", false
	}
	return field, op, validField(field)
}

func validField(f string) bool {
	if f == "" || strings.ContainsAny(f, "[]\x00 ") {
		return false
	}
	for _, seg := range strings.Split(f, ".") {
		if seg == "" || strings.HasPrefix(seg, "$") {
			return false
		}
	}
	return true
}

func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func castAll(kind Kind, vals []string) bson.A {
	out := make(bson.A, 0, len(vals))
	for _, v := range vals {
		out = append(out, cast(kind, v))
	}
	return out
}

// cast converts a raw query value by field kind. A value that does not parse
// is kept as the raw string, so it simply matches nothing.
func cast(kind Kind, raw string) any {
	switch kind {
	case Number:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case Bool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case Time:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	case ObjectID:
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			return id
		}
	}
	return raw
}

func tokens(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
}

// parseSelect builds a projection. "-field" excludes; when inclusions and
// exclusions are mixed only the inclusions are kept.
func parseSelect(raw string, schema Schema) bson.D {
	var incl, excl bson.D
	seen := map[string]bool{}
	for _, tok := range tokens(raw) {
		name := strings.TrimPrefix(tok, "-")
		if !validField(name) || schema.hidden(name) || seen[name] {
			continue
		}
		seen[name] = true
		if strings.HasPrefix(tok, "-") {
			excl = append(excl, bson.E{Key: name, Value: 0})
		} else {
			incl = append(incl, bson.E{Key: name, Value: 1})
		}
	}
	if len(incl) > 0 {
		return incl
	}
	return excl
}

func parseSort(raw string, schema Schema) bson.D {
	var out bson.D
	seen := map[string]bool{}
	for _, tok := range tokens(raw) {
		dir := 1
		name := tok
		if strings.HasPrefix(tok, "-") {
			dir, name = -1, tok[1:]
		}
		if !validField(name) || schema.hidden(name) || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, bson.E{Key: name, Value: dir})
	}
	if len(out) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return out
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
