// Package query assembles Elasticsearch query-DSL bodies for log triage searches.
package query

import (
	"encoding/json"
	"fmt"
)

// Field names of the indexed log documents.
const (
	TimestampField = "@timestamp"
	MessageField   = "message"
	KeywordSuffix  = ".keyword"
)

// Sort orders accepted by the timestamp sort clause.
const (
	Asc  = "asc"
	Desc = "desc"
)

// DayInterval is the calendar interval used for daily histograms.
const DayInterval = "day"

// QueryStringFields are searched by query_string requests.
var QueryStringFields = []string{"message", "log.message", "event.original"}

// Body is a query-DSL request body. It encodes to JSON as-is.
type Body map[string]any

// JSON encodes the body.
func (b Body) JSON() ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode query body: %w", err)
	}
	return data, nil
}

// Clause is a single query-DSL clause such as {"term": {...}}.
type Clause map[string]any

// Term matches the keyword sub-field of field exactly.
func Term(field, value string) Clause {
	return Clause{"term": map[string]any{field + KeywordSuffix: value}}
}

// Match runs an analyzed full-text match against the message field.
func Match(pattern string) Clause {
	return Clause{"match": map[string]any{MessageField: pattern}}
}

// Wildcard matches pattern as a substring of the message keyword field.
// The pattern is not escaped: '*' and '?' inside it keep their glob meaning.
func Wildcard(pattern string) Clause {
	return Clause{"wildcard": map[string]any{MessageField + KeywordSuffix: "*" + pattern + "*"}}
}

// QueryString runs a Lucene query_string over QueryStringFields.
func QueryString(pattern string) Clause {
	fields := make([]string, len(QueryStringFields))
	copy(fields, QueryStringFields)
	return Clause{"query_string": map[string]any{
		"query":  pattern,
		"fields": fields,
	}}
}

// Since restricts @timestamp to the last days days, relative to cluster time.
func Since(days int) Clause {
	return Clause{"range": map[string]any{
		TimestampField: map[string]any{"gte": fmt.Sprintf("now-%dd", days)},
	}}
}

// SortByTimestamp orders hits by @timestamp.
func SortByTimestamp(order string) []any {
	return []any{map[string]any{TimestampField: map[string]any{"order": order}}}
}

func boolQuery(must []Clause, days int) map[string]any {
	return map[string]any{
		"bool": map[string]any{
			"must":   must,
			"filter": []Clause{Since(days)},
		},
	}
}
