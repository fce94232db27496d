package query

// IdentifierLookup fetches documents whose field equals value, oldest first.
// A non-empty pattern adds a full-text match on the message.
func IdentifierLookup(field, value, pattern string, days int) Body {
	must := []Clause{Term(field, value)}
	if pattern != "" {
		must = append(must, Match(pattern))
	}
	return Body{
		"sort":  SortByTimestamp(Asc),
		"query": boolQuery(must, days),
	}
}

// WildcardSearch fetches documents whose message contains pattern, newest first.
func WildcardSearch(pattern string, days int) Body {
	return Body{
		"query": boolQuery([]Clause{Wildcard(pattern)}, days),
		"sort":  SortByTimestamp(Desc),
	}
}

// QueryStringSearch fetches documents matching a Lucene query string, newest first.
func QueryStringSearch(pattern string, days int) Body {
	return Body{
		"query": boolQuery([]Clause{QueryString(pattern)}, days),
		"sort":  SortByTimestamp(Desc),
	}
}

// TermsAggregation counts wildcard matches per distinct value of field.
// The aggregation is returned under name.
func TermsAggregation(name, field, pattern string, days, size int) Body {
	return Body{
		"size":  0,
		"query": boolQuery([]Clause{Wildcard(pattern)}, days),
		"aggs": map[string]any{
			name: map[string]any{
				"terms": map[string]any{
					"field": field + KeywordSuffix,
					"size":  size,
				},
			},
		},
	}
}

// DateHistogram buckets wildcard matches by @timestamp at the given calendar interval.
func DateHistogram(name, pattern string, days int, interval string) Body {
	return Body{
		"size":  0,
		"query": boolQuery([]Clause{Wildcard(pattern)}, days),
		"aggs": map[string]any{
			name: map[string]any{
				"date_histogram": map[string]any{
					"field":             TimestampField,
					"calendar_interval": interval,
				},
			},
		},
	}
}
