// Package result decodes raw search responses and flattens them into API payloads.
package result

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is the subset of a search response the gateway reads.
// Documents and aggregations stay as raw JSON so they pass through unmodified.
type Response struct {
	Hits            Hits            `json:"hits"`
	RawAggregations json.RawMessage `json:"aggregations,omitempty"`
}

// Hits holds the hit total and the returned hits.
type Hits struct {
	Total json.RawMessage `json:"total,omitempty"`
	Hits  []Hit           `json:"hits"`
}

// Hit is a single returned document.
type Hit struct {
	Index  string          `json:"_index,omitempty"`
	ID     string          `json:"_id,omitempty"`
	Source json.RawMessage `json:"_source"`
}

// Bucket is one aggregation bucket reduced to its key and count.
type Bucket struct {
	Key      json.RawMessage `json:"key"`
	DocCount int64           `json:"doc_count"`
}

// Decode parses a raw search response body.
func Decode(data []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &r, nil
}

// Sources returns the _source documents in hit order. Never nil.
func (r *Response) Sources() []json.RawMessage {
	out := make([]json.RawMessage, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		src := h.Source
		if len(src) == 0 {
			src = json.RawMessage(`null`)
		}
		out = append(out, src)
	}
	return out
}

// Total returns hits.total.value, or 0 when absent.
// Clusters that report hits.total as a bare number are accepted too.
func (r *Response) Total() int64 {
	raw := bytes.TrimSpace(r.Hits.Total)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}
	if raw[0] == '{' {
		var t struct {
			Value int64 `json:"value"`
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return 0
		}
		return t.Value
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return n
}

// Buckets returns aggregations.<name>.buckets as key/count pairs in upstream order.
// Missing or malformed aggregations yield an empty slice.
func (r *Response) Buckets(name string) []Bucket {
	out := []Bucket{}
	if len(r.RawAggregations) == 0 {
		return out
	}
	var aggs map[string]struct {
		Buckets []Bucket `json:"buckets"`
	}
	if err := json.Unmarshal(r.RawAggregations, &aggs); err != nil {
		return out
	}
	agg, ok := aggs[name]
	if !ok {
		return out
	}
	return append(out, agg.Buckets...)
}

// Aggregations returns the aggregations object as received, or {} when absent.
func (r *Response) Aggregations() json.RawMessage {
	raw := bytes.TrimSpace(r.RawAggregations)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return json.RawMessage(`{}`)
	}
	return r.RawAggregations
}
