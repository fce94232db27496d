package triage

import "encoding/json"

// Page is a bounded set of matching log documents.
type Page struct {
	// Total is the number of matches reported by the cluster, which may exceed len(Results).
	Total   int64
	Results []json.RawMessage
}

// Bucket is one distinct value and the number of matching documents carrying it.
type Bucket struct {
	Key      json.RawMessage
	DocCount int64
}
