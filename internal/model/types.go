// Package model holds the types shared across the fuzzy-search service.
package model

import "encoding/json"

// Record is the unit of the dataset: a display string paired with an
// opaque JSON value supplied by the caller at load time.
type Record struct {
	String string          `json:"string"`
	Data   json.RawMessage `json:"data"`
}
