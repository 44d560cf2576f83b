// Package dataset loads and indexes the immutable record set the fuzzy
// search service runs over.
package dataset

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/royludo/fuzzytaxosearch/internal/model"
)

// Dataset is an immutable, ordered collection of records plus a derived
// exact-match index. It is safe for unsynchronized concurrent reads once
// constructed — nothing in this package mutates it afterward.
type Dataset struct {
	records []model.Record
	exact   map[string]model.Record
}

// Load reads a JSON file whose top level is an array of records and builds
// a Dataset from it. The first record wins on a string collision for the
// exact-match index (§3).
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open input file %q", path)
	}

	var records []model.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrapf(err, "decode input file %q", path)
	}

	return New(records), nil
}

// New builds a Dataset from an already-decoded record slice. Exposed
// separately from Load so tests can construct a Dataset without a file on
// disk.
func New(records []model.Record) *Dataset {
	exact := make(map[string]model.Record, len(records))
	for _, r := range records {
		if _, exists := exact[r.String]; !exists {
			exact[r.String] = r
		}
	}
	return &Dataset{records: records, exact: exact}
}

// Records returns the dataset in stable load order.
func (d *Dataset) Records() []model.Record {
	return d.records
}

// Exact looks up a record by its exact display string.
func (d *Dataset) Exact(key string) (model.Record, bool) {
	r, ok := d.exact[key]
	return r, ok
}

// Len reports how many records the dataset holds.
func (d *Dataset) Len() int {
	return len(d.records)
}
