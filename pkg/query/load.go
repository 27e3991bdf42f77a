package query

import (
	"fmt"

	"github.com/cyclopcam/keyframes/pkg/nn"
	"github.com/cyclopcam/keyframes/pkg/source"
)

// LoadCorpus reads and parses the records of the given frames from src.
// If ids is nil, then every record in src is loaded.
// The first missing or malformed record aborts the load.
func LoadCorpus(src source.RecordSource, ids []string) (*Corpus, error) {
	if ids == nil {
		var err error
		if ids, err = src.ListRecords(); err != nil {
			return nil, err
		}
	}
	c := NewCorpus()
	for _, id := range ids {
		raw, err := src.GetRecord(id)
		if err != nil {
			return nil, err
		}
		rec, err := nn.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("Record '%v': %w", id, err)
		}
		c.Add(id, rec)
	}
	return c, nil
}
