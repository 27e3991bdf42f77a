package query

import (
	"github.com/cyclopcam/keyframes/pkg/nn"
)

// Frame is a single element of a Corpus
type Frame struct {
	ID     string
	Record *nn.DetectionRecord
}

// Corpus maps frame identifiers to detection records.
// Iteration order is the order in which frames were first added, which makes
// query results deterministic.
type Corpus struct {
	frames []Frame
	index  map[string]int
}

func NewCorpus() *Corpus {
	return &Corpus{
		index: map[string]int{},
	}
}

// Add a frame to the corpus.
// If the frame already exists, its record is replaced, but it retains its original position.
func (c *Corpus) Add(id string, rec *nn.DetectionRecord) {
	if i, ok := c.index[id]; ok {
		c.frames[i].Record = rec
		return
	}
	c.index[id] = len(c.frames)
	c.frames = append(c.frames, Frame{ID: id, Record: rec})
}

// Get returns the record of the given frame, or nil
func (c *Corpus) Get(id string) *nn.DetectionRecord {
	if i, ok := c.index[id]; ok {
		return c.frames[i].Record
	}
	return nil
}

func (c *Corpus) Len() int {
	return len(c.frames)
}

// Frames returns the frames in iteration order. The returned slice must not be modified.
func (c *Corpus) Frames() []Frame {
	return c.frames
}

// IDs returns the frame identifiers in iteration order
func (c *Corpus) IDs() []string {
	ids := make([]string, len(c.frames))
	for i, f := range c.frames {
		ids[i] = f.ID
	}
	return ids
}
