package query

import (
	"github.com/cyclopcam/keyframes/pkg/nn"
)

// UniqueClasses returns the class entity labels that appear in the corpus.
// Only the first params.MaxBoxes detections of each record are considered (in rank order,
// not re-sorted by score), and of those, only detections with score >= params.MinScore.
// Labels are returned in first-seen order, without duplicates.
// A nil params uses the defaults.
func UniqueClasses(c *Corpus, params *nn.QueryParams) []string {
	unique := []string{}
	seen := map[string]bool{}
	for _, f := range c.frames {
		rec := f.Record
		for i := 0; i < rec.Limit(params.EffectiveMaxBoxes()); i++ {
			if !params.Accept(rec, i) {
				continue
			}
			label := rec.ClassEntities[i]
			if !seen[label] {
				seen[label] = true
				unique = append(unique, label)
			}
		}
	}
	return unique
}

// FramesContaining returns the IDs of every frame whose record contains classEntity anywhere.
// Unlike UniqueClasses, there is no score threshold and no MaxBoxes limit.
// Result order is corpus order. If nothing matches, the result is empty (not nil).
func FramesContaining(c *Corpus, classEntity string) []string {
	ids := []string{}
	for _, f := range c.frames {
		if f.Record.HasClassEntity(classEntity) {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// ClassCount is the number of frames in which a class was found
type ClassCount struct {
	ClassEntity string `json:"classEntity"`
	Frames      int    `json:"frames"`
}

// ClassCounts returns the same classes as UniqueClasses, in the same order, along with
// the number of frames in which each class passed the filter.
// A frame with multiple detections of the same class is counted once.
func ClassCounts(c *Corpus, params *nn.QueryParams) []ClassCount {
	counts := []ClassCount{}
	position := map[string]int{}
	for _, f := range c.frames {
		rec := f.Record
		inFrame := map[string]bool{}
		for i := 0; i < rec.Limit(params.EffectiveMaxBoxes()); i++ {
			if !params.Accept(rec, i) {
				continue
			}
			label := rec.ClassEntities[i]
			if inFrame[label] {
				continue
			}
			inFrame[label] = true
			if p, ok := position[label]; ok {
				counts[p].Frames++
			} else {
				position[label] = len(counts)
				counts = append(counts, ClassCount{ClassEntity: label, Frames: 1})
			}
		}
	}
	return counts
}
