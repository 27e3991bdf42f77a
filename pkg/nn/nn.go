// Package nn is the object detection record layer.
// Records are produced upstream by a neural network, and stored as one JSON file per frame.
// To parse a record, use Parse, ParseJSON, or LoadRecordFile.
package nn

const DefaultMaxBoxes = 10
const DefaultMinScore = 0.5

// QueryParams control which detections of a record are considered by queries and rendering
type QueryParams struct {
	MaxBoxes int     // Only the first MaxBoxes detections of each record are considered. Zero means none.
	MinScore float32 // Detections with a score below this are ignored. Value between 0 and 1.
}

// Create a default QueryParams object
func NewQueryParams() *QueryParams {
	return &QueryParams{
		MaxBoxes: DefaultMaxBoxes,
		MinScore: DefaultMinScore,
	}
}

// Return MaxBoxes, clamped to zero.
// A nil params object returns all defaults.
func (p *QueryParams) EffectiveMaxBoxes() int {
	if p == nil {
		return DefaultMaxBoxes
	}
	return max(p.MaxBoxes, 0)
}

func (p *QueryParams) EffectiveMinScore() float32 {
	if p == nil {
		return DefaultMinScore
	}
	return p.MinScore
}

// Accept returns true if the detection at index i of rec passes the MaxBoxes and MinScore filters
func (p *QueryParams) Accept(rec *DetectionRecord, i int) bool {
	return i < rec.Limit(p.EffectiveMaxBoxes()) && rec.Scores[i] >= p.EffectiveMinScore()
}
