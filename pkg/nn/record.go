package nn

// DetectionRecord holds the output of an object detector for a single frame.
// All four slices have the same length, and are in detection-rank order, as produced
// by the detector. Index 0 is the detector's top-ranked detection. We never re-sort.
// A DetectionRecord must not be modified after it has been parsed.
type DetectionRecord struct {
	Boxes         []Box     `json:"boxes"`
	Scores        []float32 `json:"scores"`
	ClassNames    []string  `json:"classNames"`    // Internal class identifiers, eg "/m/01yrx"
	ClassEntities []string  `json:"classEntities"` // Human readable labels, eg "Cat"
}

// Detection is a single element of a DetectionRecord
type Detection struct {
	Box         Box     `json:"box"`
	Score       float32 `json:"score"`
	ClassName   string  `json:"className"`
	ClassEntity string  `json:"classEntity"`
}

// Len returns the number of detections in the record
func (r *DetectionRecord) Len() int {
	return len(r.Boxes)
}

// Detection returns the i'th detection
func (r *DetectionRecord) Detection(i int) Detection {
	return Detection{
		Box:         r.Boxes[i],
		Score:       r.Scores[i],
		ClassName:   r.ClassNames[i],
		ClassEntity: r.ClassEntities[i],
	}
}

// Limit returns the number of leading detections that should be considered, given maxBoxes.
func (r *DetectionRecord) Limit(maxBoxes int) int {
	return min(maxBoxes, r.Len())
}

// HasClassEntity returns true if any detection in the record has the given label.
// Scores and rank are ignored.
func (r *DetectionRecord) HasClassEntity(classEntity string) bool {
	for _, e := range r.ClassEntities {
		if e == classEntity {
			return true
		}
	}
	return false
}

// RawRecord is the on-disk JSON layout of a DetectionRecord
type RawRecord struct {
	Boxes         [][4]float64 `json:"detection_boxes"`
	Scores        []float32    `json:"detection_scores"`
	ClassNames    []string     `json:"detection_class_names"`
	ClassEntities []string     `json:"detection_class_entities"`
}

// ToRaw converts the record back to its on-disk layout
func (r *DetectionRecord) ToRaw() *RawRecord {
	raw := &RawRecord{
		Boxes:         make([][4]float64, len(r.Boxes)),
		Scores:        r.Scores,
		ClassNames:    r.ClassNames,
		ClassEntities: r.ClassEntities,
	}
	for i, b := range r.Boxes {
		raw.Boxes[i] = b.Array()
	}
	return raw
}
