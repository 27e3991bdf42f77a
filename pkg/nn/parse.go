package nn

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/chewxy/math32"
)

// Keys of the raw JSON record
const (
	KeyBoxes         = "detection_boxes"
	KeyScores        = "detection_scores"
	KeyClassNames    = "detection_class_names"
	KeyClassEntities = "detection_class_entities"
)

var ErrMalformedRecord = errors.New("Malformed detection record")

// MalformedRecordError is returned when a raw record is missing fields, has fields of
// unequal length, or contains values that can't be coerced to the expected type.
type MalformedRecordError struct {
	Field  string // The offending key, or empty if the error concerns the whole record
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Malformed detection record: %v", e.Reason)
	}
	return fmt.Sprintf("Malformed detection record: %v: %v", e.Field, e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func malformed(field, format string, args ...any) *MalformedRecordError {
	return &MalformedRecordError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Parse validates a raw structured record and converts it into a DetectionRecord.
// The raw record is typically the result of decoding a JSON object, but slices of
// concrete types (eg []string, [][]float64) are also accepted.
func Parse(raw map[string]any) (*DetectionRecord, error) {
	for _, key := range []string{KeyBoxes, KeyScores, KeyClassNames, KeyClassEntities} {
		if _, ok := raw[key]; !ok {
			return nil, malformed(key, "missing")
		}
	}

	rawBoxes, err := toList(KeyBoxes, raw[KeyBoxes])
	if err != nil {
		return nil, err
	}
	rawScores, err := toList(KeyScores, raw[KeyScores])
	if err != nil {
		return nil, err
	}
	classNames, err := toStrings(KeyClassNames, raw[KeyClassNames])
	if err != nil {
		return nil, err
	}
	classEntities, err := toStrings(KeyClassEntities, raw[KeyClassEntities])
	if err != nil {
		return nil, err
	}

	n := len(rawBoxes)
	if len(rawScores) != n || len(classNames) != n || len(classEntities) != n {
		return nil, malformed("", "field lengths differ (boxes %v, scores %v, class names %v, class entities %v)",
			n, len(rawScores), len(classNames), len(classEntities))
	}

	rec := &DetectionRecord{
		Boxes:         make([]Box, n),
		Scores:        make([]float32, n),
		ClassNames:    classNames,
		ClassEntities: classEntities,
	}

	for i, rb := range rawBoxes {
		coords, err := toList(KeyBoxes, rb)
		if err != nil {
			return nil, err
		}
		if len(coords) != 4 {
			return nil, malformed(KeyBoxes, "box %v has %v components, expected 4", i, len(coords))
		}
		var v [4]float64
		for j, c := range coords {
			if v[j], err = toFloat(c); err != nil {
				return nil, malformed(KeyBoxes, "box %v component %v: %v", i, j, err)
			}
		}
		rec.Boxes[i] = Box{YMin: v[0], XMin: v[1], YMax: v[2], XMax: v[3]}
	}

	for i, rs := range rawScores {
		f, err := toFloat(rs)
		if err != nil {
			return nil, malformed(KeyScores, "score %v: %v", i, err)
		}
		score := float32(f)
		if math32.IsNaN(score) {
			return nil, malformed(KeyScores, "score %v is NaN", i)
		}
		rec.Scores[i] = score
	}

	return rec, nil
}

// ParseJSON parses a JSON encoded record
func ParseJSON(b []byte) (*DetectionRecord, error) {
	raw, err := DecodeRaw(b)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// DecodeRaw decodes a JSON object into a raw record, without validating it.
// Numbers are kept as json.Number, so that no precision is lost before coercion.
func DecodeRaw(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	raw := map[string]any{}
	if err := dec.Decode(&raw); err != nil {
		return nil, malformed("", "invalid JSON: %v", err)
	}
	return raw, nil
}

// Load a detection record from a JSON file
func LoadRecordFile(filename string) (*DetectionRecord, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	rec, err := ParseJSON(b)
	if err != nil {
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	return rec, nil
}

func toList(field string, v any) ([]any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case []string:
		return anySlice(t), nil
	case []float64:
		return anySlice(t), nil
	case []float32:
		return anySlice(t), nil
	case [][]float64:
		return anySlice(t), nil
	case [][4]float64:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i][:]
		}
		return out, nil
	case [4]float64:
		return anySlice(t[:]), nil
	}
	return nil, malformed(field, "expected a list, but found %T", v)
}

func anySlice[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func toStrings(field string, v any) ([]string, error) {
	if s, ok := v.([]string); ok {
		return append(make([]string, 0, len(s)), s...), nil
	}
	list, err := toList(field, v)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(list))
	for i, el := range list {
		s, ok := el.(string)
		if !ok {
			return nil, malformed(field, "element %v is %T, expected a string", i, el)
		}
		out[i] = s
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		return strconv.ParseFloat(t, 64)
	}
	return 0, fmt.Errorf("%v (%T) is not a number", v, v)
}
