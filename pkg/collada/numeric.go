package collada

import (
	"strconv"
	"strings"

	"github.com/Faultbox/midgard-scene/pkg/math"
)

// parseFloats reads a whitespace separated float list. element and id are
// only used to describe a failure.
func parseFloats(text, element, id string) ([]float32, error) {
	fields := strings.Fields(text)
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, malformed(element, id, f)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseInts reads a whitespace separated list of non-negative integers.
func parseInts(text, element, id string) ([]int, error) {
	fields := strings.Fields(text)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, malformed(element, id, f)
		}
		out[i] = v
	}
	return out, nil
}

// parseIntAttr reads an optional integer attribute.
func parseIntAttr(text string, def int, element, id string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return def, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil || v < 0 {
		return 0, malformed(element, id, text)
	}
	return v, nil
}

// parseFloat reads a single float, returning def for empty text.
func parseFloat(text string, def float32, element, id string) (float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return 0, malformed(element, id, text)
	}
	return float32(v), nil
}

// parseVec3 reads exactly three floats.
func parseVec3(text, element, id string) (math.Vec3, error) {
	v, err := parseFloats(text, element, id)
	if err != nil {
		return math.Vec3{}, err
	}
	if len(v) != 3 {
		return math.Vec3{}, malformed(element, id, text)
	}
	return math.V3(v[0], v[1], v[2]), nil
}

// parseColor reads an rgb or rgba color; alpha defaults to 1.
func parseColor(text, element, id string) ([4]float32, error) {
	v, err := parseFloats(text, element, id)
	if err != nil {
		return [4]float32{}, err
	}
	switch len(v) {
	case 3:
		return [4]float32{v[0], v[1], v[2], 1}, nil
	case 4:
		return [4]float32{v[0], v[1], v[2], v[3]}, nil
	}
	return [4]float32{}, malformed(element, id, text)
}
