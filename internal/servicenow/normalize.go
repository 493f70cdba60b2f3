package servicenow

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// payloadShape identifies which of the known backend response layouts a
// payload matches. ServiceNow scripted APIs have shipped all three list
// encodings at one point or another, so the shape is resolved exactly once
// instead of probing field-by-field at every use site.
type payloadShape int

const (
	shapeFlatList payloadShape = iota
	shapeNestedWrapper
	shapeStringEncoded
	shapeUnrecognized
)

func (s payloadShape) String() string {
	switch s {
	case shapeFlatList:
		return "flat_list"
	case shapeNestedWrapper:
		return "nested_wrapper"
	case shapeStringEncoded:
		return "string_encoded"
	default:
		return "unrecognized"
	}
}

// resolveShape inspects the top-level "result" field and returns the shape
// along with the extracted list. An absent result is a valid empty flat
// list; a nested {result:{result:[...]}} wrapper is unwrapped one level.
func resolveShape(raw map[string]any) (payloadShape, []any) {
	result, ok := raw["result"]
	if !ok || result == nil {
		return shapeFlatList, nil
	}

	nested := false
	if wrapper, ok := result.(map[string]any); ok {
		inner, ok := wrapper["result"]
		if !ok {
			return shapeUnrecognized, nil
		}
		result = inner
		nested = true
	}

	list, ok := result.([]any)
	if !ok {
		return shapeUnrecognized, nil
	}

	if len(list) > 0 {
		if _, ok := list[0].(string); ok {
			return shapeStringEncoded, list
		}
	}
	if nested {
		return shapeNestedWrapper, list
	}
	return shapeFlatList, list
}

// Normalize turns a raw backend payload into a flat incident sequence.
// It never fails: anything that does not match a recognized shape is
// logged and treated as zero incidents, and a string-encoded list is
// parsed all-or-nothing so a malformed item cannot silently truncate a
// report.
func (c *Client) Normalize(raw map[string]any) []Incident {
	shape, list := resolveShape(raw)

	switch shape {
	case shapeUnrecognized:
		c.logger.Error("unexpected shape for 'result' in ServiceNow payload",
			zap.String("got", fmt.Sprintf("%T", raw["result"])))
		return nil

	case shapeStringEncoded:
		c.logger.Info("detected string-encoded JSON - parsing into objects",
			zap.Int("items", len(list)))
		incidents := make([]Incident, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				c.logger.Error("mixed string/object incident list from ServiceNow",
					zap.Int("index", i))
				return nil
			}
			var inc Incident
			if err := json.Unmarshal([]byte(s), &inc); err != nil {
				c.logger.Error("failed to parse JSON string from ServiceNow",
					zap.Int("index", i), zap.Error(err))
				return nil
			}
			incidents = append(incidents, inc)
		}
		c.logger.Info("successfully parsed string-encoded incidents",
			zap.Int("count", len(incidents)))
		return incidents

	case shapeNestedWrapper:
		c.logger.Info("detected nested result structure - extracting inner result array")
	}

	incidents := make([]Incident, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			c.logger.Error("incident list contains a non-object element",
				zap.Int("index", i), zap.String("got", fmt.Sprintf("%T", item)))
			return nil
		}
		incidents = append(incidents, Incident(m))
	}

	if len(incidents) == 0 {
		c.logger.Info("no high-priority incidents found")
		return incidents
	}
	c.logger.Info("normalized incident payload",
		zap.Stringer("shape", shape), zap.Int("count", len(incidents)))
	return incidents
}
