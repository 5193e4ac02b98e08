package submission

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Decode parses raw JSON into a flat object. It rejects anything that is
// not a JSON object, including valid JSON scalars and arrays.
func Decode(raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("decode payload: not a JSON object")
	}
	return data, nil
}

// ParseFields extracts the configured keys from a decoded payload in
// configured order. Keys that are absent or null yield NotProvided;
// keys the payload carries but the configuration does not name are
// dropped. Scalar values are stringified, nested objects and arrays
// are rejected as NotProvided.
func ParseFields(data map[string]any, keys []string) []Field {
	fields := make([]Field, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, Field{Key: key, Value: fieldValue(data[key])})
	}
	return fields
}

func fieldValue(v any) string {
	switch val := v.(type) {
	case nil:
		return NotProvided
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return NotProvided
	}
}
