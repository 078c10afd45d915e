package wlog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// sortedKeys returns m's keys in lexicographic order, so repeated log lines
// stay diffable regardless of map iteration order.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// renderFieldValue normalizes val into something encoding/json renders
// sensibly: timestamps as ISO 8601, everything with a String()/Error() as
// that string.
func renderFieldValue(val interface{}) interface{} {
	switch v := val.(type) {
	case time.Time:
		return v.Format("2006-01-02T15:04:05.000")
	case time.Duration:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	default:
		return val
	}
}

// marshalOrderedJSON writes m as a JSON object with keys sorted
// lexicographically.
func marshalOrderedJSON(output *strings.Builder, m map[string]interface{}) error {
	output.WriteRune('{')
	for i, key := range sortedKeys(m) {
		if i != 0 {
			output.WriteRune(',')
		}

		jsonKey, err := json.Marshal(key)
		if err != nil {
			return err
		}
		output.Write(jsonKey)
		output.WriteRune(':')

		jsonValue, err := json.Marshal(renderFieldValue(m[key]))
		if err != nil {
			return err
		}
		output.Write(jsonValue)
	}
	output.WriteRune('}')

	return nil
}
