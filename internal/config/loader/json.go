package loader

import (
	"errors"
	"math"

	"github.com/tidwall/gjson"
)

var errNotObject = errors.New("top level value is not an object")

// parseJSON parses a JSON object into a map. Whole numbers come back as
// int64 to match the TOML and YAML parsers.
func parseJSON(source string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{Path: source, Message: errNotObject.Error(), Err: errNotObject}
	}

	config := make(map[string]any)
	root.ForEach(func(key, value gjson.Result) bool {
		config[key.String()] = jsonValue(value)
		return true
	})
	return config, nil
}

func jsonValue(r gjson.Result) any {
	switch {
	case r.IsObject():
		m := make(map[string]any)
		r.ForEach(func(key, value gjson.Result) bool {
			m[key.String()] = jsonValue(value)
			return true
		})
		return m
	case r.IsArray():
		items := r.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = jsonValue(item)
		}
		return out
	}

	switch r.Type {
	case gjson.Number:
		if f := r.Float(); f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return r.Float()
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Null:
		return nil
	default:
		return r.String()
	}
}
