// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/xtaltools/pkg/types"
)

// errNull marks a key that is present but holds JSON null.
var errNull = errors.New("null value")

// Lookup is the outcome of one field lookup: either a value or a tagged
// unavailable marker carrying the reason.
type Lookup struct {
	Value string
	Err   error
}

// Found returns an available lookup.
func Found(v string) Lookup { return Lookup{Value: v} }

// Unavailable returns a lookup that failed for err.
func Unavailable(err error) Lookup { return Lookup{Err: err} }

// OK reports whether the lookup produced a value.
func (l Lookup) OK() bool { return l.Err == nil }

// Or returns the value, or fallback when the lookup is unavailable.
func (l Lookup) Or(fallback string) string {
	if l.Err != nil {
		return fallback
	}
	return l.Value
}

// OrMissing returns the value or the report sentinel.
func (l Lookup) OrMissing() string { return l.Or(types.Missing) }

// NonEmpty turns an available but blank value into an unavailable lookup.
func (l Lookup) NonEmpty() Lookup {
	if l.Err == nil && strings.TrimSpace(l.Value) == "" {
		return Unavailable(errors.New("empty value"))
	}
	return l
}

// document is a decoded RCSB JSON document. Numbers are json.Number.
type document map[string]any

// node walks path through nested objects (string keys) and arrays (int
// indexes) and returns the value found there.
func (d document) node(path ...any) (any, error) {
	var cur any = map[string]any(d)
	for i, step := range path {
		switch key := step.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: not an object", pathString(path[:i]))
			}
			v, ok := obj[key]
			if !ok {
				return nil, fmt.Errorf("%s: missing key", pathString(path[:i+1]))
			}
			cur = v
		case int:
			arr, ok := cur.([]any)
			if !ok {
				return nil, fmt.Errorf("%s: not an array", pathString(path[:i]))
			}
			if key < 0 || key >= len(arr) {
				return nil, fmt.Errorf("%s: index out of range (len %d)", pathString(path[:i+1]), len(arr))
			}
			cur = arr[key]
		default:
			return nil, fmt.Errorf("invalid path step %v", step)
		}
		if cur == nil {
			return nil, fmt.Errorf("%s: %w", pathString(path[:i+1]), errNull)
		}
	}
	return cur, nil
}

// scalar looks up path and renders a string, number, or bool value.
func (d document) scalar(path ...any) Lookup {
	v, err := d.node(path...)
	if err != nil {
		return Unavailable(err)
	}
	switch x := v.(type) {
	case string:
		return Found(x)
	case json.Number:
		return Found(x.String())
	case bool:
		return Found(strconv.FormatBool(x))
	default:
		return Unavailable(fmt.Errorf("%s: not a scalar", pathString(path)))
	}
}

// array looks up path and returns the array found there.
func (d document) array(path ...any) ([]any, error) {
	v, err := d.node(path...)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: not an array", pathString(path))
	}
	return arr, nil
}

func pathString(path []any) string {
	parts := make([]string, 0, len(path))
	for _, step := range path {
		switch s := step.(type) {
		case int:
			parts = append(parts, "["+strconv.Itoa(s)+"]")
		default:
			parts = append(parts, fmt.Sprint(s))
		}
	}
	return strings.Join(parts, ".")
}
