package model

import (
	"encoding/json"
	"strconv"
)

// GatewayResponse is a decoded JSON object returned by the mBills API.
// Numbers are kept as json.Number so identifiers survive without float rounding.
type GatewayResponse map[string]any

// Has reports whether key is present and not null.
func (g GatewayResponse) Has(key string) bool {
	v, ok := g[key]
	return ok && v != nil
}

// String returns the value at key rendered as a string; "" when missing.
func (g GatewayResponse) String(key string) string {
	return scalarString(g[key])
}

// Object returns a nested object at key, or nil.
func (g GatewayResponse) Object(key string) GatewayResponse {
	switch v := g[key].(type) {
	case map[string]any:
		return GatewayResponse(v)
	case GatewayResponse:
		return v
	}
	return nil
}

// Int returns an integer value at key.
func (g GatewayResponse) Int(key string) (int64, bool) {
	switch v := g[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
