package web

import (
	"fmt"
	"net/url"
	"strconv"
)

// QueryInt64 parses an optional integer query parameter.
// Returns def when the parameter is absent and an error when it is malformed.
func QueryInt64(q url.Values, key string, def int64) (int64, error) {
	value := q.Get(key)
	if value == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s number: %s", key, value)
	}
	return n, nil
}

// QueryBool parses an optional boolean query parameter ("1", "true", "yes" and friends).
func QueryBool(q url.Values, key string, def bool) (bool, error) {
	value := q.Get(key)
	if value == "" {
		return def, nil
	}
	switch value {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s flag: %s", key, value)
	}
	return b, nil
}
