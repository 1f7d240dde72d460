package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Table names understood by the back end.
const (
	TableTest      = "test"
	TableTestScore = "test_score"
)

// Record is a single row returned by the back end. Rows are relayed to the
// front end as-is, so unknown columns survive the round trip.
type Record map[string]any

func (r Record) PrimaryKey() any {
	return r["primary_key"]
}

func (r Record) Get(field string) any {
	return r[field]
}

// IDKey normalizes an id so that 7, "7" and json.Number("7") compare equal.
// The second return value is false for a missing (nil) id.
func IDKey(id any) (string, bool) {
	switch v := id.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	default:
		return fmt.Sprint(v), true
	}
}
