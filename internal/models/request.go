package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Request is the envelope exchanged with both the front end and the back end.
// Keys the middleware does not know about are kept in Extra and written back
// out when the request is forwarded.
type Request struct {
	Action     Action         `json:"action" validate:"required,oneof=insert edit delete list list_available_for_student list_test_to_be_released"`
	TableName  string         `json:"table_name"`
	PrimaryKey any            `json:"primary_key,omitempty"`
	Fields     map[string]any `json:"fields"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (r *Request) Validate() error {
	return validate.Struct(r)
}

func (r *Request) HasPrimaryKey() bool {
	return r.PrimaryKey != nil
}

// HasFields reports whether the caller sent a fields object. An empty object
// counts as present.
func (r *Request) HasFields() bool {
	return r.Fields != nil
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("request must be a JSON object")
	}

	*r = Request{}
	for key, value := range raw {
		switch key {
		case "action":
			if err := decodeValue(value, &r.Action); err != nil {
				return fmt.Errorf("action: %w", err)
			}
		case "table_name":
			if err := decodeValue(value, &r.TableName); err != nil {
				return fmt.Errorf("table_name: %w", err)
			}
		case "primary_key":
			if err := decodeValue(value, &r.PrimaryKey); err != nil {
				return fmt.Errorf("primary_key: %w", err)
			}
		case "fields":
			fields, err := decodeFields(value)
			if err != nil {
				return fmt.Errorf("fields: %w", err)
			}
			r.Fields = fields
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]json.RawMessage)
			}
			r.Extra[key] = value
		}
	}
	return nil
}

// MarshalJSON always writes table_name and fields; the back end rejects
// envelopes without them.
func (r Request) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+4)
	for key, value := range r.Extra {
		out[key] = value
	}

	fields := r.Fields
	if fields == nil {
		fields = map[string]any{}
	}

	out["action"] = r.Action
	out["table_name"] = r.TableName
	out["fields"] = fields
	if r.PrimaryKey != nil {
		out["primary_key"] = r.PrimaryKey
	}
	return json.Marshal(out)
}

func decodeValue(data json.RawMessage, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(dst)
}

// decodeFields accepts an object, null, or an empty array. Empty arrays are
// what PHP-style clients produce for an empty associative array.
func decodeFields(data json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []any
		if err := decodeValue(trimmed, &list); err != nil {
			return nil, err
		}
		if len(list) != 0 {
			return nil, fmt.Errorf("expected an object, got a non-empty array")
		}
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := decodeValue(trimmed, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
