package models

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	JSONStringField = "json_string"
	maxBodyBytes    = 1 << 20
)

var ErrMissingJSONString = errors.New("missing json_string")

// ParseError carries whatever action could be read from a request that
// failed the initial parse, so error replies can echo it.
type ParseError struct {
	Action Action
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("initial parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseRequest reads the envelope from the json_string form field, or from
// the raw body when the client posts application/json, and checks the
// generic structural contract.
func ParseRequest(r *http.Request) (*Request, error) {
	payload, err := readPayload(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var req Request
	if err := req.UnmarshalJSON([]byte(payload)); err != nil {
		return nil, &ParseError{Action: req.Action, Err: fmt.Errorf("invalid %s: %w", JSONStringField, err)}
	}

	if err := req.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			err = fmt.Errorf("field %s failed on %q", verrs[0].Field(), verrs[0].Tag())
		}
		return nil, &ParseError{Action: req.Action, Err: fmt.Errorf("invalid action %q: %w", req.Action, err)}
	}

	return &req, nil
}

func readPayload(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return "", fmt.Errorf("failed to read request body: %w", err)
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return "", ErrMissingJSONString
		}
		return string(body), nil
	}

	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("failed to parse form: %w", err)
	}
	value := r.PostForm.Get(JSONStringField)
	if value == "" {
		return "", ErrMissingJSONString
	}
	return value, nil
}
