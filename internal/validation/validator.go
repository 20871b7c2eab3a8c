package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/qri-io/jsonschema"
)

var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrUnknownSchema  = errors.New("unknown schema")
)

type Problem struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error carries every schema violation of one payload.
type Error struct {
	Schema   string
	Problems []Problem
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Path+": "+p.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() error { return ErrInvalidPayload }

// Validator holds the compiled request schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

func New() (*Validator, error) {
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(rawSchemas))}
	for name, raw := range rawSchemas {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(raw), rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = rs
	}
	return v, nil
}

// MustNew panics when a built-in schema fails to compile.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks body against the named schema. An empty body validates as {}.
func (v *Validator) Validate(ctx context.Context, schema string, body []byte) error {
	rs, ok := v.schemas[schema]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSchema, schema)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		return &Error{Schema: schema, Problems: []Problem{{Path: "/", Message: "body is not valid JSON"}}}
	}

	verrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return fmt.Errorf("validate %s: %w", schema, err)
	}
	if len(verrs) == 0 {
		return nil
	}

	problems := make([]Problem, 0, len(verrs))
	for _, ve := range verrs {
		path := ve.PropertyPath
		if path == "" {
			path = "/"
		}
		problems = append(problems, Problem{Path: path, Message: ve.Message})
	}
	sort.SliceStable(problems, func(i, j int) bool { return problems[i].Path < problems[j].Path })
	return &Error{Schema: schema, Problems: problems}
}
