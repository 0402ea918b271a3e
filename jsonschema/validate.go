package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	santhosh "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rlch/typemock/extract"
)

// ErrInvalidJSON is returned when a sample is not well-formed JSON.
var ErrInvalidJSON = errors.New("jsonschema: invalid JSON")

// schemaURL is the resource name the generated schema is compiled under.
const schemaURL = "schema.json"

// printer renders validation messages in English.
var printer = message.NewPrinter(language.English)

// Result is the outcome of validating one sample.
type Result struct {
	Valid bool `json:"valid"`

	// Errors holds one "path: message" line per failed leaf keyword,
	// sorted and without duplicates.
	Errors []string `json:"errors,omitempty"`
}

// Validator validates samples against the schema of one declaration.
type Validator struct {
	schema *santhosh.Schema
}

// NewValidator generates and compiles the schema of h.
func NewValidator(h *extract.Handle) (*Validator, error) {
	doc, err := json.Marshal(Generate(h))
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}

	schemaValue, err := santhosh.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}

	c := santhosh.NewCompiler()

	if err := c.AddResource(schemaURL, schemaValue); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// Validate validates data against the schema of h.
func Validate(h *extract.Handle, data []byte) (*Result, error) {
	v, err := NewValidator(h)
	if err != nil {
		return nil, err
	}

	return v.Validate(data)
}

// Validate validates one JSON document. Schema violations are reported in
// the Result; only malformed JSON is an error.
func (v *Validator) Validate(data []byte) (*Result, error) {
	value, err := santhosh.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	err = v.schema.Validate(value)
	if err == nil {
		return &Result{Valid: true}, nil
	}

	var verr *santhosh.ValidationError
	if !errors.As(err, &verr) {
		return &Result{Errors: []string{err.Error()}}, nil
	}

	return &Result{Errors: leafErrors(verr)}, nil
}

// leafErrors flattens a validation error tree into sorted, unique
// "path: message" lines, one per leaf.
func leafErrors(root *santhosh.ValidationError) []string {
	seen := make(map[string]bool)

	var out []string

	var walk func(e *santhosh.ValidationError)

	walk = func(e *santhosh.ValidationError) {
		if len(e.Causes) == 0 && e.ErrorKind != nil {
			line := "/" + strings.Join(e.InstanceLocation, "/") + ": " + e.ErrorKind.LocalizedString(printer)
			if !seen[line] {
				seen[line] = true
				out = append(out, line)
			}
		}

		for _, c := range e.Causes {
			walk(c)
		}
	}

	walk(root)
	slices.Sort(out)

	return out
}
