// Package prompt builds the text requests sent to a mock-data generator
// from an extracted interface schema, and cleans up its replies.
//
// Output is deterministic: the same schema always yields byte-identical
// prompts, with fields listed in declaration order.
package prompt

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rlch/typemock"
)

// System is the system message that accompanies every request.
const System = `You are a professional mock data generator. Generate highly realistic test data from the JSON Schema and JSDoc descriptions the user provides.

Rules:
1. Strictly follow the types defined in the schema
2. Use the JSDoc comments (the docs field) to understand each field's business meaning and generate data that matches the description
3. Fields with a format requirement (email, UUID, date) must use that format
4. Fields with a value range (such as an age of 1-150) must stay within a sensible range
5. For enum types, choose from the allowed values
6. Arrays contain 2-4 elements
7. Return only the plain JSON value, without Markdown, code fences or explanatory text`

// noDocs stands in for a declaration without documentation.
const noDocs = "none"

// User returns the request for a single mock object.
func User(schema *typemock.InterfaceSchema) (string, error) {
	fields, err := fieldsJSON(schema)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString("Generate one mock object for the following interface schema:\n\n")
	writeHeader(&b, schema, fields)
	b.WriteString("Return the JSON object directly, with nothing else.")

	return b.String(), nil
}

// Batch returns the request for count distinct mock objects.
func Batch(schema *typemock.InterfaceSchema, count int) (string, error) {
	if count < 1 {
		return "", fmt.Errorf("prompt: count must be positive, got %d", count)
	}

	fields, err := fieldsJSON(schema)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d different mock objects for the following interface schema:\n\n", count)
	writeHeader(&b, schema, fields)
	fmt.Fprintf(&b, "Return a JSON array containing %d objects directly, with nothing else.", count)

	return b.String(), nil
}

func writeHeader(b *strings.Builder, schema *typemock.InterfaceSchema, fields string) {
	docs := schema.Docs
	if docs == "" {
		docs = noDocs
	}

	fmt.Fprintf(b, "Interface name: %s\n", schema.Name)
	fmt.Fprintf(b, "Interface description: %s\n\n", docs)
	b.WriteString("Fields:\n")
	b.WriteString(fields)
	b.WriteString("\n\n")
}

func fieldsJSON(schema *typemock.InterfaceSchema) (string, error) {
	fields := schema.Fields
	if fields == nil {
		fields = []*typemock.FieldSchema{}
	}

	var b strings.Builder

	enc := json.NewEncoder(&b)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(fields); err != nil {
		return "", fmt.Errorf("prompt: encoding fields of %s: %w", schema.Name, err)
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

// StripFences removes a surrounding Markdown code fence (``` or ```json)
// from a generator reply and trims whitespace, leaving the bare JSON text.
func StripFences(reply string) string {
	s := strings.TrimSpace(reply)

	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}

	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
