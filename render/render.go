// Package render writes extracted interface schemas as JSON, YAML or a
// human-readable tree.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rlch/typemock"
)

// ErrUnknownFormat is returned by ForName for an unsupported format name.
var ErrUnknownFormat = errors.New("render: unknown format")

// Formatter writes schemas to w. A single schema is written on its own;
// several are written as a list.
type Formatter interface {
	Format(w io.Writer, schemas ...*typemock.InterfaceSchema) error
}

// Formats lists the supported format names.
var Formats = []string{typemock.FormatJSON, typemock.FormatYAML, typemock.FormatTree}

// ForName returns the formatter for a format name.
func ForName(name string) (Formatter, error) { //nolint:ireturn
	switch strings.ToLower(name) {
	case typemock.FormatJSON:
		return JSON{}, nil
	case typemock.FormatYAML:
		return YAML{}, nil
	case typemock.FormatTree, "":
		return Tree{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Formats, ", "))
	}
}

// JSON writes schemas as indented JSON.
type JSON struct{}

// Format implements Formatter.
func (JSON) Format(w io.Writer, schemas ...*typemock.InterfaceSchema) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(payload(schemas))
}

// YAML writes schemas as a YAML document.
type YAML struct{}

// Format implements Formatter.
func (YAML) Format(w io.Writer, schemas ...*typemock.InterfaceSchema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(payload(schemas)); err != nil {
		return err
	}

	return enc.Close()
}

func payload(schemas []*typemock.InterfaceSchema) any {
	if len(schemas) == 1 {
		return schemas[0]
	}

	if schemas == nil {
		return []*typemock.InterfaceSchema{}
	}

	return schemas
}
