// Package model is a minimal type model over one parsed declaration file.
//
// A Model indexes the file's top-level interfaces, type aliases and enums and
// answers structural questions about type expressions written in that file:
// whether a type is object-shaped or array-shaped, which named declaration
// it refers to, what properties it has and how it renders as text. Names
// imported from other files are never resolved.
package model

import (
	"github.com/rlch/typemock"
)

// DeclKind is the kind of a top-level declaration.
type DeclKind int

// Declaration kinds.
const (
	DeclInterface DeclKind = iota
	DeclAlias
	DeclEnum
)

func (k DeclKind) String() string {
	switch k {
	case DeclInterface:
		return "interface"
	case DeclAlias:
		return "type"
	case DeclEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Declaration is a named top-level declaration.
type Declaration struct {
	Name string
	Kind DeclKind
	Docs string

	// Node is the *typemock.InterfaceDecl, *typemock.TypeAliasDecl or
	// *typemock.EnumDecl this declaration was read from.
	Node typemock.Node
}

// Span returns the source span of the declaration.
func (d *Declaration) Span() typemock.Span { return d.Node.Span() }

// Model is the type model of one parsed file.
type Model struct {
	Path string
	File *typemock.File

	decls  []*Declaration
	byName map[string]*Declaration
}

// New indexes the top-level declarations of file. When a name is declared
// more than once, Lookup returns the first declaration.
func New(path string, file *typemock.File) *Model {
	m := &Model{
		Path:   path,
		File:   file,
		byName: make(map[string]*Declaration),
	}

	if file == nil {
		return m
	}

	for _, s := range file.Statements {
		var d *Declaration

		switch {
		case s.Interface != nil:
			d = &Declaration{Name: s.Interface.Name, Kind: DeclInterface, Docs: s.Interface.Doc(), Node: s.Interface}
		case s.TypeAlias != nil:
			d = &Declaration{Name: s.TypeAlias.Name, Kind: DeclAlias, Docs: s.TypeAlias.Doc(), Node: s.TypeAlias}
		case s.Enum != nil:
			d = &Declaration{Name: s.Enum.Name, Kind: DeclEnum, Docs: s.Enum.Doc(), Node: s.Enum}
		default:
			continue
		}

		m.decls = append(m.decls, d)

		if _, ok := m.byName[d.Name]; !ok {
			m.byName[d.Name] = d
		}
	}

	return m
}

// Declarations returns every top-level declaration in file order.
func (m *Model) Declarations() []*Declaration {
	return m.decls
}

// Structural returns the structural declarations in file order: interfaces,
// and type aliases whose target is an inline object literal.
func (m *Model) Structural() []*Declaration {
	var out []*Declaration

	for _, d := range m.decls {
		if m.IsStructural(d) {
			out = append(out, d)
		}
	}

	return out
}

// IsStructural reports whether d is an interface or an alias of an inline
// object literal.
func (m *Model) IsStructural(d *Declaration) bool {
	switch n := d.Node.(type) {
	case *typemock.InterfaceDecl:
		return true
	case *typemock.TypeAliasDecl:
		return typemock.ObjectLiteral(n.Type) != nil
	default:
		return false
	}
}

// Lookup returns the first declaration named name.
func (m *Model) Lookup(name string) (*Declaration, bool) {
	d, ok := m.byName[name]
	return d, ok
}

// Properties returns the own properties of a structural declaration in
// source order. Inherited members are not included. For any other
// declaration it returns the properties its type resolves to, if any.
func (m *Model) Properties(d *Declaration) []*Property {
	switch n := d.Node.(type) {
	case *typemock.InterfaceDecl:
		return m.properties(n.Body)
	case *typemock.TypeAliasDecl:
		return m.TypeOf(n.Type).Properties()
	default:
		return nil
	}
}

// Object returns the member list backing a structural declaration: the
// interface body or the aliased object literal.
func (m *Model) Object(d *Declaration) *typemock.ObjectType {
	switch n := d.Node.(type) {
	case *typemock.InterfaceDecl:
		return n.Body
	case *typemock.TypeAliasDecl:
		return typemock.ObjectLiteral(n.Type)
	default:
		return nil
	}
}

// EnumValues returns the values of an enum declaration's members. Members
// without an initializer take the next number after the previous numeric
// member, starting at zero.
func (m *Model) EnumValues(d *Declaration) []any {
	e, ok := d.Node.(*typemock.EnumDecl)
	if !ok {
		return nil
	}

	values := make([]any, 0, len(e.Members))
	next := 0.0

	for _, mem := range e.Members {
		if mem.Value == nil {
			values = append(values, next)
			next++

			continue
		}

		v := mem.Value.Value()
		if f, ok := v.(float64); ok {
			next = f + 1
		}

		values = append(values, v)
	}

	return values
}

func (m *Model) properties(o *typemock.ObjectType) []*Property {
	sigs := o.Properties()
	props := make([]*Property, 0, len(sigs))

	for _, sig := range sigs {
		props = append(props, &Property{
			Name:     sig.Name.Text(),
			Optional: sig.Optional,
			Readonly: sig.Readonly,
			Docs:     sig.Doc(),
			Type:     m.TypeOf(sig.Type),
			Node:     sig,
		})
	}

	return props
}

// Property is one property signature of an object shape.
type Property struct {
	Name     string
	Optional bool
	Readonly bool
	Docs     string
	Type     *Type
	Node     *typemock.PropertySignature
}
