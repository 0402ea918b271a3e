package model

import (
	"github.com/rlch/typemock"
)

// Kind classifies a type expression.
type Kind int

// Type kinds.
const (
	// KindOpaque is anything the model cannot look into: imported or
	// builtin references, type parameters, keyof and typeof.
	KindOpaque Kind = iota
	KindObject
	KindArray
	KindTuple
	KindReference
	KindPrimitive
	KindLiteral
	// KindTemplate is a template literal type such as `id-${string}`.
	KindTemplate
	KindUnion
	KindIntersection
	KindFunction
)

var kindNames = map[Kind]string{
	KindOpaque:       "opaque",
	KindObject:       "object",
	KindArray:        "array",
	KindTuple:        "tuple",
	KindReference:    "reference",
	KindPrimitive:    "primitive",
	KindLiteral:      "literal",
	KindTemplate:     "template",
	KindUnion:        "union",
	KindIntersection: "intersection",
	KindFunction:     "function",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return "unknown"
}

// Type is a handle on a type expression written in the model's file.
type Type struct {
	m    *Model
	expr *typemock.TypeExpr
	Kind Kind

	// At most one of the fields below is set, according to Kind.
	object  *typemock.ObjectType
	tuple   *typemock.TupleType
	elem    *typemock.TypeExpr
	owner   *Declaration
	name    string
	literal any

	// cyclic marks the opaque result of resolving a cyclic alias chain.
	cyclic bool
}

// TypeOf returns the handle for t. A nil t is an untyped property and
// reports as the opaque type any.
func (m *Model) TypeOf(t *typemock.TypeExpr) *Type {
	typ := &Type{m: m, expr: t}
	if t == nil {
		typ.Kind = KindOpaque
		typ.name = typemock.TypeAny

		return typ
	}

	core := unparen(t)

	switch {
	case len(core.Members) == 0:
		typ.Kind = KindOpaque
		return typ
	case len(core.Members) > 1:
		typ.Kind = KindUnion
		return typ
	case len(core.Members[0].Members) > 1:
		typ.Kind = KindIntersection
		return typ
	}

	p := core.Members[0].Members[0]

	if n := len(p.Dims); n > 0 {
		typ.Kind = KindArray
		typ.elem = wrap(&typemock.PostfixType{Operand: p.Operand, Dims: p.Dims[:n-1]})

		return typ
	}

	m.classifyPrimary(typ, p.Operand)

	return typ
}

func (m *Model) classifyPrimary(typ *Type, op *typemock.PrimaryType) {
	switch {
	case op == nil:
		typ.Kind = KindOpaque
	case op.Object != nil:
		typ.Kind = KindObject
		typ.object = op.Object
	case op.Tuple != nil:
		typ.Kind = KindTuple
		typ.tuple = op.Tuple
	case op.Function != nil:
		typ.Kind = KindFunction
	case op.Literal != nil && op.Literal.Template != nil:
		typ.Kind = KindTemplate
	case op.Literal != nil:
		typ.Kind = KindLiteral
		typ.literal = op.Literal.Value()
	case op.Readonly != nil:
		m.classifyReadonly(typ, op.Readonly)
	case op.KeyOf != nil, op.TypeOf != nil:
		typ.Kind = KindOpaque
	case op.Ref != nil:
		m.classifyRef(typ, op.Ref)
	default:
		typ.Kind = KindOpaque
	}
}

// classifyReadonly classifies readonly T[] and readonly [A, B] like their
// mutable forms. readonly applied to anything else is opaque.
func (m *Model) classifyReadonly(typ *Type, operand *typemock.PostfixType) {
	inner := m.TypeOf(wrap(operand))
	if inner.Kind != KindArray && inner.Kind != KindTuple {
		typ.Kind = KindOpaque
		return
	}

	typ.Kind = inner.Kind
	typ.elem = inner.elem
	typ.tuple = inner.tuple
}

func (m *Model) classifyRef(typ *Type, ref *typemock.TypeRef) {
	if elem, ok := typemock.ArrayElement(ref); ok {
		typ.Kind = KindArray
		typ.elem = elem

		return
	}

	typ.name = ref.Name()

	if !ref.IsSimple() {
		typ.Kind = KindOpaque
		return
	}

	switch name := ref.Path[0]; {
	case typemock.IsBooleanLiteral(name):
		typ.Kind = KindLiteral
		typ.literal = name == typemock.LiteralTrue
	case typemock.IsPrimitive(name):
		typ.Kind = KindPrimitive
	default:
		if d, ok := m.Lookup(name); ok {
			typ.Kind = KindReference
			typ.owner = d
		} else {
			typ.Kind = KindOpaque
		}
	}
}

// Text renders the type as written, in canonical form.
func (t *Type) Text() string {
	return typemock.FormatType(t.expr)
}

// Node returns the type expression, or nil for an untyped property.
func (t *Type) Node() *typemock.TypeExpr { return t.expr }

// Name returns the primitive keyword or the reference name, or "".
func (t *Type) Name() string { return t.name }

// Literal returns the value of a literal type: a string, a float64 or a bool.
func (t *Type) Literal() any { return t.literal }

// Owner returns the file declaration the type refers to by name, or nil.
// Aliases are not followed: a reference to an alias reports the alias.
func (t *Type) Owner() *Declaration { return t.owner }

// IsObjectShaped reports whether the type has a structural member list: an
// object literal, or a reference that resolves to one.
func (t *Type) IsObjectShaped() bool {
	return t.resolved().Kind == KindObject
}

// IsArrayShaped reports whether the type is an array or a tuple, directly or
// through an alias.
func (t *Type) IsArrayShaped() bool {
	k := t.resolved().Kind
	return k == KindArray || k == KindTuple
}

// IsCyclic reports whether t refers into an alias chain that never reaches
// a type, such as type A = B; type B = A.
func (t *Type) IsCyclic() bool {
	return t.resolved().cyclic
}

// Object returns the inline object literal of an object-literal type. It is
// nil for references even when they are object-shaped.
func (t *Type) Object() *typemock.ObjectType { return t.object }

// Properties returns the properties of an object-shaped type in source
// order, or nil.
func (t *Type) Properties() []*Property {
	r := t.resolved()
	if r.Kind != KindObject {
		return nil
	}

	return t.m.properties(r.object)
}

// Elem returns the element type of an array, or nil.
func (t *Type) Elem() *Type {
	r := t.resolved()
	if r.elem == nil {
		return nil
	}

	return t.m.TypeOf(r.elem)
}

// Elements returns the element types of a tuple, or nil.
func (t *Type) Elements() []*Type {
	r := t.resolved()
	if r.tuple == nil {
		return nil
	}

	out := make([]*Type, 0, len(r.tuple.Elements))
	for _, e := range r.tuple.Elements {
		out = append(out, t.m.TypeOf(e.Type))
	}

	return out
}

// Tuple returns the tuple node of a tuple type, directly or through an
// alias, or nil.
func (t *Type) Tuple() *typemock.TupleType { return t.resolved().tuple }

// Members returns the alternatives of a union or the parts of an
// intersection, or nil.
func (t *Type) Members() []*Type {
	core := unparen(t.expr)
	if core == nil {
		return nil
	}

	switch t.Kind {
	case KindUnion:
		out := make([]*Type, 0, len(core.Members))
		for _, in := range core.Members {
			out = append(out, t.m.TypeOf(&typemock.TypeExpr{Members: []*typemock.Intersection{in}}))
		}

		return out
	case KindIntersection:
		parts := core.Members[0].Members
		out := make([]*Type, 0, len(parts))

		for _, p := range parts {
			out = append(out, t.m.TypeOf(wrap(p)))
		}

		return out
	default:
		return nil
	}
}

// resolved follows references through interfaces and alias chains and
// returns the type they denote. Interfaces resolve to an object handle with
// the interface as owner, enums and cyclic alias chains to an opaque handle.
func (t *Type) resolved() *Type {
	seen := make(map[*Declaration]bool)
	cur := t

	for cur.Kind == KindReference {
		d := cur.owner
		if seen[d] {
			return &Type{m: t.m, Kind: KindOpaque, cyclic: true}
		}

		seen[d] = true

		switch n := d.Node.(type) {
		case *typemock.InterfaceDecl:
			return &Type{m: t.m, Kind: KindObject, owner: d, object: n.Body}
		case *typemock.TypeAliasDecl:
			cur = t.m.TypeOf(n.Type)
		default:
			return &Type{m: t.m, Kind: KindOpaque, owner: d}
		}
	}

	return cur
}

// unparen removes parentheses that wrap the whole expression.
func unparen(t *typemock.TypeExpr) *typemock.TypeExpr {
	for t != nil && len(t.Members) == 1 && len(t.Members[0].Members) == 1 {
		p := t.Members[0].Members[0]
		if len(p.Dims) > 0 || p.Operand == nil || p.Operand.Paren == nil {
			break
		}

		t = p.Operand.Paren
	}

	return t
}

func wrap(p *typemock.PostfixType) *typemock.TypeExpr {
	return &typemock.TypeExpr{
		Members: []*typemock.Intersection{{Members: []*typemock.PostfixType{p}}},
	}
}
