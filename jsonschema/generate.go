// Package jsonschema converts located declarations into JSON Schema
// (Draft 2020-12) documents and validates sample data against them.
package jsonschema

import (
	"github.com/invopop/jsonschema"

	"github.com/rlch/typemock"
	"github.com/rlch/typemock/extract"
	"github.com/rlch/typemock/model"
)

// Generate returns the JSON Schema of a located declaration. Named file
// declarations referenced from it are emitted once under $defs and
// referenced with $ref, so recursive declarations terminate.
func Generate(h *extract.Handle) *jsonschema.Schema {
	g := &generator{
		m:        h.Model,
		defs:     jsonschema.Definitions{},
		queued:   make(map[*model.Declaration]bool),
		visiting: make(map[*typemock.ObjectType]bool),
	}

	root := g.declaration(h.Decl)
	root.Version = jsonschema.Version

	for len(g.queue) > 0 {
		d := g.queue[0]
		g.queue = g.queue[1:]
		g.defs[d.Name] = g.declaration(d)
	}

	if len(g.defs) > 0 {
		root.Definitions = g.defs
	}

	return root
}

type generator struct {
	m    *model.Model
	defs jsonschema.Definitions

	queue  []*model.Declaration
	queued map[*model.Declaration]bool

	visiting map[*typemock.ObjectType]bool
}

func (g *generator) declaration(d *model.Declaration) *jsonschema.Schema {
	var s *jsonschema.Schema

	switch n := d.Node.(type) {
	case *typemock.InterfaceDecl:
		s = g.object(n.Body, g.m.Properties(d))
	case *typemock.TypeAliasDecl:
		s = g.typ(g.m.TypeOf(n.Type))
	case *typemock.EnumDecl:
		s = &jsonschema.Schema{Enum: g.m.EnumValues(d)}
	default:
		s = &jsonschema.Schema{}
	}

	s.Title = d.Name
	s.Description = d.Docs

	return s
}

func (g *generator) ref(d *model.Declaration) *jsonschema.Schema {
	if !g.queued[d] {
		g.queued[d] = true
		g.queue = append(g.queue, d)
	}

	return &jsonschema.Schema{Ref: "#/$defs/" + d.Name}
}

//nolint:gocyclo,cyclop // One case per type kind.
func (g *generator) typ(t *model.Type) *jsonschema.Schema {
	switch t.Kind {
	case model.KindReference:
		if t.IsCyclic() {
			return &jsonschema.Schema{Description: t.Text()}
		}

		return g.ref(t.Owner())
	case model.KindPrimitive:
		return primitive(t.Name())
	case model.KindLiteral:
		return &jsonschema.Schema{Const: t.Literal()}
	case model.KindTemplate:
		return &jsonschema.Schema{Type: "string", Description: t.Text()}
	case model.KindObject:
		return g.object(t.Object(), t.Properties())
	case model.KindArray:
		return &jsonschema.Schema{Type: "array", Items: g.typ(t.Elem())}
	case model.KindTuple:
		return g.tuple(t)
	case model.KindUnion:
		return g.union(t.Members())
	case model.KindIntersection:
		return g.intersection(t)
	default:
		return &jsonschema.Schema{Description: t.Text()}
	}
}

// primitive maps a keyword type to its JSON Schema.
func primitive(name string) *jsonschema.Schema {
	switch name {
	case typemock.TypeString:
		return &jsonschema.Schema{Type: "string"}
	case typemock.TypeNumber:
		return &jsonschema.Schema{Type: "number"}
	case typemock.TypeBigInt:
		return &jsonschema.Schema{Type: "integer"}
	case typemock.TypeBoolean:
		return &jsonschema.Schema{Type: "boolean"}
	case typemock.TypeNull:
		return &jsonschema.Schema{Type: "null"}
	case typemock.TypeObject:
		return &jsonschema.Schema{Type: "object"}
	case typemock.TypeUndefined, typemock.TypeNever, typemock.TypeVoid:
		return &jsonschema.Schema{Not: &jsonschema.Schema{}}
	default:
		return &jsonschema.Schema{}
	}
}

func (g *generator) object(obj *typemock.ObjectType, props []*model.Property) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:                 "object",
		AdditionalProperties: jsonschema.FalseSchema,
	}

	if obj != nil {
		if g.visiting[obj] {
			return &jsonschema.Schema{Type: "object"}
		}

		g.visiting[obj] = true
		defer delete(g.visiting, obj)
	}

	if len(props) == 0 {
		return s
	}

	s.Properties = jsonschema.NewProperties()

	for _, p := range props {
		ps := g.typ(p.Type)
		if p.Docs != "" {
			ps.Description = p.Docs
		}

		if p.Readonly {
			ps.ReadOnly = true
		}

		s.Properties.Set(p.Name, ps)

		if !p.Optional {
			s.Required = append(s.Required, p.Name)
		}
	}

	return s
}

func (g *generator) tuple(t *model.Type) *jsonschema.Schema {
	elems := t.Elements()
	nodes := t.Tuple().Elements

	s := &jsonschema.Schema{Type: "array"}

	var minItems uint64

	for i, e := range elems {
		node := nodes[i]
		if node.Rest {
			if inner := e.Elem(); inner != nil {
				s.Items = g.typ(inner)
			}

			break
		}

		s.PrefixItems = append(s.PrefixItems, g.typ(e))

		if !node.Optional {
			minItems++
		}
	}

	if minItems > 0 {
		s.MinItems = &minItems
	}

	if s.Items == nil {
		maxItems := uint64(len(s.PrefixItems))
		s.MaxItems = &maxItems
		s.Items = jsonschema.FalseSchema
	}

	return s
}

// union renders literal unions as enum and anything else as anyOf.
// undefined alternatives are dropped: an absent value is expressed by
// leaving the property out of required.
func (g *generator) union(members []*model.Type) *jsonschema.Schema {
	var (
		kept   []*model.Type
		values []any
	)

	allLiteral := true

	for _, m := range members {
		if m.Kind == model.KindPrimitive && m.Name() == typemock.TypeUndefined {
			continue
		}

		kept = append(kept, m)

		switch {
		case m.Kind == model.KindLiteral:
			values = appendUnique(values, m.Literal())
		case m.Kind == model.KindPrimitive && m.Name() == typemock.TypeNull:
			values = appendUnique(values, nil)
		default:
			allLiteral = false
		}
	}

	switch {
	case len(kept) == 0:
		return primitive(typemock.TypeUndefined)
	case len(kept) == 1:
		return g.typ(kept[0])
	case allLiteral:
		return &jsonschema.Schema{Enum: values}
	}

	s := &jsonschema.Schema{}
	for _, m := range kept {
		s.AnyOf = append(s.AnyOf, g.typ(m))
	}

	return s
}

func appendUnique(values []any, v any) []any {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}

	return append(values, v)
}

// intersection merges object-shaped parts into one object. Other
// intersections become allOf.
func (g *generator) intersection(t *model.Type) *jsonschema.Schema {
	parts := t.Members()

	var props []*model.Property

	for _, p := range parts {
		if !p.IsObjectShaped() {
			s := &jsonschema.Schema{}
			for _, part := range parts {
				s.AllOf = append(s.AllOf, g.typ(part))
			}

			return s
		}

		props = append(props, p.Properties()...)
	}

	return g.object(nil, mergeProperties(props))
}

// mergeProperties keeps the last declaration of each property name at the
// position of its first appearance.
func mergeProperties(props []*model.Property) []*model.Property {
	index := make(map[string]int, len(props))
	out := make([]*model.Property, 0, len(props))

	for _, p := range props {
		if i, ok := index[p.Name]; ok {
			out[i] = p
			continue
		}

		index[p.Name] = len(out)
		out = append(out, p)
	}

	return out
}
