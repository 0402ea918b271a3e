package extract

import (
	"go.uber.org/zap"

	"github.com/rlch/typemock"
	"github.com/rlch/typemock/model"
)

// Build builds the schema of a located declaration. It never fails: missing
// docs are empty strings and a declaration without properties has an empty,
// non-nil field list.
func (e *Extractor) Build(h *Handle) *typemock.InterfaceSchema {
	b := &builder{
		log:      e.log.With(zap.String("declaration", h.Name())),
		visiting: make(map[*typemock.ObjectType]bool),
	}

	if obj := h.Model.Object(h.Decl); obj != nil {
		b.visiting[obj] = true
	}

	return &typemock.InterfaceSchema{
		Name:   h.Decl.Name,
		Docs:   h.Decl.Docs,
		Fields: b.fields(h.Model.Properties(h.Decl)),
	}
}

// BuildAll builds the schemas of handles in order.
func (e *Extractor) BuildAll(handles []*Handle) []*typemock.InterfaceSchema {
	out := make([]*typemock.InterfaceSchema, 0, len(handles))
	for _, h := range handles {
		out = append(out, e.Build(h))
	}

	return out
}

type builder struct {
	log *zap.Logger

	// visiting holds the object literals on the current recursion path.
	visiting map[*typemock.ObjectType]bool
}

func (b *builder) fields(props []*model.Property) []*typemock.FieldSchema {
	out := make([]*typemock.FieldSchema, 0, len(props))
	for _, p := range props {
		out = append(out, b.field(p))
	}

	return out
}

func (b *builder) field(p *model.Property) *typemock.FieldSchema {
	fs := &typemock.FieldSchema{
		Name:       p.Name,
		Type:       p.Type.Text(),
		Docs:       p.Docs,
		IsRequired: !p.Optional,
	}

	obj, ok := b.classifyForRecursion(p.Type)
	if !ok {
		return fs
	}

	b.log.Debug("expanding inline object", zap.String("field", p.Name))

	b.visiting[obj] = true
	fs.Children = b.fields(p.Type.Properties())
	delete(b.visiting, obj)

	return fs
}

// classifyForRecursion returns the inline object literal to expand for t, or
// false when t is terminal: not object-shaped, array-shaped, a named
// declaration, empty, or already being expanded.
func (b *builder) classifyForRecursion(t *model.Type) (*typemock.ObjectType, bool) {
	if !t.IsObjectShaped() || t.IsArrayShaped() {
		return nil, false
	}

	if t.Owner() != nil {
		return nil, false
	}

	obj := t.Object()
	if obj == nil || len(obj.Properties()) == 0 {
		return nil, false
	}

	if b.visiting[obj] {
		b.log.Debug("skipping object already being expanded")
		return nil, false
	}

	return obj, true
}
