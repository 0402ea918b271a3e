package typemock

import (
	"strconv"
	"strings"
)

// Format formats a parsed File back into declaration source. Imports come
// first, then interfaces, type aliases and enums in source order, separated
// by blank lines. JSDoc blocks are kept; other comments are not.
func Format(file *File) string {
	var b strings.Builder

	f := &formatter{b: &b}
	f.formatFile(file)

	return strings.TrimSpace(b.String()) + "\n"
}

// FormatType renders a type expression in canonical form: one line, single
// spaces around | and &, Array<T> written as T[], string literals
// double-quoted and object members terminated by "; ".
func FormatType(t *TypeExpr) string {
	if t == nil {
		return TypeAny
	}

	var b strings.Builder

	f := &formatter{b: &b}
	f.typeExpr(t)

	return b.String()
}

// String implements fmt.Stringer using FormatType.
func (t *TypeExpr) String() string { return FormatType(t) }

// String renders the postfix type in canonical form.
func (p *PostfixType) String() string {
	var b strings.Builder

	f := &formatter{b: &b}
	f.postfix(p)

	return b.String()
}

type formatter struct {
	b      *strings.Builder
	indent int

	// open holds the object literals being written, so that a cyclic
	// hand-built AST renders instead of recursing forever.
	open map[*ObjectType]bool
}

func (f *formatter) write(s string) {
	f.b.WriteString(s)
}

func (f *formatter) writeLine(s string) {
	f.writeIndent()
	f.write(s)
	f.write("\n")
}

func (f *formatter) writeIndent() {
	for range f.indent {
		f.write("  ")
	}
}

func (f *formatter) blankLine() {
	f.write("\n")
}

func (f *formatter) writeDocs(d *DocMeta) {
	for _, c := range d.DocComments {
		for _, line := range strings.Split(c, "\n") {
			f.writeLine(strings.TrimSpace(line))
		}
	}
}

// =============================================================================
// Declarations
// =============================================================================

func (f *formatter) formatFile(file *File) {
	if file == nil {
		return
	}

	imports := 0

	for _, s := range file.Statements {
		if s.Import != nil {
			f.formatImport(s.Import)
			imports++
		}
	}

	first := imports == 0

	for _, s := range file.Statements {
		if s.Import != nil || s.Empty {
			continue
		}

		if !first {
			f.blankLine()
		}

		first = false

		switch {
		case s.Interface != nil:
			f.formatInterface(s.Interface)
		case s.TypeAlias != nil:
			f.formatTypeAlias(s.TypeAlias)
		case s.Enum != nil:
			f.formatEnum(s.Enum)
		}
	}
}

func (f *formatter) formatImport(imp *Import) {
	f.write("import ")

	if imp.TypeOnly {
		f.write("type ")
	}

	if c := imp.Clause; c != nil {
		var parts []string

		if c.Default != nil {
			parts = append(parts, *c.Default)
		}

		if c.Namespace != nil {
			parts = append(parts, "* as "+*c.Namespace)
		}

		if len(c.Names) > 0 {
			names := make([]string, 0, len(c.Names))
			for _, n := range c.Names {
				if n.Alias != nil {
					names = append(names, n.Name+" as "+*n.Alias)
				} else {
					names = append(names, n.Name)
				}
			}

			parts = append(parts, "{ "+strings.Join(names, ", ")+" }")
		}

		f.write(strings.Join(parts, ", "))
		f.write(" from ")
	}

	f.write(strconv.Quote(unquote(imp.From)))
	f.write(";\n")
}

func (f *formatter) declPrefix(export bool) {
	f.writeIndent()

	if export {
		f.write("export ")
	}
}

func (f *formatter) formatInterface(d *InterfaceDecl) {
	f.writeDocs(&d.DocMeta)
	f.declPrefix(d.Export)
	f.write("interface ")
	f.write(d.Name)
	f.typeParams(d.TypeParams)

	if len(d.Extends) > 0 {
		f.write(" extends ")

		for i, e := range d.Extends {
			if i > 0 {
				f.write(", ")
			}

			f.typeRef(e)
		}
	}

	f.write(" ")
	f.formatBody(d.Body)
	f.write("\n")
}

func (f *formatter) formatTypeAlias(d *TypeAliasDecl) {
	f.writeDocs(&d.DocMeta)
	f.declPrefix(d.Export)
	f.write("type ")
	f.write(d.Name)
	f.typeParams(d.TypeParams)
	f.write(" = ")

	if obj := ObjectLiteral(d.Type); obj != nil {
		f.formatBody(obj)
		f.write(";\n")

		return
	}

	f.typeExpr(d.Type)
	f.write(";\n")
}

func (f *formatter) formatEnum(d *EnumDecl) {
	f.writeDocs(&d.DocMeta)
	f.declPrefix(d.Export)

	if d.Const {
		f.write("const ")
	}

	f.write("enum ")
	f.write(d.Name)

	if len(d.Members) == 0 {
		f.write(" {}\n")
		return
	}

	f.write(" {\n")
	f.indent++

	for _, m := range d.Members {
		f.writeDocs(&m.DocMeta)
		f.writeIndent()
		f.propName(m.Name)

		if m.Value != nil {
			f.write(" = ")
			f.literal(m.Value)
		}

		f.write(",\n")
	}

	f.indent--
	f.writeLine("}")
}

// formatBody writes a multi-line object body, one member per line.
func (f *formatter) formatBody(o *ObjectType) {
	if o == nil || len(o.Members) == 0 {
		f.write("{}")
		return
	}

	f.write("{\n")
	f.indent++

	for _, m := range o.Members {
		if m.Property != nil {
			f.writeDocs(&m.Property.DocMeta)
		}

		f.writeIndent()
		f.member(m)
		f.write(";\n")
	}

	f.indent--
	f.writeIndent()
	f.write("}")
}

// ObjectLiteral returns the inline object literal t denotes once
// parentheses are removed, or nil when t is anything else.
func ObjectLiteral(t *TypeExpr) *ObjectType {
	for t != nil {
		if len(t.Members) != 1 || len(t.Members[0].Members) != 1 {
			return nil
		}

		p := t.Members[0].Members[0]
		if len(p.Dims) > 0 || p.Operand == nil {
			return nil
		}

		switch {
		case p.Operand.Object != nil:
			return p.Operand.Object
		case p.Operand.Paren != nil:
			t = p.Operand.Paren
		default:
			return nil
		}
	}

	return nil
}

// =============================================================================
// Type expressions
// =============================================================================

func (f *formatter) typeExpr(t *TypeExpr) {
	if t == nil {
		f.write(TypeAny)
		return
	}

	for i, m := range t.Members {
		if i > 0 {
			f.write(" | ")
		}

		f.intersection(m)
	}
}

func (f *formatter) intersection(in *Intersection) {
	for i, m := range in.Members {
		if i > 0 {
			f.write(" & ")
		}

		f.postfix(m)
	}
}

func (f *formatter) postfix(p *PostfixType) {
	if len(p.Dims) > 0 && p.Operand != nil && p.Operand.Paren == nil && primaryNeedsParens(p.Operand) {
		f.write("(")
		f.primary(p.Operand)
		f.write(")")
	} else {
		f.primary(p.Operand)
	}

	for range p.Dims {
		f.write("[]")
	}
}

// primary writes p. Parentheses are kept only around compound types.
func (f *formatter) primary(p *PrimaryType) {
	switch {
	case p == nil:
		f.write(TypeAny)
	case p.Object != nil:
		f.objectInline(p.Object)
	case p.Tuple != nil:
		f.tuple(p.Tuple)
	case p.Function != nil:
		f.function(p.Function)
	case p.Paren != nil:
		if exprNeedsParens(p.Paren) {
			f.write("(")
			f.typeExpr(p.Paren)
			f.write(")")
		} else {
			f.typeExpr(p.Paren)
		}
	case p.Literal != nil:
		f.literal(p.Literal)
	case p.Readonly != nil:
		f.write("readonly ")
		f.postfix(p.Readonly)
	case p.KeyOf != nil:
		f.write("keyof ")
		f.postfix(p.KeyOf)
	case p.TypeOf != nil:
		f.write("typeof ")
		f.write(strings.Join(p.TypeOf.Path, "."))
	case p.Ref != nil:
		f.typeRef(p.Ref)
	default:
		f.write(TypeAny)
	}
}

func (f *formatter) objectInline(o *ObjectType) {
	if len(o.Members) == 0 {
		f.write("{}")
		return
	}

	if f.open[o] {
		f.write("{ ... }")
		return
	}

	if f.open == nil {
		f.open = make(map[*ObjectType]bool)
	}

	f.open[o] = true
	defer delete(f.open, o)

	f.write("{ ")

	for _, m := range o.Members {
		f.member(m)
		f.write("; ")
	}

	f.write("}")
}

func (f *formatter) member(m *Member) {
	switch {
	case m.Property != nil:
		p := m.Property
		if p.Readonly {
			f.write("readonly ")
		}

		f.propName(p.Name)

		if p.Optional {
			f.write("?")
		}

		f.write(": ")
		f.typeExpr(p.Type)
	case m.Method != nil:
		me := m.Method
		f.propName(me.Name)

		if me.Optional {
			f.write("?")
		}

		f.typeParams(me.TypeParams)
		f.params(me.Params)

		if me.Returns != nil {
			f.write(": ")
			f.typeExpr(me.Returns)
		}
	case m.Index != nil:
		ix := m.Index
		if ix.Readonly {
			f.write("readonly ")
		}

		f.write("[" + ix.Key + ": ")
		f.typeExpr(ix.KeyType)
		f.write("]: ")
		f.typeExpr(ix.Type)
	}
}

func (f *formatter) propName(n *PropName) {
	switch {
	case n == nil:
	case n.String != nil:
		f.write(strconv.Quote(unquote(*n.String)))
	default:
		f.write(n.Text())
	}
}

func (f *formatter) tuple(t *TupleType) {
	f.write("[")

	for i, e := range t.Elements {
		if i > 0 {
			f.write(", ")
		}

		if e.Rest {
			f.write("...")
		}

		f.typeExpr(e.Type)

		if e.Optional {
			f.write("?")
		}
	}

	f.write("]")
}

func (f *formatter) function(fn *FunctionType) {
	f.typeParams(fn.TypeParams)
	f.params(fn.Params)
	f.write(" => ")
	f.typeExpr(fn.Returns)
}

func (f *formatter) params(params []*Param) {
	f.write("(")

	for i, p := range params {
		if i > 0 {
			f.write(", ")
		}

		if p.Rest {
			f.write("...")
		}

		f.write(p.Name)

		if p.Optional {
			f.write("?")
		}

		if p.Type != nil {
			f.write(": ")
			f.typeExpr(p.Type)
		}
	}

	f.write(")")
}

func (f *formatter) typeParams(params []*TypeParam) {
	if len(params) == 0 {
		return
	}

	f.write("<")

	for i, p := range params {
		if i > 0 {
			f.write(", ")
		}

		f.write(p.Name)

		if p.Constraint != nil {
			f.write(" extends ")
			f.typeExpr(p.Constraint)
		}

		if p.Default != nil {
			f.write(" = ")
			f.typeExpr(p.Default)
		}
	}

	f.write(">")
}

func (f *formatter) literal(l *Literal) {
	switch {
	case l.String != nil:
		f.write(strconv.Quote(unquote(*l.String)))
	case l.Template != nil:
		f.write(*l.Template)
	case l.Number != nil:
		f.write(*l.Number)
	}
}

// typeRef writes a reference. Array<T> becomes T[] and ReadonlyArray<T>
// becomes readonly T[].
func (f *formatter) typeRef(r *TypeRef) {
	if elem, readonly, ok := arrayArg(r); ok {
		if readonly {
			f.write("readonly ")
		}

		f.arrayElem(elem)
		f.write("[]")

		return
	}

	f.write(r.Name())

	if len(r.Args) == 0 {
		return
	}

	f.write("<")

	for i, a := range r.Args {
		if i > 0 {
			f.write(", ")
		}

		f.typeExpr(a)
	}

	f.write(">")
}

func (f *formatter) arrayElem(t *TypeExpr) {
	if exprNeedsParens(t) {
		f.write("(")
		f.typeExpr(t)
		f.write(")")

		return
	}

	f.typeExpr(t)
}

// arrayArg reports whether r is Array<T> or ReadonlyArray<T> and returns T.
func arrayArg(r *TypeRef) (elem *TypeExpr, readonly, ok bool) {
	if r == nil || len(r.Path) != 1 || len(r.Args) != 1 {
		return nil, false, false
	}

	switch r.Path[0] {
	case GenericArray:
		return r.Args[0], false, true
	case GenericReadonlyArray:
		return r.Args[0], true, true
	default:
		return nil, false, false
	}
}

// ArrayElement reports whether r is Array<T> or ReadonlyArray<T> and
// returns T.
func ArrayElement(r *TypeRef) (*TypeExpr, bool) {
	elem, _, ok := arrayArg(r)
	return elem, ok
}

// exprNeedsParens reports whether t must be parenthesized when followed by
// [] or used as an array element.
func exprNeedsParens(t *TypeExpr) bool {
	if t == nil {
		return false
	}

	if len(t.Members) != 1 || len(t.Members[0].Members) != 1 {
		return true
	}

	p := t.Members[0].Members[0]
	if len(p.Dims) > 0 {
		return false
	}

	return primaryNeedsParens(p.Operand)
}

func primaryNeedsParens(p *PrimaryType) bool {
	switch {
	case p == nil:
		return false
	case p.Function != nil, p.KeyOf != nil, p.Readonly != nil:
		return true
	case p.Paren != nil:
		return exprNeedsParens(p.Paren)
	case p.Ref != nil:
		_, readonly, ok := arrayArg(p.Ref)
		return ok && readonly
	default:
		return false
	}
}
