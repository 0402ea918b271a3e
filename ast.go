// Package typemock parses TypeScript declaration sources into an AST and
// describes declaration shapes as serializable schemas.
package typemock

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// =============================================================================
// Common embedded types for AST nodes
// =============================================================================

// NodeMeta contains position information common to all AST nodes.
// Participle automatically populates these fields during parsing.
type NodeMeta struct {
	Pos    lexer.Position `parser:""`
	EndPos lexer.Position `parser:""`
}

// Span returns the source span of this node.
func (n *NodeMeta) Span() Span { return Span{Start: n.Pos, End: n.EndPos} }

// DocMeta holds the JSDoc blocks attached to a node (populated after parsing).
type DocMeta struct {
	DocComments []string `parser:""`
}

// Doc returns the description text of the attached JSDoc blocks, joined by
// newlines. It is empty when the node has no JSDoc.
func (d *DocMeta) Doc() string {
	parts := make([]string, 0, len(d.DocComments))
	for _, c := range d.DocComments {
		parts = append(parts, JSDocText(c))
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span
}

// Documented is implemented by nodes that can carry JSDoc.
type Documented interface {
	Node
	Docs() *DocMeta
}

// =============================================================================
// Top-level AST nodes
// =============================================================================

// File is a parsed declaration source.
type File struct {
	NodeMeta

	Statements []*Statement `parser:"@@*"`
}

// Statement is one top-level statement. Exactly one field is set.
type Statement struct {
	NodeMeta

	Import    *Import        `parser:"  @@"`
	Interface *InterfaceDecl `parser:"| @@"`
	TypeAlias *TypeAliasDecl `parser:"| @@"`
	Enum      *EnumDecl      `parser:"| @@"`
	Empty     bool           `parser:"| @';'"`
}

// Import is an import statement. Imports are parsed so that files using them
// load, but imported names are never resolved.
//
//	import type { Address } from "./address"
//	import * as shared from "./shared"
type Import struct {
	NodeMeta

	TypeOnly bool          `parser:"'import' @'type'?"`
	Clause   *ImportClause `parser:"( @@ 'from' )?"`
	From     string        `parser:"@String ';'?"`
}

// ImportClause lists the bindings introduced by an import.
type ImportClause struct {
	NodeMeta

	Default   *string       `parser:"( @Ident ','? )?"`
	Names     []*ImportSpec `parser:"( '{' ( @@ ( ',' @@ )* ','? )? '}' )?"`
	Namespace *string       `parser:"( '*' 'as' @Ident )?"`
}

// ImportSpec is one named import binding.
type ImportSpec struct {
	NodeMeta

	Name  string  `parser:"@Ident"`
	Alias *string `parser:"( 'as' @Ident )?"`
}

// InterfaceDecl is an interface declaration.
//
//	export interface UserProfile extends Entity {
//	  id: string;
//	}
type InterfaceDecl struct {
	NodeMeta
	DocMeta

	Export     bool         `parser:"@'export'? 'declare'?"`
	Name       string       `parser:"'interface' @Ident"`
	TypeParams []*TypeParam `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Extends    []*TypeRef   `parser:"( 'extends' @@ ( ',' @@ )* )?"`
	Body       *ObjectType  `parser:"@@"`
}

// Docs implements Documented.
func (d *InterfaceDecl) Docs() *DocMeta { return &d.DocMeta }

// TypeAliasDecl is a type alias declaration.
//
//	export type Level = "bronze" | "silver";
type TypeAliasDecl struct {
	NodeMeta
	DocMeta

	Export     bool         `parser:"@'export'? 'declare'?"`
	Name       string       `parser:"'type' @Ident"`
	TypeParams []*TypeParam `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Type       *TypeExpr    `parser:"'=' @@ ';'?"`
}

// Docs implements Documented.
func (d *TypeAliasDecl) Docs() *DocMeta { return &d.DocMeta }

// EnumDecl is an enum declaration.
type EnumDecl struct {
	NodeMeta
	DocMeta

	Export  bool          `parser:"@'export'? 'declare'?"`
	Const   bool          `parser:"@'const'?"`
	Name    string        `parser:"'enum' @Ident '{'"`
	Members []*EnumMember `parser:"( @@ ( ',' @@ )* ','? )? '}'"`
}

// Docs implements Documented.
func (d *EnumDecl) Docs() *DocMeta { return &d.DocMeta }

// EnumMember is one enum member with an optional initializer.
type EnumMember struct {
	NodeMeta
	DocMeta

	Name  *PropName `parser:"@@"`
	Value *Literal  `parser:"( '=' @@ )?"`
}

// Docs implements Documented.
func (m *EnumMember) Docs() *DocMeta { return &m.DocMeta }

// TypeParam is a generic type parameter.
type TypeParam struct {
	NodeMeta

	Name       string    `parser:"@Ident"`
	Constraint *TypeExpr `parser:"( 'extends' @@ )?"`
	Default    *TypeExpr `parser:"( '=' @@ )?"`
}

// =============================================================================
// Object members
// =============================================================================

// ObjectType is a brace-delimited member list: an interface body or an
// inline object literal type.
type ObjectType struct {
	NodeMeta

	Members []*Member `parser:"'{' ( ';' | ',' )* @@* '}'"`
}

// Properties returns the property signatures in source order, skipping
// methods and index signatures.
func (o *ObjectType) Properties() []*PropertySignature {
	if o == nil {
		return nil
	}

	props := make([]*PropertySignature, 0, len(o.Members))
	for _, m := range o.Members {
		if m.Property != nil {
			props = append(props, m.Property)
		}
	}

	return props
}

// Member is one member of an object type. Exactly one of Index, Method and
// Property is set. Separated records a trailing ';' or ','; a member without
// one must be followed by a line break or the closing brace.
type Member struct {
	NodeMeta

	Index     *IndexSignature    `parser:"(   @@"`
	Method    *MethodSignature   `parser:"  | @@"`
	Property  *PropertySignature `parser:"  | @@ )"`
	Separated bool               `parser:"( @( ';' | ',' ) ( ';' | ',' )* )?"`
}

// IndexSignature is a member like [key: string]: T.
type IndexSignature struct {
	NodeMeta

	Readonly bool      `parser:"( @'readonly' (?= '[') )?"`
	Key      string    `parser:"'[' @Ident ':'"`
	KeyType  *TypeExpr `parser:"@@ ']'"`
	Type     *TypeExpr `parser:"':' @@"`
}

// MethodSignature is a member like name(arg: T): R.
type MethodSignature struct {
	NodeMeta

	Name       *PropName    `parser:"@@"`
	Optional   bool         `parser:"@'?'?"`
	TypeParams []*TypeParam `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Params     []*Param     `parser:"'(' ( @@ ( ',' @@ )* ','? )? ')'"`
	Returns    *TypeExpr    `parser:"( ':' @@ )?"`
}

// PropertySignature is a member like readonly name?: T.
type PropertySignature struct {
	NodeMeta
	DocMeta

	Readonly bool      `parser:"( @'readonly' (?= Ident | String | Number) )?"`
	Name     *PropName `parser:"@@"`
	Optional bool      `parser:"@'?'?"`
	Type     *TypeExpr `parser:"( ':' @@ )?"`
}

// Docs implements Documented.
func (p *PropertySignature) Docs() *DocMeta { return &p.DocMeta }

// PropName is a member name: an identifier, a string literal or a number.
type PropName struct {
	NodeMeta

	Ident  *string `parser:"  @Ident"`
	String *string `parser:"| @String"`
	Number *string `parser:"| @Number"`
}

// Text returns the name with string quotes removed.
func (n *PropName) Text() string {
	switch {
	case n == nil:
		return ""
	case n.Ident != nil:
		return *n.Ident
	case n.String != nil:
		return unquote(*n.String)
	case n.Number != nil:
		return *n.Number
	default:
		return ""
	}
}

// Param is a function or method parameter.
type Param struct {
	NodeMeta

	Rest     bool      `parser:"@'...'?"`
	Name     string    `parser:"@Ident"`
	Optional bool      `parser:"@'?'?"`
	Type     *TypeExpr `parser:"( ':' @@ )?"`
}

// =============================================================================
// Type expressions
// =============================================================================

// TypeExpr is a union of one or more intersections.
//
//	"light" | "dark"
type TypeExpr struct {
	NodeMeta

	Members []*Intersection `parser:"'|'? @@ ( '|' @@ )*"`
}

// Intersection is an intersection of one or more postfix types.
type Intersection struct {
	NodeMeta

	Members []*PostfixType `parser:"'&'? @@ ( '&' @@ )*"`
}

// PostfixType is an operand followed by zero or more [] suffixes.
type PostfixType struct {
	NodeMeta

	Operand *PrimaryType `parser:"@@"`
	Dims    []string     `parser:"( @'[' ']' )*"`
}

// PrimaryType is a type operand. Exactly one field is set.
type PrimaryType struct {
	NodeMeta

	Object   *ObjectType   `parser:"  @@"`
	Tuple    *TupleType    `parser:"| @@"`
	Function *FunctionType `parser:"| @@"`
	Paren    *TypeExpr     `parser:"| '(' @@ ')'"`
	Literal  *Literal      `parser:"| @@"`
	Readonly *PostfixType  `parser:"| 'readonly' @@"`
	KeyOf    *PostfixType  `parser:"| 'keyof' @@"`
	TypeOf   *TypeQuery    `parser:"| 'typeof' @@"`
	Ref      *TypeRef      `parser:"| @@"`
}

// TupleType is a tuple type like [string, number?].
type TupleType struct {
	NodeMeta

	Elements []*TupleElement `parser:"'[' ( @@ ( ',' @@ )* ','? )? ']'"`
}

// TupleElement is one element of a tuple type.
type TupleElement struct {
	NodeMeta

	Rest     bool      `parser:"@'...'?"`
	Type     *TypeExpr `parser:"@@"`
	Optional bool      `parser:"@'?'?"`
}

// FunctionType is a type like (a: string) => void.
type FunctionType struct {
	NodeMeta

	TypeParams []*TypeParam `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Params     []*Param     `parser:"'(' ( @@ ( ',' @@ )* ','? )? ')'"`
	Returns    *TypeExpr    `parser:"'=>' @@"`
}

// Literal is a string, template or number literal type.
type Literal struct {
	NodeMeta

	String   *string `parser:"  @String"`
	Template *string `parser:"| @Template"`
	Number   *string `parser:"| @( '-'? Number )"`
}

// Value returns the literal as a Go value: string for string literals,
// float64 for numbers that parse, and the raw text otherwise.
func (l *Literal) Value() any {
	switch {
	case l == nil:
		return nil
	case l.String != nil:
		return unquote(*l.String)
	case l.Number != nil:
		text := strings.ReplaceAll(*l.Number, "_", "")
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}

		return *l.Number
	case l.Template != nil:
		return *l.Template
	default:
		return nil
	}
}

// TypeQuery is the operand of typeof.
type TypeQuery struct {
	NodeMeta

	Path []string `parser:"@Ident ( '.' @Ident )*"`
}

// TypeRef is a possibly qualified, possibly generic type reference.
//
//	Address
//	ns.Address
//	Array<string>
type TypeRef struct {
	NodeMeta

	Path []string    `parser:"@Ident ( '.' @Ident )*"`
	Args []*TypeExpr `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
}

// Name returns the dotted reference name without type arguments.
func (r *TypeRef) Name() string {
	if r == nil {
		return ""
	}

	return strings.Join(r.Path, ".")
}

// IsSimple reports whether the reference is a single unqualified name
// without type arguments.
func (r *TypeRef) IsSimple() bool {
	return r != nil && len(r.Path) == 1 && len(r.Args) == 0
}

// unquote removes the quotes of a single- or double-quoted string literal and
// resolves its escapes. Malformed input is returned without its quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}

	quote := s[0]
	body := s[1 : len(s)-1]

	var b strings.Builder

	for body != "" {
		r, _, tail, err := strconv.UnquoteChar(body, quote)
		if err != nil {
			return s[1 : len(s)-1]
		}

		b.WriteRune(r)
		body = tail
	}

	return b.String()
}
