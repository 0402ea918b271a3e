package typemock

// Inspect traverses the AST rooted at node in depth-first source order,
// calling fn for every non-nil node. If fn returns false, the children of
// that node are skipped.
func Inspect(node Node, fn func(Node) bool) {
	if isNilNode(node) || !fn(node) {
		return
	}

	for _, child := range children(node) {
		Inspect(child, fn)
	}
}

//nolint:gocyclo,cyclop // One case per node type.
func children(node Node) []Node {
	var out []Node

	add := func(n Node) {
		if !isNilNode(n) {
			out = append(out, n)
		}
	}

	switch n := node.(type) {
	case *File:
		for _, s := range n.Statements {
			add(s)
		}
	case *Statement:
		add(n.Import)
		add(n.Interface)
		add(n.TypeAlias)
		add(n.Enum)
	case *Import:
		add(n.Clause)
	case *ImportClause:
		for _, s := range n.Names {
			add(s)
		}
	case *InterfaceDecl:
		for _, p := range n.TypeParams {
			add(p)
		}

		for _, e := range n.Extends {
			add(e)
		}

		add(n.Body)
	case *TypeAliasDecl:
		for _, p := range n.TypeParams {
			add(p)
		}

		add(n.Type)
	case *EnumDecl:
		for _, m := range n.Members {
			add(m)
		}
	case *EnumMember:
		add(n.Name)
		add(n.Value)
	case *TypeParam:
		add(n.Constraint)
		add(n.Default)
	case *ObjectType:
		for _, m := range n.Members {
			add(m)
		}
	case *Member:
		add(n.Index)
		add(n.Method)
		add(n.Property)
	case *IndexSignature:
		add(n.KeyType)
		add(n.Type)
	case *MethodSignature:
		add(n.Name)

		for _, p := range n.TypeParams {
			add(p)
		}

		for _, p := range n.Params {
			add(p)
		}

		add(n.Returns)
	case *PropertySignature:
		add(n.Name)
		add(n.Type)
	case *Param:
		add(n.Type)
	case *TypeExpr:
		for _, m := range n.Members {
			add(m)
		}
	case *Intersection:
		for _, m := range n.Members {
			add(m)
		}
	case *PostfixType:
		add(n.Operand)
	case *PrimaryType:
		add(n.Object)
		add(n.Tuple)
		add(n.Function)
		add(n.Paren)
		add(n.Literal)
		add(n.Readonly)
		add(n.KeyOf)
		add(n.TypeOf)
		add(n.Ref)
	case *TupleType:
		for _, e := range n.Elements {
			add(e)
		}
	case *TupleElement:
		add(n.Type)
	case *FunctionType:
		for _, p := range n.TypeParams {
			add(p)
		}

		for _, p := range n.Params {
			add(p)
		}

		add(n.Returns)
	case *TypeRef:
		for _, a := range n.Args {
			add(a)
		}
	}

	return out
}

// isNilNode reports whether n is nil or a typed nil pointer.
//
//nolint:gocyclo,cyclop // One case per node type.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *File:
		return v == nil
	case *Statement:
		return v == nil
	case *Import:
		return v == nil
	case *ImportClause:
		return v == nil
	case *ImportSpec:
		return v == nil
	case *InterfaceDecl:
		return v == nil
	case *TypeAliasDecl:
		return v == nil
	case *EnumDecl:
		return v == nil
	case *EnumMember:
		return v == nil
	case *TypeParam:
		return v == nil
	case *ObjectType:
		return v == nil
	case *Member:
		return v == nil
	case *IndexSignature:
		return v == nil
	case *MethodSignature:
		return v == nil
	case *PropertySignature:
		return v == nil
	case *PropName:
		return v == nil
	case *Param:
		return v == nil
	case *TypeExpr:
		return v == nil
	case *Intersection:
		return v == nil
	case *PostfixType:
		return v == nil
	case *PrimaryType:
		return v == nil
	case *TupleType:
		return v == nil
	case *TupleElement:
		return v == nil
	case *FunctionType:
		return v == nil
	case *Literal:
		return v == nil
	case *TypeQuery:
		return v == nil
	case *TypeRef:
		return v == nil
	default:
		return false
	}
}
