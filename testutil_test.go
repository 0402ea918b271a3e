package typemock_test

import (
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/rlch/typemock"
)

// cmpIgnoreAST ignores source positions so tests can compare AST structure
// without spelling out offsets.
var cmpIgnoreAST = cmp.Options{
	cmpopts.IgnoreTypes(lexer.Position{}),
	cmpopts.EquateEmpty(),
}

// ptr returns a pointer to the given value.
func ptr[T any](v T) *T {
	return &v
}

func mustParse(t *testing.T, src string) *typemock.File {
	t.Helper()

	file, err := typemock.Parse([]byte(src))
	require.NoError(t, err)

	return file
}

// propertyType parses "interface T { x: <typ> }" and returns the type of x.
func propertyType(t *testing.T, typ string) *typemock.TypeExpr {
	t.Helper()

	file := mustParse(t, "interface T { x: "+typ+" }")
	require.Len(t, file.Statements, 1)

	props := file.Statements[0].Interface.Body.Properties()
	require.Len(t, props, 1)

	return props[0].Type
}

// ref builds a simple type expression referring to name.
func ref(path ...string) *typemock.TypeExpr {
	return postfix(&typemock.PrimaryType{Ref: &typemock.TypeRef{Path: path}})
}

func postfix(p *typemock.PrimaryType, dims ...string) *typemock.TypeExpr {
	return &typemock.TypeExpr{Members: []*typemock.Intersection{{
		Members: []*typemock.PostfixType{{Operand: p, Dims: dims}},
	}}}
}
