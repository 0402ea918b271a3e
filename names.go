package typemock

import "strings"

// Primitive type keywords.
const (
	TypeString    = "string"
	TypeNumber    = "number"
	TypeBoolean   = "boolean"
	TypeBigInt    = "bigint"
	TypeSymbol    = "symbol"
	TypeObject    = "object"
	TypeAny       = "any"
	TypeUnknown   = "unknown"
	TypeNever     = "never"
	TypeVoid      = "void"
	TypeUndefined = "undefined"
	TypeNull      = "null"
)

// Boolean literal keywords.
const (
	LiteralTrue  = "true"
	LiteralFalse = "false"
)

// Generic array type names that render as T[].
const (
	GenericArray         = "Array"
	GenericReadonlyArray = "ReadonlyArray"
)

// Output format names.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTree = "tree"
)

// primitives is the set of keyword types that never have properties.
var primitives = map[string]bool{
	TypeString:    true,
	TypeNumber:    true,
	TypeBoolean:   true,
	TypeBigInt:    true,
	TypeSymbol:    true,
	TypeObject:    true,
	TypeAny:       true,
	TypeUnknown:   true,
	TypeNever:     true,
	TypeVoid:      true,
	TypeUndefined: true,
	TypeNull:      true,
}

// IsPrimitive reports whether name is a primitive type keyword.
func IsPrimitive(name string) bool {
	return primitives[name]
}

// IsBooleanLiteral reports whether name is the true or false literal type.
func IsBooleanLiteral(name string) bool {
	return name == LiteralTrue || name == LiteralFalse
}

// SourceExtensions are the file extensions recognised as declaration sources.
var SourceExtensions = []string{"ts", "mts", "cts"}

// IsSourceFile reports whether name has a declaration source extension.
// Declaration files (.d.ts) are included.
func IsSourceFile(name string) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(name, "."+ext) {
			return true
		}
	}

	return false
}
