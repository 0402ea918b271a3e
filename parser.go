package typemock

import (
	"github.com/alecthomas/participle/v2"
)

// declLexer is the custom lexer for declaration sources.
// Implements lexer.Definition interface for full control over tokenization.
var declLexer = newDeclLexer()

var parser = participle.MustBuild[File](
	participle.Lexer(declLexer),
	participle.Elide("Whitespace", "Comment", "DocComment"),
	participle.UseLookahead(10), // Methods vs properties and function types vs parenthesized types
)

// Parse parses a declaration source and returns the resulting File AST with
// JSDoc comments attached.
func Parse(data []byte) (*File, error) {
	return ParseFile("", data)
}

// ParseFile is like Parse but records filename in positions and errors.
func ParseFile(filename string, data []byte) (*File, error) {
	file, err := parser.ParseBytes(filename, data)
	if err != nil {
		return nil, err
	}

	trivia, err := CollectTrivia(filename, data)
	if err != nil {
		return nil, err
	}

	if err := checkSeparators(file); err != nil {
		return nil, err
	}

	attachDocs(file, trivia)

	return file, nil
}

// checkSeparators rejects object members that share a line with the next
// member without a ';' or ',' between them. The grammar alone accepts
// "a: string b: number" as two members, and would split unsupported syntax
// such as "get x(): T" into untyped properties.
func checkSeparators(file *File) error {
	var err error

	Inspect(file, func(n Node) bool {
		if err != nil {
			return false
		}

		o, ok := n.(*ObjectType)
		if !ok {
			return true
		}

		for i := 1; i < len(o.Members); i++ {
			prev, next := o.Members[i-1], o.Members[i]
			if !prev.Separated && next.Pos.Line <= prev.EndPos.Line {
				err = participle.Errorf(next.Pos, "expected \";\" or a line break between members")
				return false
			}
		}

		return true
	})

	return err
}

// ExportedLexer returns the lexer definition for testing purposes.
func ExportedLexer() *declDefinition {
	return declLexer
}
