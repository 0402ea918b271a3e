package typemock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/typemock"
)

func TestDocAttachment(t *testing.T) {
	t.Parallel()

	input := `// licence header

/**
 * A user.
 * Second line.
 */
export interface User {
  /** Unique ID */
  id: string;

  // plain comment
  /** Display name */
  // trailing plain comment
  name: string;

  /** Nested settings */
  settings: {
    /** Colour theme */
    theme: string;
    /** dangling */
  };

  noDocs: number;
}

/** First block */
/** Second block */
type Pair = [string, string];

/** Kinds. */
enum Kind {
  /** The first. */
  A,
  B,
}
`

	file := mustParse(t, input)
	require.Len(t, file.Statements, 3)

	user := file.Statements[0].Interface
	assert.Equal(t, "A user.\nSecond line.", user.Doc())

	props := user.Body.Properties()
	require.Len(t, props, 4)

	assert.Equal(t, "Unique ID", props[0].Doc())
	assert.Equal(t, "Display name", props[1].Doc())
	assert.Equal(t, "Nested settings", props[2].Doc())
	assert.Empty(t, props[3].Doc())

	nested := props[2].Type.Members[0].Members[0].Operand.Object.Properties()
	require.Len(t, nested, 1)
	assert.Equal(t, "Colour theme", nested[0].Doc())

	pair := file.Statements[1].TypeAlias
	assert.Equal(t, []string{"/** First block */", "/** Second block */"}, pair.DocComments)
	assert.Equal(t, "First block\nSecond block", pair.Doc())

	kind := file.Statements[2].Enum
	assert.Equal(t, "Kinds.", kind.Doc())
	assert.Equal(t, "The first.", kind.Members[0].Doc())
	assert.Empty(t, kind.Members[1].Doc())
}

func TestJSDocText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"single line", "/** Postal code */", "Postal code"},
		{"multi line", "/**\n * Line one.\n * Line two.\n */", "Line one.\nLine two."},
		{"stops at tag", "/**\n * Age in years.\n * @minimum 1\n * @maximum 150\n */", "Age in years."},
		{"tag only", "/** @deprecated */", ""},
		{"no gutter", "/**\n  Loose text\n*/", "Loose text"},
		{"empty", "/** */", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, typemock.JSDocText(tt.raw))
		})
	}
}

func TestCollectTrivia(t *testing.T) {
	t.Parallel()

	src := "/** doc */\ninterface A {}\n// end\n"

	list, err := typemock.CollectTrivia("a.ts", []byte(src))
	require.NoError(t, err)

	var kinds []typemock.TriviaType
	for _, tr := range list.All() {
		kinds = append(kinds, tr.Type)
	}

	assert.Equal(t, []typemock.TriviaType{
		typemock.TriviaDocComment,
		typemock.TriviaWhitespace,
		typemock.TriviaWhitespace,
		typemock.TriviaWhitespace,
		typemock.TriviaWhitespace,
		typemock.TriviaComment,
		typemock.TriviaWhitespace,
	}, kinds)

	all := list.All()
	assert.Equal(t, len("/** doc */\n"), all[0].Next, "doc block points at interface keyword")
	assert.Equal(t, -1, all[len(all)-1].Next)
}
