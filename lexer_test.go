package typemock_test

import (
	"errors"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/typemock"
)

type tok struct {
	typ   lexer.TokenType
	value string
}

func lexAll(t *testing.T, input string) ([]tok, error) {
	t.Helper()

	l, err := typemock.ExportedLexer().LexString("test.ts", input)
	require.NoError(t, err)

	var out []tok

	for {
		token, err := l.Next()
		if err != nil {
			return out, err
		}

		if token.EOF() {
			return out, nil
		}

		if token.Type == typemock.TokenWhitespace {
			continue
		}

		out = append(out, tok{token.Type, token.Value})
	}
}

func TestLexer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "property",
			input: "readonly id?: string;",
			want: []tok{
				{typemock.TokenIdent, "readonly"},
				{typemock.TokenIdent, "id"},
				{typemock.TokenPunct, "?"},
				{typemock.TokenPunct, ":"},
				{typemock.TokenIdent, "string"},
				{typemock.TokenPunct, ";"},
			},
		},
		{
			name:  "comments",
			input: "/** doc */ /* block */ // line\n/**/",
			want: []tok{
				{typemock.TokenDocComment, "/** doc */"},
				{typemock.TokenComment, "/* block */"},
				{typemock.TokenComment, "// line"},
				{typemock.TokenComment, "/**/"},
			},
		},
		{
			name:  "strings",
			input: `'a\'b' "c\"d" ` + "`t${`x`}`",
			want: []tok{
				{typemock.TokenString, `'a\'b'`},
				{typemock.TokenString, `"c\"d"`},
				{typemock.TokenTemplate, "`t${`x`}`"},
			},
		},
		{
			name:  "numbers",
			input: "42 1.5e-3 .5 0xFF 0b1010 1_000 10n",
			want: []tok{
				{typemock.TokenNumber, "42"},
				{typemock.TokenNumber, "1.5e-3"},
				{typemock.TokenNumber, ".5"},
				{typemock.TokenNumber, "0xFF"},
				{typemock.TokenNumber, "0b1010"},
				{typemock.TokenNumber, "1_000"},
				{typemock.TokenNumber, "10n"},
			},
		},
		{
			name:  "multi-character punctuation",
			input: "(...a) => $b_1",
			want: []tok{
				{typemock.TokenPunct, "("},
				{typemock.TokenPunct, "..."},
				{typemock.TokenIdent, "a"},
				{typemock.TokenPunct, ")"},
				{typemock.TokenPunct, "=>"},
				{typemock.TokenIdent, "$b_1"},
			},
		},
		{
			name:  "byte order mark and shebang",
			input: "\uFEFF#!/usr/bin/env node\ntype",
			want: []tok{
				{typemock.TokenComment, "#!/usr/bin/env node"},
				{typemock.TokenIdent, "type"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := lexAll(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexer_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
		line  int
	}{
		{"unterminated string", "type A =\n  'abc", typemock.ErrUnterminatedString, 2},
		{"newline in string", "\"ab\ncd\"", typemock.ErrUnterminatedString, 1},
		{"unterminated comment", "/* never", typemock.ErrUnterminatedComment, 1},
		{"unterminated template", "`abc", typemock.ErrUnterminatedTemplate, 1},
		{"unexpected character", "\n\n\\", typemock.ErrUnexpectedCharacter, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := lexAll(t, tt.input)
			require.ErrorIs(t, err, tt.want)

			var lexErr *typemock.LexerError

			require.True(t, errors.As(err, &lexErr))
			assert.Equal(t, tt.line, lexErr.Position().Line)
		})
	}
}
