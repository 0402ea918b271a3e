package typemock

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token type constants - negative values as per participle convention.
const (
	tEOF        lexer.TokenType = lexer.EOF
	tDocComment lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	tComment                                  // line and block comments
	tString                                   // quoted strings
	tTemplate                                 // backtick template strings
	tNumber                                   // all number formats
	tIdent                                    // identifiers and keywords
	tPunct                                    // punctuation and operators
	tWhitespace                               // spaces, tabs, newlines
)

// Exported token types for tooling and tests.
const (
	TokenEOF        = tEOF
	TokenDocComment = tDocComment
	TokenComment    = tComment
	TokenString     = tString
	TokenTemplate   = tTemplate
	TokenNumber     = tNumber
	TokenIdent      = tIdent
	TokenPunct      = tPunct
	TokenWhitespace = tWhitespace
)

// Lexer errors.
var (
	ErrUnterminatedComment  = &LexerError{msg: "unterminated comment"}
	ErrUnterminatedString   = &LexerError{msg: "unterminated string"}
	ErrUnterminatedTemplate = &LexerError{msg: "unterminated template string"}
	ErrUnexpectedCharacter  = &LexerError{msg: "unexpected character"}
)

// LexerError represents a lexer error with position.
type LexerError struct {
	msg string
	pos lexer.Position
	ch  rune
}

func (e *LexerError) Error() string {
	if e.ch != 0 {
		return e.pos.String() + ": " + e.msg + ": " + string(e.ch)
	}

	return e.pos.String() + ": " + e.msg
}

// Is matches lexer errors by message so callers can test against the sentinels.
func (e *LexerError) Is(target error) bool {
	t, ok := target.(*LexerError)
	return ok && t.msg == e.msg
}

// Position returns where the error occurred.
func (e *LexerError) Position() lexer.Position {
	return e.pos
}

func (e *LexerError) withPos(pos lexer.Position) *LexerError {
	return &LexerError{msg: e.msg, pos: pos, ch: e.ch}
}

func (e *LexerError) withChar(ch rune) *LexerError {
	return &LexerError{msg: e.msg, pos: e.pos, ch: ch}
}

// declDefinition implements lexer.Definition for declaration sources.
type declDefinition struct {
	symbols map[string]lexer.TokenType
}

func newDeclLexer() *declDefinition {
	return &declDefinition{
		symbols: map[string]lexer.TokenType{
			"EOF":        tEOF,
			"DocComment": tDocComment,
			"Comment":    tComment,
			"String":     tString,
			"Template":   tTemplate,
			"Number":     tNumber,
			"Ident":      tIdent,
			"Punct":      tPunct,
			"Whitespace": tWhitespace,
		},
	}
}

// Symbols returns the mapping of symbol names to token types.
func (d *declDefinition) Symbols() map[string]lexer.TokenType {
	return d.symbols
}

// Lex creates a new Lexer for the given reader.
//
//nolint:ireturn // Required by participle's lexer.Definition interface.
func (d *declDefinition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return d.LexBytes(filename, data)
}

// LexBytes implements lexer.BytesDefinition for efficiency.
//
//nolint:ireturn // Required by participle's lexer.BytesDefinition interface.
func (d *declDefinition) LexBytes(filename string, data []byte) (lexer.Lexer, error) {
	return newLexerState(filename, string(data)), nil
}

// LexString implements lexer.StringDefinition for efficiency.
//
//nolint:ireturn // Required by participle's lexer.StringDefinition interface.
func (d *declDefinition) LexString(filename string, input string) (lexer.Lexer, error) {
	return newLexerState(filename, input), nil
}

// lexerState holds the state for lexing.
type lexerState struct {
	filename string
	input    string
	offset   int
	line     int
	col      int
}

func newLexerState(filename, input string) *lexerState {
	l := &lexerState{
		filename: filename,
		input:    input,
		offset:   0,
		line:     1,
		col:      1,
	}

	// A leading UTF-8 BOM is not part of the source.
	if strings.HasPrefix(input, "\uFEFF") {
		l.offset = len("\uFEFF")
	}

	return l
}

// Next returns the next token.
func (l *lexerState) Next() (lexer.Token, error) {
	if l.eof() {
		return lexer.EOFToken(l.pos()), nil
	}

	start := l.pos()
	r := l.peek()

	// Whitespace
	if isSpace(r) {
		for !l.eof() && isSpace(l.peek()) {
			l.advance()
		}

		return l.token(tWhitespace, start), nil
	}

	// Shebang line, only at the very start of the file
	if r == '#' && l.peekAt(1) == '!' && start.Line == 1 && start.Column == 1 {
		l.skipLine()

		return l.token(tComment, start), nil
	}

	// Comments
	if r == '/' && l.peekAt(1) == '/' {
		l.skipLine()

		return l.token(tComment, start), nil
	}

	if r == '/' && l.peekAt(1) == '*' {
		return l.scanBlockComment(start)
	}

	// Strings
	if r == '"' || r == '\'' {
		return l.scanString(start, r)
	}

	if r == '`' {
		return l.scanTemplate(start)
	}

	// Number
	if isDigit(r) || (r == '.' && isDigit(l.peekAt(1))) {
		return l.scanNumber(start), nil
	}

	// Identifier
	if isIdentStart(r) {
		l.advance() // consume first char

		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}

		return l.token(tIdent, start), nil
	}

	// Multi-character punctuation (check before single-char)
	if tok, ok := l.scanMultiCharPunct(start); ok {
		return tok, nil
	}

	// Single character punctuation
	if strings.ContainsRune(".:;,?|&=()[]{}<>-+*!@#%^~/", r) {
		l.advance()

		return l.token(tPunct, start), nil
	}

	return lexer.Token{}, ErrUnexpectedCharacter.withPos(start).withChar(r)
}

func (l *lexerState) pos() lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   l.offset,
		Line:     l.line,
		Column:   l.col,
	}
}

func (l *lexerState) eof() bool {
	return l.offset >= len(l.input)
}

func (l *lexerState) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])

	return r
}

func (l *lexerState) peekAt(n int) rune {
	off := l.offset
	for range n {
		if off >= len(l.input) {
			return 0
		}

		_, size := utf8.DecodeRuneInString(l.input[off:])
		off += size
	}

	if off >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[off:])

	return r
}

//nolint:unparam // Return value useful for debugging.
func (l *lexerState) advance() rune {
	if l.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexerState) match(s string) bool {
	return strings.HasPrefix(l.input[l.offset:], s)
}

func (l *lexerState) token(typ lexer.TokenType, start lexer.Position) lexer.Token {
	return lexer.Token{
		Type:  typ,
		Value: l.input[start.Offset:l.offset],
		Pos:   start,
	}
}

func (l *lexerState) skipLine() {
	for !l.eof() && l.peek() != '\n' {
		l.advance()
	}
}

// scanBlockComment scans /* ... */. A block that opens with exactly /** and
// is not the empty comment /**/ is a JSDoc comment.
func (l *lexerState) scanBlockComment(start lexer.Position) (lexer.Token, error) {
	typ := tComment
	if l.match("/**") && !l.match("/**/") {
		typ = tDocComment
	}

	l.advance() // /
	l.advance() // *

	for !l.eof() {
		if l.match("*/") {
			l.advance()
			l.advance()

			return l.token(typ, start), nil
		}

		l.advance()
	}

	return lexer.Token{}, ErrUnterminatedComment.withPos(start)
}

func (l *lexerState) scanString(start lexer.Position, quote rune) (lexer.Token, error) {
	l.advance() // opening quote

	for !l.eof() {
		ch := l.peek()
		if ch == '\\' && l.peekAt(1) != 0 {
			l.advance() // backslash
			l.advance() // escaped char

			continue
		}

		if ch == quote {
			l.advance() // closing quote

			return l.token(tString, start), nil
		}

		if ch == '\n' {
			return lexer.Token{}, ErrUnterminatedString.withPos(start)
		}

		l.advance()
	}

	return lexer.Token{}, ErrUnterminatedString.withPos(start)
}

// scanTemplate scans a template literal type. Substitutions are kept verbatim;
// braces inside ${...} are balanced so a nested backtick does not end the token.
func (l *lexerState) scanTemplate(start lexer.Position) (lexer.Token, error) {
	l.advance() // opening `

	depth := 0

	for !l.eof() {
		ch := l.peek()

		switch {
		case ch == '\\' && l.peekAt(1) != 0:
			l.advance()
		case ch == '$' && l.peekAt(1) == '{':
			l.advance()
			depth++
		case ch == '}' && depth > 0:
			depth--
		case ch == '`' && depth == 0:
			l.advance() // closing `

			return l.token(tTemplate, start), nil
		}

		l.advance()
	}

	return lexer.Token{}, ErrUnterminatedTemplate.withPos(start)
}

func (l *lexerState) scanMultiCharPunct(start lexer.Position) (lexer.Token, bool) {
	multi := []string{"...", "=>"}

	for _, op := range multi {
		if l.match(op) {
			for range len(op) {
				l.advance()
			}

			return l.token(tPunct, start), true
		}
	}

	return lexer.Token{}, false
}

func (l *lexerState) scanNumber(start lexer.Position) lexer.Token {
	// Check for hex, octal, binary
	if l.peek() == '0' && l.peekAt(1) != 0 {
		next := l.peekAt(1)

		var digit func(rune) bool

		switch next {
		case 'x', 'X':
			digit = isHexDigit
		case 'o', 'O':
			digit = isOctalDigit
		case 'b', 'B':
			digit = isBinaryDigit
		}

		if digit != nil {
			l.advance() // 0
			l.advance() // prefix

			for !l.eof() && (digit(l.peek()) || l.peek() == '_') {
				l.advance()
			}

			l.scanBigIntSuffix()

			return l.token(tNumber, start)
		}
	}

	// Decimal digits
	for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}

	// Fractional part
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance() // .

		for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}
	}

	// Exponent
	if (l.peek() == 'e' || l.peek() == 'E') &&
		(isDigit(l.peekAt(1)) || ((l.peekAt(1) == '+' || l.peekAt(1) == '-') && isDigit(l.peekAt(2)))) {
		l.advance() // e/E

		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}

		for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}
	}

	l.scanBigIntSuffix()

	return l.token(tNumber, start)
}

func (l *lexerState) scanBigIntSuffix() {
	if l.peek() == 'n' {
		l.advance()
	}
}

// Character helpers.

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' || r == '\u00a0'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOctalDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

func isBinaryDigit(r rune) bool {
	return r == '0' || r == '1'
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
