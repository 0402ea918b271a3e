package typemock

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Span represents a range in source code.
type Span struct {
	Start lexer.Position
	End   lexer.Position
}

// Trivia represents non-semantic tokens like comments and whitespace.
type Trivia struct {
	Type TriviaType
	Text string
	Span Span
	// Next is the offset of the first real token after this trivia,
	// or -1 when only trivia follows until the end of the file.
	Next int
}

// TriviaType distinguishes different kinds of trivia.
type TriviaType int

// TriviaType constants define the types of trivia (comments, whitespace).
const (
	// TriviaComment represents a line or block comment.
	TriviaComment TriviaType = iota
	// TriviaDocComment represents a /** JSDoc */ comment.
	TriviaDocComment
	// TriviaWhitespace represents whitespace trivia.
	TriviaWhitespace
)

// TriviaList holds all trivia collected during lexing.
// Trivia "attaches" to the next real token: a JSDoc block documents the node
// that starts exactly at its Next offset.
type TriviaList struct {
	items []Trivia
}

// Add appends trivia to the list.
func (t *TriviaList) Add(trivia Trivia) {
	t.items = append(t.items, trivia)
}

// All returns all collected trivia.
func (t *TriviaList) All() []Trivia {
	return t.items
}

// Reset clears the trivia list.
func (t *TriviaList) Reset() {
	t.items = t.items[:0]
}

// CollectTrivia lexes data and returns its comments and whitespace, each
// linked to the offset of the token that follows it.
func CollectTrivia(filename string, data []byte) (*TriviaList, error) {
	l := newLexerState(filename, string(data))
	list := &TriviaList{}

	var pending []int

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}

		if kind, ok := triviaKind(tok.Type); ok {
			list.Add(Trivia{
				Type: kind,
				Text: tok.Value,
				Span: Span{Start: tok.Pos, End: l.pos()},
			})
			pending = append(pending, len(list.items)-1)

			continue
		}

		next := tok.Pos.Offset
		if tok.EOF() {
			next = -1
		}

		for _, i := range pending {
			list.items[i].Next = next
		}

		pending = pending[:0]

		if tok.EOF() {
			return list, nil
		}
	}
}

func triviaKind(typ lexer.TokenType) (TriviaType, bool) {
	switch typ {
	case tComment:
		return TriviaComment, true
	case tDocComment:
		return TriviaDocComment, true
	case tWhitespace:
		return TriviaWhitespace, true
	default:
		return 0, false
	}
}

// attachDocs associates JSDoc trivia with documented AST nodes.
//
// Attachment rules:
//   - A JSDoc block belongs to the node whose first token immediately follows
//     it, with only whitespace and other comments in between
//   - Several consecutive JSDoc blocks all attach to that node, in order
//   - A JSDoc block followed by anything else (a closing brace, a type
//     operand) is dropped
func attachDocs(file *File, trivia *TriviaList) {
	if trivia == nil || len(trivia.items) == 0 || file == nil {
		return
	}

	byOffset := make(map[int][]string)

	for _, t := range trivia.All() {
		if t.Type == TriviaDocComment && t.Next >= 0 {
			byOffset[t.Next] = append(byOffset[t.Next], t.Text)
		}
	}

	if len(byOffset) == 0 {
		return
	}

	Inspect(file, func(n Node) bool {
		d, ok := n.(Documented)
		if !ok {
			return true
		}

		if docs, found := byOffset[d.Span().Start.Offset]; found {
			d.Docs().DocComments = docs
		}

		return true
	})
}

// JSDocText returns the description of a raw /** ... */ block: the body with
// its "*" gutter stripped, up to the first @tag line.
func JSDocText(raw string) string {
	body := strings.TrimPrefix(raw, "/**")
	body = strings.TrimSuffix(body, "*/")

	var lines []string

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, " ")

		if strings.HasPrefix(line, "@") {
			break
		}

		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
