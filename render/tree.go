package render

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rlch/typemock"
)

// Tree writes schemas as an outline, one field per line:
//
//	UserProfile  A user profile.
//	├─ id: string  Unique user ID
//	╰─ settings: { theme: string; }
//	   ╰─ theme: string
//
// Optional fields carry a "?" after the name. Colour is used only when w
// is a terminal.
type Tree struct{}

// Format implements Formatter.
func (Tree) Format(w io.Writer, schemas ...*typemock.InterfaceSchema) error {
	st := newTreeStyles(w)

	var b strings.Builder

	for i, s := range schemas {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString(st.render(st.name, s.Name))

		if s.Docs != "" {
			b.WriteString("  ")
			b.WriteString(st.render(st.docs, oneLine(s.Docs)))
		}

		b.WriteString("\n")
		st.fields(&b, s.Fields, "")
	}

	_, err := io.WriteString(w, b.String())

	return err
}

type treeStyles struct {
	plain bool

	name     lipgloss.Style
	field    lipgloss.Style
	optional lipgloss.Style
	typ      lipgloss.Style
	docs     lipgloss.Style
	branch   lipgloss.Style
}

func newTreeStyles(w io.Writer) *treeStyles {
	if !isTerminal(w) {
		return &treeStyles{plain: true}
	}

	r := lipgloss.NewRenderer(w)

	return &treeStyles{
		name:     r.NewStyle().Bold(true),
		field:    r.NewStyle().Foreground(lipgloss.Color("6")),
		optional: r.NewStyle().Foreground(lipgloss.Color("3")),
		typ:      r.NewStyle().Foreground(lipgloss.Color("2")),
		docs:     r.NewStyle().Faint(true),
		branch:   r.NewStyle().Faint(true),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (st *treeStyles) render(s lipgloss.Style, text string) string {
	if st.plain {
		return text
	}

	return s.Render(text)
}

func (st *treeStyles) fields(b *strings.Builder, fields []*typemock.FieldSchema, prefix string) {
	for i, f := range fields {
		isLast := i == len(fields)-1

		branch := "├─ "
		if isLast {
			branch = "╰─ "
		}

		b.WriteString(st.render(st.branch, prefix+branch))
		b.WriteString(st.render(st.field, f.Name))

		if !f.IsRequired {
			b.WriteString(st.render(st.optional, "?"))
		}

		b.WriteString(": ")
		b.WriteString(st.render(st.typ, f.Type))

		if f.Docs != "" {
			b.WriteString("  ")
			b.WriteString(st.render(st.docs, oneLine(f.Docs)))
		}

		b.WriteString("\n")

		childPrefix := prefix + "│  "
		if isLast {
			childPrefix = prefix + "   "
		}

		st.fields(b, f.Children, childPrefix)
	}
}

// oneLine joins multi-line docs with spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
