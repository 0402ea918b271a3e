package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rlch/typemock"
	"github.com/rlch/typemock/extract"
	"github.com/rlch/typemock/jsonschema"
	"github.com/rlch/typemock/model"
	"github.com/rlch/typemock/prompt"
	"github.com/rlch/typemock/render"
)

// Command errors.
var (
	ErrNoSource       = errors.New("no declaration file given (pass FILE, --source, set source in .typemock.yaml or " + sourceEnv + ")")
	ErrMissingName    = errors.New("missing declaration name")
	ErrTooManyArgs    = errors.New("too many arguments")
	ErrSampleRequired = errors.New("missing sample file (use - for stdin)")
)

// stdinArg reads a SAMPLE argument from standard input.
const stdinArg = "-"

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "output format (" + strings.Join(render.Formats, ", ") + ")",
	}
}

// source resolves a FILE argument, falling back to the configured source
// and then the environment. FILE is omitted by leaving it out of the
// arguments: a bare "-" before NAME would end argument parsing.
func (a *app) source(file string) (string, error) {
	path := firstNonEmpty(file, a.cfg.Source, os.Getenv(sourceEnv))
	if path == "" {
		return "", ErrNoSource
	}

	return path, nil
}

// fileAndName splits "[FILE] NAME [extra...]" positional arguments, where
// extra is the number of arguments expected after NAME.
func (a *app) fileAndName(cmd *cli.Command, extra int) (file, name string, rest []string, err error) {
	args := cmd.Args().Slice()

	switch n := len(args) - extra; {
	case n <= 0:
		return "", "", nil, ErrMissingName
	case n == 1:
		name = args[0]
	case n == 2:
		file, name = args[0], args[1]
	default:
		return "", "", nil, fmt.Errorf("%w: %s", ErrTooManyArgs, strings.Join(args, " "))
	}

	file, err = a.source(file)
	if err != nil {
		return "", "", nil, err
	}

	return file, name, args[len(args)-extra:], nil
}

// notFound reports a missing declaration with exit status 1.
func notFound(name, file string) error {
	return cli.Exit(fmt.Sprintf("declaration %q not found in %s\nrun `typemock list %s` to see the available interfaces", name, file, file), 1)
}

func (a *app) locate(cmd *cli.Command, extra int) (*extract.Handle, []string, error) {
	file, name, rest, err := a.fileAndName(cmd, extra)
	if err != nil {
		return nil, nil, err
	}

	h, found, err := a.ext.Locate(file, name)
	if err != nil {
		return nil, nil, err
	}

	if !found {
		return nil, nil, notFound(name, file)
	}

	return h, rest, nil
}

// -----------------------------------------------------------------------------
// list
// -----------------------------------------------------------------------------

func (a *app) listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List interfaces in files or directories",
		ArgsUsage: "[files or directories...]",
		Flags:     []cli.Flag{formatFlag()},
		Action:    a.runList,
	}
}

func (a *app) runList(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = []string{firstNonEmpty(a.cfg.Source, os.Getenv(sourceEnv), ".")}
	}

	listings, err := a.ext.ListFiles(ctx, paths)
	if err != nil {
		return err
	}

	a.log.Debug("listed files", zap.Int("files", len(listings)))

	w := stdout(cmd)

	switch format := firstNonEmpty(cmd.String("format"), a.cfg.Format); format {
	case typemock.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(listings)
	case typemock.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(listings); err != nil {
			return err
		}

		return enc.Close()
	case typemock.FormatTree:
		return writeListing(w, listings)
	default:
		return fmt.Errorf("%w: %q", render.ErrUnknownFormat, format)
	}
}

func writeListing(w io.Writer, listings []extract.FileListing) error {
	var b strings.Builder

	for _, l := range listings {
		b.WriteString(relPath(l.File))
		b.WriteString("\n")

		if l.Error != "" {
			fmt.Fprintf(&b, "  error: %s\n", l.Error)
			continue
		}

		if len(l.Interfaces) == 0 {
			b.WriteString("  (no interfaces)\n")
			continue
		}

		for _, s := range l.Interfaces {
			fmt.Fprintf(&b, "  %s (%d fields)", s.Name, s.FieldCount)

			if s.Docs != "" {
				fmt.Fprintf(&b, "  %s", strings.Join(strings.Fields(s.Docs), " "))
			}

			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func relPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}

	return rel
}

// -----------------------------------------------------------------------------
// show
// -----------------------------------------------------------------------------

func (a *app) showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the field schema of an interface",
		ArgsUsage: "[FILE] NAME",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.BoolFlag{
				Name:  "all",
				Usage: "print every interface in FILE",
			},
		},
		Action: a.runShow,
	}
}

func (a *app) runShow(_ context.Context, cmd *cli.Command) error {
	f, err := render.ForName(firstNonEmpty(cmd.String("format"), a.cfg.Format))
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		var file string
		if cmd.Args().Len() > 1 {
			return fmt.Errorf("%w: %s", ErrTooManyArgs, strings.Join(cmd.Args().Slice(), " "))
		}

		file, err = a.source(cmd.Args().First())
		if err != nil {
			return err
		}

		schemas, err := a.ext.ExtractAll(file)
		if err != nil {
			return err
		}

		return f.Format(stdout(cmd), schemas...)
	}

	h, _, err := a.locate(cmd, 0)
	if err != nil {
		return err
	}

	return f.Format(stdout(cmd), a.ext.Build(h))
}

// -----------------------------------------------------------------------------
// jsonschema
// -----------------------------------------------------------------------------

func (a *app) jsonSchemaCommand() *cli.Command {
	return &cli.Command{
		Name:      "jsonschema",
		Aliases:   []string{"schema"},
		Usage:     "Print the JSON Schema of an interface",
		ArgsUsage: "[FILE] NAME",
		Action:    a.runJSONSchema,
	}
}

func (a *app) runJSONSchema(_ context.Context, cmd *cli.Command) error {
	h, _, err := a.locate(cmd, 0)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout(cmd))
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(jsonschema.Generate(h))
}

// -----------------------------------------------------------------------------
// validate
// -----------------------------------------------------------------------------

func (a *app) validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a JSON sample against an interface",
		ArgsUsage: "[FILE] NAME SAMPLE",
		Action:    a.runValidate,
	}
}

func (a *app) runValidate(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return ErrSampleRequired
	}

	h, rest, err := a.locate(cmd, 1)
	if err != nil {
		return err
	}

	data, err := readSample(cmd, rest[0])
	if err != nil {
		return err
	}

	res, err := jsonschema.Validate(h, data)
	if err != nil {
		return err
	}

	w := stdout(cmd)

	if res.Valid {
		_, err = fmt.Fprintf(w, "%s: valid %s\n", rest[0], h.Name())

		return err
	}

	for _, line := range res.Errors {
		_, _ = fmt.Fprintln(w, line)
	}

	return cli.Exit(fmt.Sprintf("%s: %d validation error(s) against %s", rest[0], len(res.Errors), h.Name()), 1)
}

func readSample(cmd *cli.Command, path string) ([]byte, error) {
	if path == stdinArg {
		r := cmd.Root().Reader
		if r == nil {
			r = os.Stdin
		}

		return io.ReadAll(r)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading sample: %w", err)
	}

	return data, nil
}

// -----------------------------------------------------------------------------
// prompt
// -----------------------------------------------------------------------------

func (a *app) promptCommand() *cli.Command {
	return &cli.Command{
		Name:      "prompt",
		Usage:     "Print the mock-data generation prompt for an interface",
		ArgsUsage: "[FILE] NAME",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "number of objects to request",
				Value:   1,
			},
			&cli.BoolFlag{
				Name:  "system",
				Usage: "also print the system prompt",
			},
		},
		Action: a.runPrompt,
	}
}

func (a *app) runPrompt(_ context.Context, cmd *cli.Command) error {
	h, _, err := a.locate(cmd, 0)
	if err != nil {
		return err
	}

	schema := a.ext.Build(h)

	var text string

	if count := cmd.Int("count"); count == 1 {
		text, err = prompt.User(schema)
	} else {
		text, err = prompt.Batch(schema, count)
	}

	if err != nil {
		return err
	}

	w := stdout(cmd)

	if cmd.Bool("system") {
		if _, err := fmt.Fprintf(w, "%s\n\n---\n\n", prompt.System); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(w, text)

	return err
}

// -----------------------------------------------------------------------------
// fmt
// -----------------------------------------------------------------------------

func (a *app) fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Print the declarations of a file in canonical form",
		ArgsUsage: "[FILE]",
		Action:    a.runFmt,
	}
}

func (a *app) runFmt(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 1 {
		return fmt.Errorf("%w: %s", ErrTooManyArgs, strings.Join(cmd.Args().Slice(), " "))
	}

	file, err := a.source(cmd.Args().First())
	if err != nil {
		return err
	}

	m, err := model.Load(file)
	if err != nil {
		return err
	}

	_, err = io.WriteString(stdout(cmd), typemock.Format(m.File))

	return err
}
