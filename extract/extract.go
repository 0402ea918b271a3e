// Package extract locates structural declarations in TypeScript sources and
// builds their field schemas.
package extract

import (
	"go.uber.org/zap"

	"github.com/rlch/typemock"
	"github.com/rlch/typemock/model"
)

// LoadError is returned when a source cannot be read or parsed.
type LoadError = model.LoadError

// Options configures an Extractor.
type Options struct {
	// Logger receives debug logs. Defaults to a no-op logger.
	Logger *zap.Logger

	// Workers bounds how many files ListFiles extracts at once.
	// Defaults to typemock.DefaultWorkers.
	Workers int
}

// Extractor locates declarations and builds schemas. It holds no state
// between calls and is safe for concurrent use.
type Extractor struct {
	log     *zap.Logger
	workers int

	// Load loads a source file. Defaults to model.Load.
	Load func(path string) (*model.Model, error)
}

// New creates an Extractor.
func New(opts Options) *Extractor {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = typemock.DefaultWorkers
	}

	return &Extractor{
		log:     log,
		workers: workers,
		Load:    model.Load,
	}
}

var std = New(Options{})

// Handle is a located structural declaration bound to its loaded model.
type Handle struct {
	Model *model.Model
	Decl  *model.Declaration
}

// Name returns the declaration name.
func (h *Handle) Name() string { return h.Decl.Name }

// Path returns the absolute path of the source the declaration was found in.
func (h *Handle) Path() string { return h.Model.Path }

// Locate finds the structural declaration named name in the source at path.
// The boolean is false, with a nil error, when no such declaration exists.
// A non-nil error is always a *LoadError.
func Locate(path, name string) (*Handle, bool, error) { return std.Locate(path, name) }

// LocateAll returns every structural declaration in the source at path, in
// file order.
func LocateAll(path string) ([]*Handle, error) { return std.LocateAll(path) }

// Build builds the schema of a located declaration.
func Build(h *Handle) *typemock.InterfaceSchema { return std.Build(h) }

// Extract locates and builds the declaration named name.
func Extract(path, name string) (*typemock.InterfaceSchema, bool, error) {
	return std.Extract(path, name)
}

// ExtractAll builds every structural declaration in the source at path.
func ExtractAll(path string) ([]*typemock.InterfaceSchema, error) { return std.ExtractAll(path) }

// Locate finds the structural declaration named name in the source at path.
// See the package-level Locate.
func (e *Extractor) Locate(path, name string) (*Handle, bool, error) {
	m, err := e.load(path)
	if err != nil {
		return nil, false, err
	}

	for _, d := range m.Structural() {
		if d.Name == name {
			e.log.Debug("located declaration",
				zap.String("path", m.Path),
				zap.String("name", name),
				zap.Stringer("kind", d.Kind))

			return &Handle{Model: m, Decl: d}, true, nil
		}
	}

	e.log.Debug("declaration not found", zap.String("path", m.Path), zap.String("name", name))

	return nil, false, nil
}

// LocateAll returns every structural declaration in the source at path.
func (e *Extractor) LocateAll(path string) ([]*Handle, error) {
	m, err := e.load(path)
	if err != nil {
		return nil, err
	}

	decls := m.Structural()
	handles := make([]*Handle, 0, len(decls))

	for _, d := range decls {
		handles = append(handles, &Handle{Model: m, Decl: d})
	}

	return handles, nil
}

// Extract locates and builds the declaration named name.
func (e *Extractor) Extract(path, name string) (*typemock.InterfaceSchema, bool, error) {
	h, ok, err := e.Locate(path, name)
	if err != nil || !ok {
		return nil, ok, err
	}

	return e.Build(h), true, nil
}

// ExtractAll builds every structural declaration in the source at path.
func (e *Extractor) ExtractAll(path string) ([]*typemock.InterfaceSchema, error) {
	handles, err := e.LocateAll(path)
	if err != nil {
		return nil, err
	}

	return e.BuildAll(handles), nil
}

func (e *Extractor) load(path string) (*model.Model, error) {
	m, err := e.Load(path)
	if err != nil {
		e.log.Debug("load failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	e.log.Debug("loaded source",
		zap.String("path", m.Path),
		zap.Int("declarations", len(m.Declarations())))

	return m, nil
}
