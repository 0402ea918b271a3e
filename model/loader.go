package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rlch/typemock"
)

// ErrSourceNotFound is returned when a source path does not exist, even
// after trying the known declaration file extensions.
var ErrSourceNotFound = errors.New("model: source not found")

// LoadError describes a source file that could not be read or parsed.
// Cause always wraps typemock.ErrReadSource or typemock.ErrParseSource.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Loader reads and parses declaration sources into Models. Every call reads
// the file afresh; nothing is cached between calls.
type Loader struct {
	// Parser is the function used to parse sources.
	// Defaults to typemock.ParseFile but can be overridden for testing.
	Parser func(filename string, data []byte) (*typemock.File, error)

	// ReadFile defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// NewLoader creates a new loader.
func NewLoader() *Loader {
	return &Loader{
		Parser:   typemock.ParseFile,
		ReadFile: os.ReadFile,
	}
}

// Load loads the source at path. Relative paths are resolved from the
// current working directory. A path without an extension is tried with
// .ts and .d.ts appended.
func Load(path string) (*Model, error) {
	return NewLoader().Load(path)
}

// Load loads the source at path. See the package-level Load.
func (l *Loader) Load(path string) (*Model, error) {
	absPath, err := resolvePath(path)
	if err != nil {
		return nil, &LoadError{
			Path:  path,
			Cause: fmt.Errorf("%w: %w", typemock.ErrReadSource, err),
		}
	}

	data, err := l.ReadFile(absPath)
	if err != nil {
		return nil, &LoadError{
			Path:  absPath,
			Cause: fmt.Errorf("%w: %w", typemock.ErrReadSource, err),
		}
	}

	file, err := l.Parser(absPath, data)
	if err != nil {
		return nil, &LoadError{
			Path:  absPath,
			Cause: fmt.Errorf("%w: %w", typemock.ErrParseSource, err),
		}
	}

	return New(absPath, file), nil
}

// resolvePath returns the absolute, existing path for path.
func resolvePath(path string) (string, error) {
	path = filepath.Clean(path)

	if _, err := os.Stat(path); err == nil {
		return filepath.Abs(path)
	}

	if filepath.Ext(path) == "" {
		for _, ext := range []string{".ts", ".d.ts"} {
			withExt := path + ext
			if _, err := os.Stat(withExt); err == nil {
				return filepath.Abs(withExt)
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrSourceNotFound, path)
}
