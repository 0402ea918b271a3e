package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/boyter/gocodewalker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rlch/typemock"
)

// Summary is the short description of one declaration used for listings.
type Summary struct {
	Name       string `json:"name"       yaml:"name"`
	Docs       string `json:"docs"       yaml:"docs"`
	FieldCount int    `json:"fieldCount" yaml:"fieldCount"`
}

// FileListing lists the structural declarations of one source file. Error
// is set instead of Interfaces when the file could not be loaded.
type FileListing struct {
	File       string    `json:"file"            yaml:"file"`
	Interfaces []Summary `json:"interfaces"      yaml:"interfaces"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summarize returns one Summary per schema, in order.
func Summarize(schemas []*typemock.InterfaceSchema) []Summary {
	out := make([]Summary, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, Summary{Name: s.Name, Docs: s.Docs, FieldCount: len(s.Fields)})
	}

	return out
}

// ListFiles lists the declarations of every source file under paths.
// Directories are walked recursively, respecting .gitignore and .ignore
// files; explicitly named files are always included. Files are extracted in
// parallel and the result is sorted by path. A file that fails to load is
// reported in its listing and does not fail the call.
func ListFiles(ctx context.Context, paths []string) ([]FileListing, error) {
	return std.ListFiles(ctx, paths)
}

// ListFiles lists the declarations of every source file under paths.
// See the package-level ListFiles.
func (e *Extractor) ListFiles(ctx context.Context, paths []string) ([]FileListing, error) {
	files, err := discover(paths)
	if err != nil {
		return nil, err
	}

	e.log.Debug("discovered sources", zap.Int("files", len(files)), zap.Int("workers", e.workers))

	listings := make([]FileListing, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			listings[i] = FileListing{File: path, Interfaces: []Summary{}}

			schemas, err := e.ExtractAll(path)
			if err != nil {
				listings[i].Error = err.Error()
				return nil
			}

			listings[i].Interfaces = Summarize(schemas)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return listings, nil
}

// discover expands paths into a sorted, de-duplicated list of absolute
// source file paths.
func discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)

	var files []string

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}

		if !seen[abs] {
			seen[abs] = true
			files = append(files, abs)
		}
	}

	for _, arg := range paths {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", typemock.ErrReadSource, err)
		}

		if !info.IsDir() {
			add(arg)
			continue
		}

		err = walkDir(arg, func(path string) {
			if typemock.IsSourceFile(path) {
				add(path)
			}
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(files)

	return files, nil
}

// firstError keeps the first of the errors reported by concurrent
// goroutines.
type firstError struct {
	mu  sync.Mutex
	err error
}

func (f *firstError) set(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err == nil {
		f.err = err
	}
}

func (f *firstError) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.err
}

// walkDir calls callback with every file under root, skipping paths ignored
// by .gitignore and .ignore files. callback runs on a single goroutine. The
// walker reports errors from its own goroutines; the first one is returned
// once the walk is done.
func walkDir(root string, callback func(path string)) error {
	queue := make(chan *gocodewalker.File, 100)
	walker := gocodewalker.NewFileWalker(root, queue)

	var walkErr firstError

	walker.SetErrorHandler(func(err error) bool {
		walkErr.set(err)
		return true
	})

	done := make(chan struct{})

	go func() {
		defer close(done)

		for f := range queue {
			callback(f.Location)
		}
	}()

	if err := walker.Start(); err != nil {
		return err
	}

	<-done

	return walkErr.get()
}
