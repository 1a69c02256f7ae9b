package gen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/stigen/internal/logger"
)

// Writer places generated outputs below a target directory. The namespace of
// each output becomes its directory, one level per namespace segment.
type Writer struct {
	outDir    string
	sep       string
	overwrite bool
	workers   int

	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks what a Writer did.
type WriterMetrics struct {
	FilesWritten int
	FilesSkipped int
	TotalBytes   int64
}

// NewWriter creates a Writer for outputs rendered by r.
func NewWriter(c *Config, r Renderer) (*Writer, error) {
	if c == nil || c.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	return &Writer{
		outDir:    c.Target,
		sep:       r.NamespaceSeparator(),
		overwrite: c.Overwrite,
		workers:   c.workers(),
		metrics:   &WriterMetrics{},
	}, nil
}

// Metrics returns the writer metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// Path returns the file path of the output below the target directory.
func (w *Writer) Path(out *Output) string {
	segments := strings.Split(out.Placement.Namespace, w.sep)
	parts := append([]string{w.outDir}, segments...)
	return filepath.Join(append(parts, out.FileName)...)
}

// WriteAll writes the outputs in parallel.
func (w *Writer) WriteAll(ctx context.Context, outs []*Output) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, out := range outs {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.Write(out)
			}
		})
	}
	return eg.Wait()
}

// Write writes a single output. Existing files are kept unless the writer
// overwrites; the returned error is nil in both cases.
func (w *Writer) Write(out *Output) error {
	path := w.Path(out)
	if !w.overwrite {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			w.record(0, true)
			logger.Logger.Debugw("file exists, skipped", logger.FieldFile, path)
			return nil
		case !errors.Is(err, fs.ErrNotExist):
			return NewGenerationError("write", path, "stat existing file", err)
		}
	}
	src := out.Source
	if filepath.Ext(path) == ".go" {
		formatted, err := imports.Process(path, src, nil)
		if err != nil {
			return NewGenerationError("write", path, "format go source", err)
		}
		src = formatted
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("write", path, "create directory", err)
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return NewGenerationError("write", path, fmt.Sprintf("write %s", out.Placement.ClassName), err)
	}
	w.record(int64(len(src)), false)
	logger.Logger.Debugw("file written", logger.FieldFile, path, logger.FieldSize, len(src))
	return nil
}

func (w *Writer) record(n int64, skipped bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if skipped {
		w.metrics.FilesSkipped++
		return
	}
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += n
}
