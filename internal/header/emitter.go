// Package header writes the generated C header embedding a set of assets.
package header

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/xll-gen/assetgen/internal/asset"
	"github.com/xll-gen/assetgen/internal/atomicfile"
	"github.com/xll-gen/assetgen/internal/templates"
)

var (
	// ErrNoAssets is returned when Emit is called without input files.
	ErrNoAssets = errors.New("no assets to embed")
	// ErrIdentifierCollision is returned when two paths slug to the same identifier.
	ErrIdentifierCollision = errors.New("identifier collision")
)

// Options controls the layout of the generated header.
type Options struct {
	// Indent is the number of spaces before array values and table rows.
	Indent int
	// PerLine is the number of byte values per array line.
	PerLine int
}

// DefaultOptions matches the layout of hand-maintained asset headers.
var DefaultOptions = Options{Indent: 4, PerLine: 12}

// Emitter generates asset headers. Its options are fixed at construction.
type Emitter struct {
	builder *asset.Builder
	opts    Options
}

// New creates an Emitter. A non-positive PerLine takes the default.
func New(builder *asset.Builder, opts Options) *Emitter {
	if opts.Indent < 0 {
		opts.Indent = 0
	}
	if opts.PerLine <= 0 {
		opts.PerLine = DefaultOptions.PerLine
	}
	return &Emitter{builder: builder, opts: opts}
}

// Options returns the layout the emitter was created with.
func (e *Emitter) Options() Options {
	return e.opts
}

// Emit embeds paths into a header at output.
// The header is written to a temporary file and moved over output only when
// every asset was embedded; on error output is left as it was.
func (e *Emitter) Emit(ctx context.Context, paths []string, output string) error {
	if len(paths) == 0 {
		return ErrNoAssets
	}

	f, err := atomicfile.Create(output)
	if err != nil {
		return err
	}
	defer f.Abort()

	if err := e.Write(ctx, f, paths, filepath.Base(output)); err != nil {
		return err
	}
	if err := f.Commit(); err != nil {
		return err
	}

	slog.Info("wrote asset header", "output", output, "assets", len(paths))
	return nil
}

// Write renders the header for paths into w. name is the header file name the
// include guard is derived from.
func (e *Emitter) Write(ctx context.Context, w io.Writer, paths []string, name string) error {
	if len(paths) == 0 {
		return ErrNoAssets
	}
	sorted := sortedCopy(paths)
	guard := asset.GuardName(name)

	bw := bufio.NewWriter(w)
	if err := templates.Execute(bw, "header_open.h.tmpl", struct{ Guard string }{guard}); err != nil {
		return err
	}

	seen := make(map[string]string, len(sorted))
	rows := make([]string, 0, len(sorted))
	for _, path := range sorted {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := e.builder.Build(ctx, path)
		if err != nil {
			return err
		}
		if err := checkCollision(seen, rec); err != nil {
			return err
		}
		if err := rec.WriteData(bw, e.opts.Indent, e.opts.PerLine); err != nil {
			return fmt.Errorf("failed to write %s: %w", rec.CVar(), err)
		}
		rows = append(rows, rec.Metadata(e.opts.Indent))
	}

	data := struct {
		Guard string
		Count int
		Rows  []string
	}{
		Guard: guard,
		Count: len(rows),
		Rows:  rows,
	}
	if err := templates.Execute(bw, "header_close.h.tmpl", data); err != nil {
		return err
	}
	return bw.Flush()
}

// Records builds the records for paths in emission order without writing anything.
func (e *Emitter) Records(ctx context.Context, paths []string) ([]*asset.Record, error) {
	if len(paths) == 0 {
		return nil, ErrNoAssets
	}
	sorted := sortedCopy(paths)
	seen := make(map[string]string, len(sorted))
	recs := make([]*asset.Record, 0, len(sorted))
	for _, path := range sorted {
		rec, err := e.builder.Build(ctx, path)
		if err != nil {
			return nil, err
		}
		if err := checkCollision(seen, rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func sortedCopy(paths []string) []string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return sorted
}

// checkCollision records rec's identifier in seen (identifier -> path).
func checkCollision(seen map[string]string, rec *asset.Record) error {
	if prev, ok := seen[rec.Identifier]; ok {
		return fmt.Errorf("%w: %q and %q both map to %s", ErrIdentifierCollision, prev, rec.Path, rec.CVar())
	}
	seen[rec.Identifier] = rec.Path
	return nil
}
