package header

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xll-gen/assetgen/internal/asset"
)

const goldenHeader = `#ifndef __ASSETS_H__
#define __ASSETS_H__

#ifdef __cplusplus
extern "C" {
#endif

#include <stddef.h>

struct asset_info {
   const char * filename;
   const char * mimetype;
   const unsigned char * data;
   size_t size_in_bytes;
   const char * etag;
};

static unsigned char asset_a_js_data[] = {
    0x31
};
static unsigned char asset_b_css_data[] = {
    0x78, 0x7b, 0x7d
};
static unsigned char asset_c_png_data[] = {
    0x89, 0x50
};

static size_t assets_count = 3;

static struct asset_info assets[] = {
    { "a.js", "application/javascript", asset_a_js_data, 1, "356a192b7913b04c54574d18c28d46e6395428ab" },
    { "b.css", "text/css", asset_b_css_data, 3, "a425f5fd826d9bf5c876b546735247b6299c1fdd" },
    { "c.png", "image/png", asset_c_png_data, 2, "` + "%s" + `" }
};

#ifdef __cplusplus
}
#endif

#endif // __ASSETS_H__
`

// fakeDetector answers image/png and counts calls.
type fakeDetector struct {
	calls []string
}

func (d *fakeDetector) Detect(ctx context.Context, path string, data []byte) (string, error) {
	d.calls = append(d.calls, path)
	return "image/png\n", nil
}

func newTestEmitter(d asset.Detector) *Emitter {
	return New(asset.NewBuilder(asset.NewResolver(d, nil)), DefaultOptions)
}

func writeFiles(t *testing.T, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(name), 0755))
		require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	}
}

// leftovers lists temporary files left in dir.
func leftovers(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var tmp []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			tmp = append(tmp, e.Name())
		}
	}
	return tmp
}

func TestEmit_Golden(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	writeFiles(t, map[string]string{
		"b.css": "x{}",
		"a.js":  "1",
		"c.png": "\x89P",
	})

	d := &fakeDetector{}
	e := newTestEmitter(d)
	require.NoError(t, e.Emit(context.Background(), []string{"c.png", "b.css", "a.js"}, "assets.h"))

	got, err := os.ReadFile("assets.h")
	require.NoError(t, err)

	want := strings.Replace(goldenHeader, "%s", asset.Digest([]byte("\x89P")), 1)
	assert.Equal(t, want, string(got))
	assert.Equal(t, []string{"c.png"}, d.calls, "only unknown extensions reach the detector")
	assert.Empty(t, leftovers(t, dir))
}

func TestEmit_Deterministic(t *testing.T) {
	testChdir(t, t.TempDir())
	writeFiles(t, map[string]string{
		"static/js/app.js":     strings.Repeat("console.log(1);\n", 40),
		"static/css/site.css":  "body { margin: 0 }\r\n",
		"static/index.html":    "<html></html>",
		"static/img/logo.png":  "\x89PNG\r\n\x1a\n",
		"static/fonts/a b.ttf": "\x00\x01\x00\x00",
	})
	paths := []string{"static/js/app.js", "static/index.html", "static/css/site.css", "static/img/logo.png", "static/fonts/a b.ttf"}

	e := newTestEmitter(&fakeDetector{})
	require.NoError(t, e.Emit(context.Background(), paths, "one.h"))
	require.NoError(t, e.Emit(context.Background(), paths, "two.h"))
	require.NoError(t, e.Emit(context.Background(), paths, "one.h"))

	one, err := os.ReadFile("one.h")
	require.NoError(t, err)
	two, err := os.ReadFile("two.h")
	require.NoError(t, err)

	// Only the include guard differs between the two names.
	assert.Equal(t, string(one), strings.ReplaceAll(string(two), "__TWO_H__", "__ONE_H__"))
}

func TestWrite_SortedOrder(t *testing.T) {
	testChdir(t, t.TempDir())
	writeFiles(t, map[string]string{"z.js": "z", "m.css": "m", "a.html": "a"})

	var buf bytes.Buffer
	e := newTestEmitter(nil)
	require.NoError(t, e.Write(context.Background(), &buf, []string{"z.js", "a.html", "m.css"}, "x.h"))

	out := buf.String()
	a := strings.Index(out, "static unsigned char asset_a_html_data")
	m := strings.Index(out, "static unsigned char asset_m_css_data")
	z := strings.Index(out, "static unsigned char asset_z_js_data")
	require.True(t, a >= 0 && m >= 0 && z >= 0)
	assert.True(t, a < m && m < z, "arrays must follow lexicographic order")

	ra := strings.Index(out, `{ "a.html"`)
	rz := strings.Index(out, `{ "z.js"`)
	assert.True(t, ra < rz, "rows must follow lexicographic order")
	assert.Contains(t, out, "static size_t assets_count = 3;")
}

func TestEmit_DoesNotReorderCallerSlice(t *testing.T) {
	testChdir(t, t.TempDir())
	writeFiles(t, map[string]string{"b.js": "b", "a.js": "a"})

	paths := []string{"b.js", "a.js"}
	require.NoError(t, newTestEmitter(nil).Emit(context.Background(), paths, "out.h"))
	assert.Equal(t, []string{"b.js", "a.js"}, paths)
}

func TestEmit_IdentifierCollision(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	writeFiles(t, map[string]string{"a.b.js": "1", "a__b.js": "2"})

	err := newTestEmitter(nil).Emit(context.Background(), []string{"a.b.js", "a__b.js"}, "assets.h")
	require.ErrorIs(t, err, ErrIdentifierCollision)
	assert.Contains(t, err.Error(), "asset_a_b_js_data")

	_, statErr := os.Stat("assets.h")
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "no header may be written")
	assert.Empty(t, leftovers(t, dir))
}

func TestEmit_DuplicatePath(t *testing.T) {
	testChdir(t, t.TempDir())
	writeFiles(t, map[string]string{"a.js": "1"})

	err := newTestEmitter(nil).Emit(context.Background(), []string{"a.js", "a.js"}, "assets.h")
	assert.ErrorIs(t, err, ErrIdentifierCollision)
}

func TestEmit_MissingInputKeepsOutput(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	writeFiles(t, map[string]string{"a.js": "1", "assets.h": "previous header\n"})

	err := newTestEmitter(nil).Emit(context.Background(), []string{"a.js", "missing.css"}, "assets.h")
	require.ErrorIs(t, err, fs.ErrNotExist)

	got, readErr := os.ReadFile("assets.h")
	require.NoError(t, readErr)
	assert.Equal(t, "previous header\n", string(got))
	assert.Empty(t, leftovers(t, dir))
}

func TestEmit_MissingInputCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)

	err := newTestEmitter(nil).Emit(context.Background(), []string{"missing.css"}, "assets.h")
	require.Error(t, err)

	_, statErr := os.Stat("assets.h")
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
	assert.Empty(t, leftovers(t, dir))
}

func TestEmit_DetectorFailure(t *testing.T) {
	testChdir(t, t.TempDir())
	writeFiles(t, map[string]string{"data.bin": "x"})

	d := asset.DetectorFunc(func(context.Context, string, []byte) (string, error) {
		return "", errors.New("file: command not found")
	})
	err := newTestEmitter(d).Emit(context.Background(), []string{"data.bin"}, "assets.h")
	assert.ErrorIs(t, err, asset.ErrDetect)
}

func TestEmit_OutputDirectoryMissing(t *testing.T) {
	testChdir(t, t.TempDir())
	writeFiles(t, map[string]string{"a.js": "1"})

	err := newTestEmitter(nil).Emit(context.Background(), []string{"a.js"}, filepath.Join("no", "such", "dir", "assets.h"))
	assert.Error(t, err)
}

func TestEmit_NoAssets(t *testing.T) {
	err := newTestEmitter(nil).Emit(context.Background(), nil, filepath.Join(t.TempDir(), "assets.h"))
	assert.ErrorIs(t, err, ErrNoAssets)
}

func TestEmit_Cancelled(t *testing.T) {
	testChdir(t, t.TempDir())
	writeFiles(t, map[string]string{"a.js": "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newTestEmitter(nil).Emit(ctx, []string{"a.js"}, "assets.h")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Options(t *testing.T) {
	e := New(asset.NewBuilder(asset.NewResolver(nil, nil)), Options{Indent: -2, PerLine: 0})
	assert.Equal(t, Options{Indent: 0, PerLine: 12}, e.Options())

	testChdir(t, t.TempDir())
	writeFiles(t, map[string]string{"a.js": "abc"})

	var buf bytes.Buffer
	e = New(asset.NewBuilder(asset.NewResolver(nil, nil)), Options{Indent: 2, PerLine: 2})
	require.NoError(t, e.Write(context.Background(), &buf, []string{"a.js"}, "a.h"))
	assert.Contains(t, buf.String(), "{\n  0x61, 0x62,\n  0x63\n};\n")
	assert.Contains(t, buf.String(), `  { "a.js", "application/javascript", asset_a_js_data, 3, `)
}

func TestRecords(t *testing.T) {
	testChdir(t, t.TempDir())
	writeFiles(t, map[string]string{"b.css": "b", "a.js": "a"})

	recs, err := newTestEmitter(nil).Records(context.Background(), []string{"b.css", "a.js"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a.js", recs[0].Path)
	assert.Equal(t, "b.css", recs[1].Path)

	writeFiles(t, map[string]string{"A.js": "A"})
	_, err = newTestEmitter(nil).Records(context.Background(), []string{"a.js", "A.js"})
	assert.ErrorIs(t, err, ErrIdentifierCollision)
}
