package asset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Record is one file prepared for embedding. It is immutable once built.
type Record struct {
	// Path is the path exactly as it was given.
	Path string
	// Identifier is the slug of Path, see Identifier.
	Identifier string
	// Size is the number of bytes read.
	Size int
	// Mimetype is the resolved content type.
	Mimetype string
	// ETag is the hex SHA-1 of Data.
	ETag string
	// Data is the file content at read time.
	Data []byte
}

// Builder turns paths into Records.
type Builder struct {
	resolver *Resolver
}

// NewBuilder returns a Builder resolving mimetypes with r.
func NewBuilder(r *Resolver) *Builder {
	return &Builder{resolver: r}
}

// Build reads path once and derives every field of the Record from that read.
func (b *Builder) Build(ctx context.Context, path string) (*Record, error) {
	id, err := Identifier(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}

	mimetype, err := b.resolver.Resolve(ctx, path, data)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Path:       path,
		Identifier: id,
		Size:       len(data),
		Mimetype:   mimetype,
		ETag:       Digest(data),
		Data:       data,
	}
	slog.Debug("built asset", "path", path, "size", rec.Size, "mimetype", mimetype, "etag", rec.ETag)
	return rec, nil
}

// CVar is the C symbol holding the record's bytes.
func (r *Record) CVar() string {
	return "asset_" + r.Identifier + "_data"
}

// WriteData writes the static byte array declaration of the record.
// Values are separated by ", " and a line break plus indent follows every
// perLine values. The last value has no trailing comma.
func (r *Record) WriteData(w io.Writer, indent, perLine int) error {
	if perLine < 1 {
		perLine = 1
	}
	pad := strings.Repeat(" ", indent)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "static unsigned char %s[] = {\n%s", r.CVar(), pad)

	data := r.Data
	if len(data) == 0 {
		// Zero-length arrays are not valid C; Size still reports 0.
		data = []byte{0}
	}
	for i, c := range data {
		fmt.Fprintf(bw, "%#x", c)
		next := i + 1
		if next == len(data) {
			break
		}
		if next%perLine == 0 {
			fmt.Fprintf(bw, ",\n%s", pad)
		} else {
			bw.WriteString(", ")
		}
	}
	bw.WriteString("\n};\n")
	return bw.Flush()
}

// Metadata renders the record's row of the assets table.
func (r *Record) Metadata(indent int) string {
	return fmt.Sprintf("%s{ %s, %s, %s, %d, %s }",
		strings.Repeat(" ", indent),
		Quote(r.Path),
		Quote(r.Mimetype),
		r.CVar(),
		r.Size,
		Quote(r.ETag),
	)
}

// Quote returns s as a C string literal.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03o`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
