package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrDetect is returned when the content-type detector cannot classify a file.
var ErrDetect = errors.New("mimetype detection failed")

// DefaultDetectTimeout bounds a single detector invocation.
const DefaultDetectTimeout = 10 * time.Second

// builtinTypes are resolved without asking the detector.
var builtinTypes = map[string]string{
	".js":   "application/javascript",
	".css":  "text/css",
	".html": "text/html",
}

// Detector reports the content type of a file that has no known extension.
// data holds the bytes already read from path.
type Detector interface {
	Detect(ctx context.Context, path string, data []byte) (string, error)
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc func(ctx context.Context, path string, data []byte) (string, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, path string, data []byte) (string, error) {
	return f(ctx, path, data)
}

// FileCommand detects content types by running the file(1) utility.
type FileCommand struct {
	// Command is the executable, "file" when empty.
	Command string
	// Args precede the path, {"-b", "-i"} when nil.
	Args []string
	// Timeout bounds one invocation, DefaultDetectTimeout when zero.
	Timeout time.Duration
}

// Detect runs the command with path as its last argument and returns its trimmed stdout.
func (c FileCommand) Detect(ctx context.Context, path string, _ []byte) (string, error) {
	name := c.Command
	if name == "" {
		name = "file"
	}
	args := c.Args
	if args == nil {
		args = []string{"-b", "-i"}
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultDetectTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, append(append([]string{}, args...), path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: %s %s: timed out after %s", ErrDetect, name, path, timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%w: %s %s: %v: %s", ErrDetect, name, path, err, msg)
		}
		return "", fmt.Errorf("%w: %s %s: %v", ErrDetect, name, path, err)
	}
	return stdout.String(), nil
}

// Resolver infers mimetypes from the file extension and falls back to a Detector.
type Resolver struct {
	overrides map[string]string
	detector  Detector
}

// NewResolver creates a Resolver. overrides maps extensions (".svg") to
// mimetypes and takes precedence over the built-in table.
func NewResolver(detector Detector, overrides map[string]string) *Resolver {
	o := make(map[string]string, len(overrides))
	for ext, typ := range overrides {
		o[strings.ToLower(ext)] = typ
	}
	return &Resolver{overrides: o, detector: detector}
}

// Resolve returns the mimetype for path whose content is data.
func (r *Resolver) Resolve(ctx context.Context, path string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if typ, ok := r.overrides[ext]; ok {
		return typ, nil
	}
	if typ, ok := builtinTypes[ext]; ok {
		return typ, nil
	}
	if r.detector == nil {
		return "", fmt.Errorf("%w: %s: no detector configured", ErrDetect, path)
	}

	typ, err := r.detector.Detect(ctx, path, data)
	if err != nil {
		if errors.Is(err, ErrDetect) {
			return "", err
		}
		return "", fmt.Errorf("%w: %s: %v", ErrDetect, path, err)
	}
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return "", fmt.Errorf("%w: %s: empty result", ErrDetect, path)
	}
	return typ, nil
}
