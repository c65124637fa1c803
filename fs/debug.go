package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/cardpoint"
)

// Ensure DebugWriter implements cardpoint.DebugSink at compile time.
var _ cardpoint.DebugSink = (*DebugWriter)(nil)

// DebugWriter writes artifacts to <dir>/<label>_<kind>.txt.
type DebugWriter struct {
	dir string
}

// NewDebugWriter creates a new DebugWriter rooted at dir.
func NewDebugWriter(dir string) *DebugWriter {
	return &DebugWriter{dir: dir}
}

func (d *DebugWriter) Dump(ctx context.Context, label, kind, content string) error {
	name, err := fileName(label)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.dir, name+"_"+kind+".txt"), []byte(content), 0644)
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cardpoint.Errorf(cardpoint.ENOTFOUND, "file not found: %s", path)
	}
	return b, err
}
