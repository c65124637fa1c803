// Package fs provides file-based storage for fetched pages, run results
// and debug artifacts.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/cardpoint"
)

// DefaultCacheDir is the directory the local updater writes to.
const DefaultCacheDir = "html_cache"

// Ensure Cache implements cardpoint.Cache at compile time.
var _ cardpoint.Cache = (*Cache)(nil)

// Cache stores the last fetched page per source as <dir>/<LABEL>.html.
type Cache struct {
	dir string
}

// NewCache creates a new Cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Path returns the file that holds label's page.
func (c *Cache) Path(label string) (string, error) {
	name, err := fileName(label)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dir, name+".html"), nil
}

// Load returns the cached page for label, or ENOTFOUND when there is none.
func (c *Cache) Load(ctx context.Context, label string) (string, error) {
	path, err := c.Path(label)
	if err != nil {
		return "", err
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", cardpoint.Errorf(cardpoint.ENOTFOUND, "no cached page for %s", label)
	} else if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", cardpoint.Errorf(cardpoint.ENOTFOUND, "cached page for %s is empty", label)
	}
	return string(b), nil
}

// Save atomically replaces the cached page for label.
func (c *Cache) Save(ctx context.Context, label, html string) error {
	path, err := c.Path(label)
	if err != nil {
		return err
	}
	return writeAtomic(path, []byte(html))
}

// fileName validates label for use as a file name.
func fileName(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" || label == "." || label == ".." || strings.ContainsAny(label, `/\`) {
		return "", cardpoint.Errorf(cardpoint.EINVALID, "invalid source label %q", label)
	}
	return label, nil
}

// writeAtomic writes data to a temporary file next to path and renames
// it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
