package filesync

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/ropecore/internal/engine/rope"
)

// Load reads the file at path into a rope.
func Load(path string) (rope.Rope, error) {
	f, err := os.Open(path)
	if err != nil {
		return rope.Rope{}, err
	}
	defer f.Close()

	r, err := rope.FromReader(f)
	if err != nil {
		return rope.Rope{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return r, nil
}

// Save writes r to path atomically: the text goes to a temporary file in
// the same directory which is then renamed over path. An existing file's
// permissions are kept.
func Save(path string, r rope.Rope) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = r.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
