// Package workspace owns the scratch directory that workers write their
// per-attempt key files into. The directory is created under the current
// working directory so that a crashed or killed run leaves something the
// user can see and delete, rather than hiding debris in the system temp dir.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Workspace is a scratch directory whose contents are partitioned by slot
// index: worker n only ever touches <dir>/<n> and <dir>/<n>.pub, so no
// locking is needed around file operations.
type Workspace struct {
	dir string
}

// Create makes a fresh scratch directory under parent ("." for the current
// directory). The caller owns removal via Remove.
func Create(parent string) (*Workspace, error) {
	dir, err := os.MkdirTemp(parent, "brock-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory in %s: %w", parent, err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// SlotPaths returns the private and public key paths for a slot index.
// The key generator writes to exactly these paths.
func (w *Workspace) SlotPaths(slot int) (privatePath, publicPath string) {
	privatePath = filepath.Join(w.dir, strconv.Itoa(slot))
	return privatePath, privatePath + ".pub"
}

// Remove deletes the scratch directory and everything in it.
func (w *Workspace) Remove() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("failed to remove scratch directory %s: %w", w.dir, err)
	}
	return nil
}
