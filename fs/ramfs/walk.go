package ramfs

import (
	"claudeos/fs/vfs"
	"fmt"
	"io"
	"io/fs"
	"path"
)

// WalkFunc is invoked by Walk for every node with its absolute path.
type WalkFunc func(p string, n *vfs.Node) error

// Walk visits the tree rooted at n in depth-first order, parents before
// their entries and entries in directory order. The walk stops at the first
// error returned by fn.
func Walk(n *vfs.Node, fn WalkFunc) error {
	return walk(vfs.PathOf(n), n, fn)
}

func walk(p string, n *vfs.Node, fn WalkFunc) error {
	if err := fn(p, n); err != nil {
		return err
	}

	if !n.IsDir() {
		return nil
	}

	for i := 0; ; i++ {
		child := n.Entry(i)
		if child == nil {
			return nil
		}

		if err := walk(path.Join(p, child.Name), child, fn); err != nil {
			return err
		}
	}
}

// Import copies the regular files and directories of fsys into the
// directory into. Existing directories are merged; existing files are left
// untouched. File contents are truncated to the buffer size.
func (r *FS) Import(fsys fs.FS, into *vfs.Node) error {
	if into == nil || !into.IsDir() {
		return fmt.Errorf("ramfs: import target: %w", vfs.ErrNotDir)
	}

	dirs := map[string]*vfs.Node{".": into}

	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}

		parent := dirs[path.Dir(p)]
		if parent == nil {
			// The parent was skipped.
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		existing := parent.Child(d.Name())

		switch {
		case d.IsDir():
			if existing == nil {
				n, kerr := r.CreateDir(parent, d.Name())
				if kerr != nil {
					return fmt.Errorf("ramfs: import %s: %w", p, kerr)
				}
				existing = n
			}

			if !existing.IsDir() {
				return fs.SkipDir
			}
			dirs[p] = existing
		case d.Type().IsRegular():
			if existing != nil {
				return nil
			}

			content, err := readHead(fsys, p)
			if err != nil {
				return fmt.Errorf("ramfs: import %s: %w", p, err)
			}

			if _, kerr := r.CreateFile(parent, d.Name(), content); kerr != nil {
				return fmt.Errorf("ramfs: import %s: %w", p, kerr)
			}
		}

		return nil
	})
}

// readHead returns the first BufferSize-1 bytes of the file at p.
func readHead(fsys fs.FS, p string) (string, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxContent))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
