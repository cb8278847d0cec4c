package vfs

import (
	"claudeos/kernel"
	"strings"
)

type descriptor struct {
	node   *Node
	flags  OpenFlag
	offset uint32
	inUse  bool
}

// FS is a mounted filesystem tree together with its descriptor table.
type FS struct {
	root *Node
	fds  [MaxOpenFiles]descriptor
}

// New returns a filesystem with an empty descriptor table. The descriptors
// of the standard streams are marked as used.
func New() *FS {
	fs := &FS{}
	for fd := 0; fd < FirstFD; fd++ {
		fs.fds[fd].inUse = true
	}
	return fs
}

// SetRoot mounts root as the top of the tree.
func (fs *FS) SetRoot(root *Node) {
	fs.root = root
}

// Root returns the root node.
func (fs *FS) Root() *Node {
	return fs.root
}

// Lookup resolves an absolute path.
func (fs *FS) Lookup(path string) *Node {
	if fs.root == nil {
		return nil
	}

	if path == "/" {
		return fs.root
	}
	return fs.LookupFrom(fs.root, path)
}

// LookupFrom resolves path starting at start. Absolute paths restart at the
// root. Empty components and "." are skipped and ".." moves to the parent
// of the current node; ".." at the root stays at the root. Every other
// component must be looked up inside a directory.
func (fs *FS) LookupFrom(start *Node, path string) *Node {
	if start == nil {
		return nil
	}

	cur := start
	if IsAbsolute(path) {
		if cur = fs.root; cur == nil {
			return nil
		}
	}

	for _, name := range strings.Split(path, "/") {
		switch name {
		case "", ".":
			continue
		case "..":
			if cur.Parent != nil {
				cur = cur.Parent
			}
			continue
		}

		if !cur.IsDir() {
			return nil
		}

		if len(name) >= NameMax {
			name = name[:NameMax-1]
		}

		if cur = cur.Child(name); cur == nil {
			return nil
		}
	}

	return cur
}

// Open resolves path and allocates a descriptor for it. With the Create
// flag a missing file is created first.
func (fs *FS) Open(path string, flags OpenFlag) (int, *kernel.Error) {
	node := fs.Lookup(path)
	if node == nil {
		if flags&Create == 0 {
			return -1, ErrNotFound
		}

		var err *kernel.Error
		if node, err = fs.Create(path); err != nil {
			return -1, err
		}
	}

	fd := fs.allocFD()
	if fd < 0 {
		return -1, ErrNoSpace
	}

	if node.Ops != nil && node.Ops.Open != nil {
		if err := node.Ops.Open(node, flags); err != nil {
			return -1, err
		}
	}

	d := &fs.fds[fd]
	d.inUse = true
	d.node = node
	d.flags = flags
	d.offset = 0
	if flags&Append != 0 {
		d.offset = node.Size
	}

	return fd, nil
}

func (fs *FS) allocFD() int {
	for fd := FirstFD; fd < MaxOpenFiles; fd++ {
		if !fs.fds[fd].inUse {
			return fd
		}
	}
	return -1
}

func (fs *FS) descriptor(fd int) (*descriptor, *kernel.Error) {
	if fd < 0 || fd >= MaxOpenFiles || !fs.fds[fd].inUse || fs.fds[fd].node == nil {
		return nil, ErrBadDescriptor
	}
	return &fs.fds[fd], nil
}

// Close invokes the node's Close op and releases the descriptor.
func (fs *FS) Close(fd int) *kernel.Error {
	d, err := fs.descriptor(fd)
	if err != nil {
		return err
	}

	if ops := d.node.Ops; ops != nil && ops.Close != nil {
		ops.Close(d.node)
	}

	*d = descriptor{}
	return nil
}

// Read transfers up to len(buf) bytes from the current offset and advances
// the offset by the number of bytes read.
func (fs *FS) Read(fd int, buf []byte) (int, *kernel.Error) {
	d, err := fs.descriptor(fd)
	if err != nil {
		return -1, err
	}

	var (
		node = d.node
		n    int
	)

	switch {
	case node.Ops != nil && node.Ops.Read != nil:
		if n, err = node.Ops.Read(node, buf, d.offset); err != nil {
			return -1, err
		}
	case node.Type == TypeFile && node.Data != nil:
		if d.offset < node.Size {
			n = copy(buf, node.Data[d.offset:node.Size])
		}
	}

	if n > 0 {
		d.offset += uint32(n)
	}
	return n, nil
}

// Write transfers buf through the node's Write op at the current offset.
// Descriptors opened with Append always write at the end of the file.
func (fs *FS) Write(fd int, buf []byte) (int, *kernel.Error) {
	d, err := fs.descriptor(fd)
	if err != nil {
		return -1, err
	}

	if !d.flags.Writable() {
		return -1, ErrAccess
	}

	node := d.node
	if node.Ops == nil || node.Ops.Write == nil {
		return 0, ErrNotSupported
	}

	if d.flags&Append != 0 {
		d.offset = node.Size
	}

	n, err := node.Ops.Write(node, buf, d.offset)
	if err != nil {
		return -1, err
	}

	if n > 0 {
		d.offset += uint32(n)
	}
	return n, nil
}

// Seek moves the offset of fd and returns the new offset.
func (fs *FS) Seek(fd int, offset int32, whence Whence) (uint32, *kernel.Error) {
	d, err := fs.descriptor(fd)
	if err != nil {
		return 0, err
	}

	var base int64
	switch whence {
	case SeekSet:
	case SeekCur:
		base = int64(d.offset)
	case SeekEnd:
		base = int64(d.node.Size)
	default:
		return 0, ErrInvalid
	}

	next := base + int64(offset)
	if next < 0 || next > int64(^uint32(0)) {
		return 0, ErrInvalid
	}

	d.offset = uint32(next)
	return d.offset, nil
}

// ReadDir returns the index-th entry of the directory at path.
func (fs *FS) ReadDir(path string, index int) (Dirent, bool) {
	dir := fs.Lookup(path)
	if dir == nil || !dir.IsDir() {
		return Dirent{}, false
	}

	child := dir.Entry(index)
	if child == nil {
		return Dirent{}, false
	}

	return Dirent{Name: child.Name, Inode: child.Inode, Type: child.Type}, true
}

// Stat describes the node at path.
func (fs *FS) Stat(path string) (Stat, *kernel.Error) {
	node := fs.Lookup(path)
	if node == nil {
		return Stat{}, ErrNotFound
	}

	return Stat{Inode: node.Inode, Type: node.Type, Size: node.Size, Nlink: 1}, nil
}

// Mkdir creates a directory at path.
func (fs *FS) Mkdir(path string) (*Node, *kernel.Error) {
	return fs.create(path, TypeDirectory)
}

// Create creates an empty file at path.
func (fs *FS) Create(path string) (*Node, *kernel.Error) {
	return fs.create(path, TypeFile)
}

func (fs *FS) create(path string, typ NodeType) (*Node, *kernel.Error) {
	if fs.Lookup(path) != nil {
		return nil, ErrExists
	}

	dirPath, name := Split(path)
	switch {
	case name == "" || name == "." || name == "..":
		return nil, ErrInvalid
	case len(name) >= NameMax:
		return nil, ErrNameTooLong
	}

	dir := fs.Lookup(dirPath)
	switch {
	case dir == nil:
		return nil, ErrNotFound
	case !dir.IsDir():
		return nil, ErrNotDir
	case dir.Ops == nil || dir.Ops.Create == nil:
		return nil, ErrNotSupported
	}

	return dir.Ops.Create(dir, name, typ)
}
