// Package ramfs implements the in-memory filesystem backend. Nodes and file
// buffers come from fixed pools that are allocated when the filesystem is
// created; nothing is ever returned to them.
package ramfs

import (
	"claudeos/fs/vfs"
	"claudeos/kernel"
	"claudeos/kernel/kfmt"
)

const (
	// MaxNodes is the size of the node pool, the root included.
	MaxNodes = 128

	// BufferSize is the size of a file buffer. A file holds at most
	// BufferSize-1 bytes.
	BufferSize = 1024

	// MaxBuffers is the number of file buffers in the pool.
	MaxBuffers = 16

	maxContent = BufferSize - 1
)

// FS is a ramfs instance.
type FS struct {
	nodes     [MaxNodes]vfs.Node
	nodeCount int

	buffers     [MaxBuffers][BufferSize]byte
	bufferCount int

	nextInode uint32
	ops       vfs.Ops
	root      *vfs.Node
}

// New returns a ramfs containing only the root directory.
func New() *FS {
	r := &FS{nextInode: 1}
	r.ops = vfs.Ops{
		Open:   r.open,
		Write:  r.write,
		Create: r.create,
	}

	r.root = r.allocNode()
	r.root.Name = "/"
	r.root.Type = vfs.TypeDirectory
	r.root.Parent = r.root
	return r
}

// Root returns the root directory.
func (r *FS) Root() *vfs.Node {
	return r.root
}

// Mount makes this ramfs the root of v.
func (r *FS) Mount(v *vfs.FS) {
	v.SetRoot(r.root)
	kfmt.Printf("[KERNEL] VFS initialized (ramfs, %d nodes)\n", r.nodeCount)
}

// NodesUsed returns the number of nodes taken from the pool.
func (r *FS) NodesUsed() int {
	return r.nodeCount
}

// BuffersUsed returns the number of file buffers taken from the pool.
func (r *FS) BuffersUsed() int {
	return r.bufferCount
}

// allocNode takes the next node from the pool and assigns it an inode
// number. It returns nil when the pool is exhausted.
func (r *FS) allocNode() *vfs.Node {
	if r.nodeCount >= MaxNodes {
		return nil
	}

	n := &r.nodes[r.nodeCount]
	r.nodeCount++

	*n = vfs.Node{Inode: r.nextInode, Ops: &r.ops}
	r.nextInode++
	return n
}

func (r *FS) allocBuffer() []byte {
	if r.bufferCount >= MaxBuffers {
		return nil
	}

	buf := r.buffers[r.bufferCount][:]
	r.bufferCount++
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// link allocates a node called name and wires it into parent. Names are
// unique within a directory.
func (r *FS) link(parent *vfs.Node, name string, typ vfs.NodeType) (*vfs.Node, *kernel.Error) {
	switch {
	case parent == nil || !parent.IsDir():
		return nil, vfs.ErrNotDir
	case name == "":
		return nil, vfs.ErrInvalid
	case len(name) >= vfs.NameMax:
		return nil, vfs.ErrNameTooLong
	case name == "." || name == ".." || parent.Child(name) != nil:
		return nil, vfs.ErrExists
	case len(parent.Children) >= vfs.MaxChildren:
		return nil, vfs.ErrNoSpace
	}

	n := r.allocNode()
	if n == nil {
		return nil, vfs.ErrNoSpace
	}

	n.Name = name
	n.Type = typ
	n.Parent = parent
	parent.Children = append(parent.Children, n)
	return n, nil
}

// CreateDir adds an empty directory called name to parent.
func (r *FS) CreateDir(parent *vfs.Node, name string) (*vfs.Node, *kernel.Error) {
	return r.link(parent, name, vfs.TypeDirectory)
}

// CreateFile adds a file called name to parent. Non-empty content is copied
// into a buffer from the pool and truncated to BufferSize-1 bytes; if the
// pool is exhausted the file is created empty.
func (r *FS) CreateFile(parent *vfs.Node, name, content string) (*vfs.Node, *kernel.Error) {
	n, err := r.link(parent, name, vfs.TypeFile)
	if err != nil || content == "" {
		return n, err
	}

	if buf := r.allocBuffer(); buf != nil {
		n.Data = buf
		n.Size = uint32(copy(buf[:maxContent], content))
	}
	return n, nil
}

func (r *FS) create(dir *vfs.Node, name string, typ vfs.NodeType) (*vfs.Node, *kernel.Error) {
	switch typ {
	case vfs.TypeDirectory:
		return r.CreateDir(dir, name)
	case vfs.TypeFile:
		return r.CreateFile(dir, name, "")
	default:
		return nil, vfs.ErrNotSupported
	}
}

// open truncates files opened for writing with the Truncate flag.
// Directories cannot be opened for writing.
func (r *FS) open(n *vfs.Node, flags vfs.OpenFlag) *kernel.Error {
	if !flags.Writable() {
		return nil
	}

	if n.IsDir() {
		return vfs.ErrAccess
	}

	if flags&vfs.Truncate != 0 {
		for i := uint32(0); i < n.Size; i++ {
			n.Data[i] = 0
		}
		n.Size = 0
	}
	return nil
}

// write copies buf into the file buffer at offset. The buffer is taken from
// the pool on the first write. Writes that reach the capacity of the buffer
// are short.
func (r *FS) write(n *vfs.Node, buf []byte, offset uint32) (int, *kernel.Error) {
	if n.Type != vfs.TypeFile {
		return 0, vfs.ErrInvalid
	}

	if len(buf) == 0 {
		return 0, nil
	}

	if n.Data == nil {
		if n.Data = r.allocBuffer(); n.Data == nil {
			return 0, vfs.ErrNoSpace
		}
	}

	if offset >= maxContent {
		return 0, vfs.ErrNoSpace
	}

	count := copy(n.Data[offset:maxContent], buf)
	if end := offset + uint32(count); end > n.Size {
		n.Size = end
	}
	return count, nil
}
