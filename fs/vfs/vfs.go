// Package vfs implements the virtual filesystem layer: a tree of nodes whose
// behavior can be overridden per node through an operations table, path
// resolution and the open file descriptor table.
package vfs

import "claudeos/kernel"

// NodeType describes the kind of object a Node represents.
type NodeType uint8

const (
	TypeFile        NodeType = 0x01
	TypeDirectory   NodeType = 0x02
	TypeCharDevice  NodeType = 0x03
	TypeBlockDevice NodeType = 0x04
	TypeSymlink     NodeType = 0x05
)

// String implements fmt.Stringer for NodeType.
func (t NodeType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDirectory:
		return "directory"
	case TypeCharDevice:
		return "chardev"
	case TypeBlockDevice:
		return "blockdev"
	case TypeSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// OpenFlag controls how a file is opened.
type OpenFlag uint32

const (
	ReadOnly  OpenFlag = 0x0000
	WriteOnly OpenFlag = 0x0001
	ReadWrite OpenFlag = 0x0002
	Create    OpenFlag = 0x0100
	Truncate  OpenFlag = 0x0200
	Append    OpenFlag = 0x0400

	accessMask OpenFlag = 0x0003
)

// Writable returns true if the flags grant write access.
func (f OpenFlag) Writable() bool {
	mode := f & accessMask
	return mode == WriteOnly || mode == ReadWrite
}

// Whence selects the origin used by Seek.
type Whence int

const (
	SeekSet Whence = iota
	SeekCur
	SeekEnd
)

const (
	// NameMax is the size of a name buffer; names hold at most
	// NameMax-1 bytes.
	NameMax = 64

	// PathMax is the size of a path buffer.
	PathMax = 256

	// MaxChildren is the number of entries a directory can hold.
	MaxChildren = 32

	// MaxOpenFiles is the size of the descriptor table. Descriptors 0-2
	// are reserved for the standard streams.
	MaxOpenFiles = 16

	// FirstFD is the lowest descriptor handed out by Open.
	FirstFD = 3
)

var (
	ErrNotFound      = &kernel.Error{Module: "vfs", Message: "no such file or directory"}
	ErrBadDescriptor = &kernel.Error{Module: "vfs", Message: "bad file descriptor"}
	ErrInvalid       = &kernel.Error{Module: "vfs", Message: "invalid argument"}
	ErrNoSpace       = &kernel.Error{Module: "vfs", Message: "no space left"}
	ErrExists        = &kernel.Error{Module: "vfs", Message: "file exists"}
	ErrNotSupported  = &kernel.Error{Module: "vfs", Message: "operation not supported"}
	ErrNotDir        = &kernel.Error{Module: "vfs", Message: "not a directory"}
	ErrAccess        = &kernel.Error{Module: "vfs", Message: "permission denied"}
	ErrNameTooLong   = &kernel.Error{Module: "vfs", Message: "file name too long"}
)

// Ops is the table of operations a filesystem backend can attach to a node.
// Each entry is optional; the default behavior applies to missing entries.
type Ops struct {
	Open  func(n *Node, flags OpenFlag) *kernel.Error
	Close func(n *Node) *kernel.Error

	// Read and Write transfer data at offset and return the number of
	// bytes transferred.
	Read  func(n *Node, buf []byte, offset uint32) (int, *kernel.Error)
	Write func(n *Node, buf []byte, offset uint32) (int, *kernel.Error)

	// ReadDir returns the index-th entry of a directory or nil.
	ReadDir func(n *Node, index int) *Node

	// FindDir returns the entry called name or nil.
	FindDir func(n *Node, name string) *Node

	// Create adds a new entry of the requested type to the directory n.
	Create func(n *Node, name string, typ NodeType) (*Node, *kernel.Error)
}

// Node is an entry in the filesystem tree. Parent is a back-reference; the
// root node is its own parent.
type Node struct {
	Name  string
	Type  NodeType
	Flags uint32
	Size  uint32
	Inode uint32

	// Data holds the contents of files backed by memory. Only the
	// first Size bytes are valid.
	Data []byte

	Parent   *Node
	Children []*Node

	Ops *Ops

	// Device numbers for device nodes.
	Major uint32
	Minor uint32
}

// IsDir returns true if the node is a directory.
func (n *Node) IsDir() bool {
	return n.Type == TypeDirectory
}

// IsRoot returns true if the node is the root of its tree.
func (n *Node) IsRoot() bool {
	return n.Parent == nil || n.Parent == n
}

// Child returns the entry called name using the FindDir op if the node
// provides one and a linear scan of Children otherwise.
func (n *Node) Child(name string) *Node {
	if n.Ops != nil && n.Ops.FindDir != nil {
		return n.Ops.FindDir(n, name)
	}

	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Entry returns the index-th entry of the directory using the ReadDir op if
// the node provides one.
func (n *Node) Entry(index int) *Node {
	if n.Ops != nil && n.Ops.ReadDir != nil {
		return n.Ops.ReadDir(n, index)
	}

	if index < 0 || index >= len(n.Children) {
		return nil
	}
	return n.Children[index]
}

// Stat describes a node.
type Stat struct {
	Inode uint32
	Type  NodeType
	Size  uint32
	Nlink uint32
}

// Dirent is a directory entry returned by ReadDir.
type Dirent struct {
	Name  string
	Inode uint32
	Type  NodeType
}
