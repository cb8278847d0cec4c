package vfs

import (
	"path"
	"strings"
)

// IsAbsolute returns true if p starts at the root.
func IsAbsolute(p string) bool {
	return strings.HasPrefix(p, "/")
}

// Normalize collapses repeated slashes and resolves "." and ".." lexically.
// An empty path normalizes to "/".
func Normalize(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean(p)
}

// Join resolves p against the directory cwd. Absolute paths are returned
// normalized.
func Join(cwd, p string) string {
	if IsAbsolute(p) {
		return Normalize(p)
	}

	if cwd == "" {
		cwd = "/"
	}
	return Normalize(cwd + "/" + p)
}

// Split returns the normalized parent directory of p and its last component.
func Split(p string) (dir, name string) {
	p = Normalize(p)
	if p == "/" {
		return "/", ""
	}

	dir, name = path.Split(p)
	if dir == "" {
		dir = "."
	} else if dir != "/" {
		dir = strings.TrimSuffix(dir, "/")
	}
	return dir, name
}

// PathOf returns the absolute path of n by walking its parent links.
func PathOf(n *Node) string {
	if n == nil {
		return ""
	}

	var parts []string
	for cur := n; !cur.IsRoot(); cur = cur.Parent {
		parts = append(parts, cur.Name)
	}

	if len(parts) == 0 {
		return "/"
	}

	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteByte('/')
		sb.WriteString(parts[i])
	}
	return sb.String()
}
