package vfs

import "testing"

func TestNormalize(t *testing.T) {
	specs := []struct {
		in  string
		exp string
	}{
		{"", "/"},
		{"/", "/"},
		{"//a///b/", "/a/b"},
		{"/a/./b/../c", "/a/c"},
		{"/..", "/"},
		{"a/../..", ".."},
		{"./x", "x"},
	}

	for specIndex, spec := range specs {
		if got := Normalize(spec.in); got != spec.exp {
			t.Errorf("[spec %d] expected Normalize(%q) = %q; got %q", specIndex, spec.in, spec.exp, got)
		}
	}
}

func TestJoin(t *testing.T) {
	specs := []struct {
		cwd, p string
		exp    string
	}{
		{"/", "etc", "/etc"},
		{"/home/claude", "welcome.txt", "/home/claude/welcome.txt"},
		{"/home/claude", "..", "/home"},
		{"/home/claude", "/tmp", "/tmp"},
		{"", "tmp", "/tmp"},
		{"/tmp/", "./x", "/tmp/x"},
	}

	for specIndex, spec := range specs {
		if got := Join(spec.cwd, spec.p); got != spec.exp {
			t.Errorf("[spec %d] expected Join(%q, %q) = %q; got %q", specIndex, spec.cwd, spec.p, spec.exp, got)
		}
	}
}

func TestSplit(t *testing.T) {
	specs := []struct {
		in      string
		expDir  string
		expName string
	}{
		{"/", "/", ""},
		{"/tmp", "/", "tmp"},
		{"/tmp/x", "/tmp", "x"},
		{"/home/claude/", "/home", "claude"},
		{"x", ".", "x"},
	}

	for specIndex, spec := range specs {
		dir, name := Split(spec.in)
		if dir != spec.expDir || name != spec.expName {
			t.Errorf("[spec %d] expected Split(%q) = (%q, %q); got (%q, %q)", specIndex, spec.in, spec.expDir, spec.expName, dir, name)
		}
	}
}

func TestIsAbsolute(t *testing.T) {
	if !IsAbsolute("/etc") || IsAbsolute("etc") || IsAbsolute("") {
		t.Fatal("unexpected IsAbsolute result")
	}
}

func TestPathOf(t *testing.T) {
	_, nodes := testTree(t)

	for _, p := range []string{"/", "/a", "/a/b", "/etc/hostname"} {
		if got := PathOf(nodes[p]); got != p {
			t.Errorf("expected PathOf to return %q; got %q", p, got)
		}
	}

	if got := PathOf(nil); got != "" {
		t.Errorf("expected an empty path for a nil node; got %q", got)
	}
}
