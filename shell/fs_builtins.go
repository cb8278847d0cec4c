package shell

import (
	"claudeos/fs/vfs"
	"claudeos/kernel/kfmt"
	"io"
	"strings"
)

const (
	defaultHome = "/home/claude"

	// maxWriteText is the longest text stored by the write builtin,
	// excluding the trailing newline.
	maxWriteText = 510

	lsColumns = 4
)

func builtinCd(sh *Shell, stdio *Stdio, args []string) int {
	shown := defaultHome
	if home, ok := sh.env.Get("HOME"); ok && home != "" {
		shown = home
	}
	if len(args) > 1 {
		shown = args[1]
	}
	target := sh.resolve(shown)

	st, err := sh.cfg.FS.Stat(target)
	switch {
	case err != nil:
		kfmt.Fprintf(stdio.Err, "cd: %s: No such file or directory\n", shown)
		return 1
	case st.Type != vfs.TypeDirectory:
		kfmt.Fprintf(stdio.Err, "cd: %s: Not a directory\n", shown)
		return 1
	}

	sh.cwd = target
	return 0
}

func builtinLs(sh *Shell, stdio *Stdio, args []string) int {
	path := sh.cwd
	if len(args) > 1 {
		path = sh.resolve(args[1])
	}

	st, err := sh.cfg.FS.Stat(path)
	if err != nil {
		kfmt.Fprintf(stdio.Err, "ls: cannot access '%s': No such file or directory\n", path)
		return 1
	}

	if st.Type != vfs.TypeDirectory {
		io.WriteString(stdio.Out, args[1]+"\n")
		return 0
	}

	count := 0
	for {
		ent, ok := sh.cfg.FS.ReadDir(path, count)
		if !ok {
			break
		}

		name := ent.Name
		if ent.Type == vfs.TypeDirectory {
			name += "/"
		}
		io.WriteString(stdio.Out, name+"  ")

		count++
		if count%lsColumns == 0 {
			io.WriteString(stdio.Out, "\n")
		}
	}

	switch {
	case count == 0:
		io.WriteString(stdio.Out, "(empty directory)\n")
	case count%lsColumns != 0:
		io.WriteString(stdio.Out, "\n")
	}
	return 0
}

// builtinCat prints the named files or, without operands, copies its
// standard input.
func builtinCat(sh *Shell, stdio *Stdio, args []string) int {
	if len(args) < 2 {
		if stdio.In == nil {
			io.WriteString(stdio.Err, "cat: missing file operand\n")
			return 1
		}
		io.Copy(stdio.Out, stdio.In)
		return 0
	}

	status := 0
	for _, arg := range args[1:] {
		path := sh.resolve(arg)

		st, err := sh.cfg.FS.Stat(path)
		switch {
		case err != nil:
			kfmt.Fprintf(stdio.Err, "cat: %s: No such file or directory\n", arg)
			status = 1
			continue
		case st.Type == vfs.TypeDirectory:
			kfmt.Fprintf(stdio.Err, "cat: %s: Is a directory\n", arg)
			status = 1
			continue
		}

		data, err := sh.readFile(path)
		if err != nil {
			kfmt.Fprintf(stdio.Err, "cat: %s: Cannot open file\n", arg)
			status = 1
			continue
		}
		stdio.Out.Write(data)
	}
	return status
}

func builtinMkdir(sh *Shell, stdio *Stdio, args []string) int {
	if len(args) < 2 {
		io.WriteString(stdio.Err, "mkdir: missing operand\n")
		return 1
	}

	_, err := sh.cfg.FS.Mkdir(sh.resolve(args[1]))
	switch err {
	case nil:
		return 0
	case vfs.ErrExists:
		kfmt.Fprintf(stdio.Err, "mkdir: cannot create directory '%s': File exists\n", args[1])
	case vfs.ErrNotFound:
		kfmt.Fprintf(stdio.Err, "mkdir: cannot create directory '%s': No such file or directory\n", args[1])
	default:
		kfmt.Fprintf(stdio.Err, "mkdir: cannot create directory '%s': Operation failed\n", args[1])
	}
	return 1
}

func builtinTouch(sh *Shell, stdio *Stdio, args []string) int {
	if len(args) < 2 {
		io.WriteString(stdio.Err, "touch: missing file operand\n")
		return 1
	}

	_, err := sh.cfg.FS.Create(sh.resolve(args[1]))
	switch err {
	case nil, vfs.ErrExists:
		return 0
	case vfs.ErrNotFound:
		kfmt.Fprintf(stdio.Err, "touch: cannot touch '%s': No such file or directory\n", args[1])
	default:
		kfmt.Fprintf(stdio.Err, "touch: cannot touch '%s': Operation failed\n", args[1])
	}
	return 1
}

// builtinWrite replaces the contents of a file with its remaining
// arguments joined by spaces, creating the file if needed.
func builtinWrite(sh *Shell, stdio *Stdio, args []string) int {
	if len(args) < 3 {
		io.WriteString(stdio.Err, "write: usage: write <file> <text...>\n")
		return 1
	}

	text := strings.Join(args[2:], " ")
	if len(text) > maxWriteText {
		text = text[:maxWriteText]
	}

	fd, err := sh.cfg.FS.Open(sh.resolve(args[1]), vfs.WriteOnly|vfs.Create|vfs.Truncate)
	switch err {
	case nil:
	case vfs.ErrNotFound:
		kfmt.Fprintf(stdio.Err, "write: cannot create '%s': No such directory\n", args[1])
		return 1
	default:
		io.WriteString(stdio.Err, "write: failed to create file\n")
		return 1
	}
	defer sh.cfg.FS.Close(fd)

	if _, err = sh.cfg.FS.Write(fd, []byte(text+"\n")); err != nil {
		kfmt.Fprintf(stdio.Err, "write: %s: %s\n", args[1], describe(err))
		return 1
	}
	return 0
}
