package shell

import (
	"bytes"
	"claudeos/fs/vfs"
	"claudeos/kernel"
	"claudeos/kernel/kfmt"
	"io"
)

const readChunk = 256

// Stdio holds the streams of a running builtin. In is nil when nothing is
// piped or redirected into the command.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// fileWriter writes to an open VFS descriptor.
type fileWriter struct {
	fs *vfs.FS
	fd int
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.fs.Write(w.fd, p)
	if err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Execute runs the commands of p in order and returns the status of the
// last one. The output of a command terminated by | becomes the input of
// the next command.
func (sh *Shell) Execute(p *Pipeline) int {
	var (
		status int
		pipe   *bytes.Buffer
	)

	for i := range p.Commands {
		stdio := &Stdio{Out: sh.cfg.Terminal, Err: sh.cfg.Terminal}
		if pipe != nil {
			stdio.In = pipe
		}

		piped := p.Commands[i].Piped && i+1 < len(p.Commands)
		status, pipe = sh.runStage(&p.Commands[i], stdio, piped)
	}

	if p.Background {
		io.WriteString(sh.cfg.Terminal, "[bg] pipeline ran in foreground\n")
	}

	return status
}

// runStage connects the redirections of cmd and runs it. If piped is set
// the output is captured and returned for the next stage.
func (sh *Shell) runStage(cmd *Command, stdio *Stdio, piped bool) (int, *bytes.Buffer) {
	name := cmd.Args[0]

	if cmd.RedirectIn != "" {
		data, err := sh.readFile(sh.resolve(cmd.RedirectIn))
		if err != nil {
			kfmt.Fprintf(stdio.Err, "%s: %s: %s\n", name, cmd.RedirectIn, describe(err))
			return 1, nil
		}
		stdio.In = bytes.NewReader(data)
	}

	var next *bytes.Buffer
	switch {
	case cmd.RedirectOut != "":
		flags := vfs.WriteOnly | vfs.Create | vfs.Truncate
		if cmd.Append {
			flags = vfs.WriteOnly | vfs.Create | vfs.Append
		}

		fd, err := sh.cfg.FS.Open(sh.resolve(cmd.RedirectOut), flags)
		if err != nil {
			kfmt.Fprintf(stdio.Err, "%s: %s: %s\n", name, cmd.RedirectOut, describe(err))
			return 1, nil
		}
		defer sh.cfg.FS.Close(fd)

		stdio.Out = &fileWriter{fs: sh.cfg.FS, fd: fd}
	case piped:
		next = new(bytes.Buffer)
		stdio.Out = next
	}

	return sh.run(cmd.Args, stdio), next
}

// run invokes the builtin named by args[0].
func (sh *Shell) run(args []string, stdio *Stdio) int {
	b := sh.builtin(args[0])
	if b == nil {
		kfmt.Fprintf(stdio.Err, "%s: command not found\n", args[0])
		return 127
	}

	return b.Run(sh, stdio, args)
}

// readFile returns the contents of the file at the absolute path p.
func (sh *Shell) readFile(p string) ([]byte, *kernel.Error) {
	fd, err := sh.cfg.FS.Open(p, vfs.ReadOnly)
	if err != nil {
		return nil, err
	}
	defer sh.cfg.FS.Close(fd)

	var (
		data []byte
		buf  [readChunk]byte
	)
	for {
		n, err := sh.cfg.FS.Read(fd, buf[:])
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return data, nil
		}
		data = append(data, buf[:n]...)
	}
}

// describe returns the diagnostic printed for a VFS error.
func describe(err *kernel.Error) string {
	switch err {
	case vfs.ErrNotFound:
		return "No such file or directory"
	case vfs.ErrNotDir:
		return "Not a directory"
	case vfs.ErrAccess:
		return "Permission denied"
	case vfs.ErrExists:
		return "File exists"
	case vfs.ErrNoSpace:
		return "No space left on device"
	case vfs.ErrNameTooLong:
		return "File name too long"
	default:
		return err.Message
	}
}
