package shell

import (
	"claudeos/kernel"
	"claudeos/kernel/kfmt"
	"io"
)

// Builtin is a command implemented inside the shell.
type Builtin struct {
	Name        string
	Description string
	Run         func(sh *Shell, stdio *Stdio, args []string) int
}

func builtinTable() []Builtin {
	return []Builtin{
		{"help", "Display available commands", builtinHelp},
		{"echo", "Print arguments to screen", builtinEcho},
		{"clear", "Clear the screen", builtinClear},
		{"exit", "Exit the shell", builtinExit},
		{"pwd", "Print working directory", builtinPwd},
		{"cd", "Change directory", builtinCd},
		{"ls", "List directory contents", builtinLs},
		{"cat", "Display file contents", builtinCat},
		{"history", "Show command history", builtinHistory},
		{"uname", "Print system information", builtinUname},
		{"whoami", "Print current user name", builtinWhoami},
		{"env", "Print environment variables", builtinEnv},
		{"export", "Set environment variable", builtinExport},
		{"date", "Print current date/time", builtinDate},
		{"uptime", "Show system uptime", builtinUptime},
		{"mkdir", "Create a directory", builtinMkdir},
		{"touch", "Create empty file", builtinTouch},
		{"write", "Write text to file", builtinWrite},
		{"reboot", "Reboot the system", builtinReboot},
		{"sleep", "Sleep for N milliseconds", builtinSleep},
		{"ps", "List running processes", builtinPs},
		{"kill", "Terminate a process by PID", builtinKill},
		{"claude", "AI assistant - ask me anything!", builtinClaude},
	}
}

// Builtins returns the builtin command table.
func (sh *Shell) Builtins() []Builtin {
	return sh.builtins
}

func (sh *Shell) builtin(name string) *Builtin {
	for i := range sh.builtins {
		if sh.builtins[i].Name == name {
			return &sh.builtins[i]
		}
	}
	return nil
}

func builtinHelp(sh *Shell, stdio *Stdio, _ []string) int {
	w := stdio.Out
	io.WriteString(w, "\n"+
		"  ╔═══════════════════════════════════════════════════╗\n"+
		"  ║           ClaudeOS Shell Commands                 ║\n"+
		"  ╠═══════════════════════════════════════════════════╣\n")
	for _, b := range sh.builtins {
		kfmt.Fprintf(w, "  ║  %-10s - %-36s║\n", b.Name, b.Description)
	}
	io.WriteString(w, "  ╚═══════════════════════════════════════════════════╝\n"+
		"\n"+
		"  Operators: | (pipe), > (redirect), >> (append), & (background)\n\n")
	return 0
}

func builtinEcho(_ *Shell, stdio *Stdio, args []string) int {
	for i, arg := range args[1:] {
		if i > 0 {
			io.WriteString(stdio.Out, " ")
		}
		io.WriteString(stdio.Out, arg)
	}
	io.WriteString(stdio.Out, "\n")
	return 0
}

func builtinClear(sh *Shell, _ *Stdio, _ []string) int {
	sh.cfg.Terminal.Clear()
	return 0
}

func builtinExit(sh *Shell, stdio *Stdio, _ []string) int {
	sh.running = false
	io.WriteString(stdio.Out, "Goodbye!\n")
	return 0
}

func builtinPwd(sh *Shell, stdio *Stdio, _ []string) int {
	io.WriteString(stdio.Out, sh.cwd+"\n")
	return 0
}

func builtinHistory(sh *Shell, stdio *Stdio, _ []string) int {
	for i := 0; i < sh.history.Len(); i++ {
		kfmt.Fprintf(stdio.Out, "  %d  %s\n", i+1, sh.history.Entry(i))
	}
	return 0
}

func builtinUname(_ *Shell, stdio *Stdio, args []string) int {
	var all, name, machine, release bool

	for _, arg := range args[1:] {
		if len(arg) == 0 || arg[0] != '-' {
			continue
		}
		for _, flag := range arg[1:] {
			switch flag {
			case 'a':
				all = true
			case 's':
				name = true
			case 'm':
				machine = true
			case 'r', 'v':
				release = true
			}
		}
	}

	if !all && !machine && !release {
		name = true
	}

	var out []byte
	add := func(s string) {
		if len(out) > 0 {
			out = append(out, ' ')
		}
		out = append(out, s...)
	}

	if all || name {
		add(kernel.Name)
	}
	if all || release {
		add(kernel.Release())
	}
	if all || machine {
		add(kernel.Arch)
	}

	stdio.Out.Write(append(out, '\n'))
	return 0
}

func builtinWhoami(sh *Shell, stdio *Stdio, _ []string) int {
	user, ok := sh.env.Get("USER")
	if !ok {
		user = "claude"
	}
	io.WriteString(stdio.Out, user+"\n")
	return 0
}

func builtinEnv(sh *Shell, stdio *Stdio, _ []string) int {
	sh.env.Each(func(name, value string) {
		io.WriteString(stdio.Out, name+"="+value+"\n")
	})
	return 0
}

func builtinExport(sh *Shell, stdio *Stdio, args []string) int {
	if len(args) < 2 {
		return builtinEnv(sh, stdio, args)
	}

	arg := args[1]
	eq := -1
	for i := 0; i < len(arg); i++ {
		if arg[i] == '=' {
			eq = i
			break
		}
	}

	if eq < 0 {
		io.WriteString(stdio.Err, "export: invalid format. Use: export NAME=VALUE\n")
		return 1
	}

	if err := sh.env.Set(arg[:eq], arg[eq+1:]); err != nil {
		kfmt.Fprintf(stdio.Err, "export: %s\n", err.Message)
		return 1
	}
	return 0
}

func builtinDate(_ *Shell, stdio *Stdio, _ []string) int {
	io.WriteString(stdio.Out, "Wed Feb  4 00:00:00 UTC 2026\n"+
		"[date: Real time requires RTC driver]\n")
	return 0
}
