package shell

import (
	"claudeos/fs/vfs"
	"claudeos/kernel"
	"claudeos/kernel/kfmt"
	"claudeos/kernel/proc"
	"claudeos/shell/assistant"
	"io"
)

// MaxInput is the longest line read by the prompt.
const MaxInput = 256

// Terminal is the screen the shell writes to.
type Terminal interface {
	io.Writer

	// Clear blanks the screen and homes the cursor.
	Clear()
}

// Clock is the tick source used by uptime and sleep.
type Clock interface {
	Ticks() uint64
	UptimeSeconds() uint32
	SleepMs(ms uint32)
}

// ProcessTable is the part of the scheduler used by ps and kill.
type ProcessTable interface {
	Current() *proc.Process
	Get(pid uint32) *proc.Process
	List(pids []uint32) int
	Kill(pid uint32) *kernel.Error
}

// Config wires the shell to the rest of the kernel.
type Config struct {
	Terminal  Terminal
	Keyboard  assistant.LineReader
	FS        *vfs.FS
	Clock     Clock
	Processes ProcessTable
	Memory    assistant.Memory

	// Reboot resets the machine. It does not return if the reset worked.
	Reboot func()
}

// Shell is the interactive command interpreter.
type Shell struct {
	cfg       Config
	cwd       string
	history   *History
	env       *Env
	running   bool
	status    int
	builtins  []Builtin
	assistant *assistant.Assistant
}

// New returns a shell with "/" as working directory.
func New(cfg Config) *Shell {
	sh := &Shell{
		cfg:       cfg,
		cwd:       "/",
		history:   NewHistory(MaxHistory),
		env:       NewEnv(),
		running:   true,
		assistant: assistant.New(cfg.Clock, cfg.Memory),
	}
	sh.builtins = builtinTable()
	return sh
}

// Cwd returns the working directory.
func (sh *Shell) Cwd() string {
	return sh.cwd
}

// History returns the command history.
func (sh *Shell) History() *History {
	return sh.history
}

// Env returns the shell environment.
func (sh *Shell) Env() *Env {
	return sh.env
}

// Running reports whether the read-eval loop continues.
func (sh *Shell) Running() bool {
	return sh.running
}

// Status returns the exit status of the last executed line.
func (sh *Shell) Status() int {
	return sh.status
}

// Prompt returns the prompt printed before each line.
func (sh *Shell) Prompt() string {
	return "claude@os:" + sh.cwd + "$ "
}

// Exec records line in the history and runs it. It returns the status of
// the last command executed.
func (sh *Shell) Exec(line string) int {
	if line == "" {
		return sh.status
	}

	sh.history.Add(line)

	p := Parse(Tokenize(line))
	if p == nil {
		return sh.status
	}

	sh.status = sh.Execute(p)
	return sh.status
}

// Run prints the welcome banner and reads and executes lines until the exit
// builtin runs.
func (sh *Shell) Run() {
	sh.printBanner()

	for sh.running {
		io.WriteString(sh.cfg.Terminal, sh.Prompt())

		line := sh.cfg.Keyboard.ReadLine(sh.cfg.Terminal, MaxInput, sh.history)
		if line == "" {
			continue
		}

		sh.Exec(line)
	}
}

func (sh *Shell) printBanner() {
	w := sh.cfg.Terminal
	io.WriteString(w, "\n"+
		"   ██████╗██╗      █████╗ ██╗   ██╗██████╗ ███████╗ ██████╗ ███████╗\n"+
		"  ██╔════╝██║     ██╔══██╗██║   ██║██╔══██╗██╔════╝██╔═══██╗██╔════╝\n"+
		"  ██║     ██║     ███████║██║   ██║██║  ██║█████╗  ██║   ██║███████╗\n"+
		"  ██║     ██║     ██╔══██║██║   ██║██║  ██║██╔══╝  ██║   ██║╚════██║\n"+
		"  ╚██████╗███████╗██║  ██║╚██████╔╝██████╔╝███████╗╚██████╔╝███████║\n"+
		"   ╚═════╝╚══════╝╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚══════╝ ╚═════╝ ╚══════╝\n"+
		"\n")
	kfmt.Fprintf(w, "                    Version %s - Built by %s\n", kernel.Release(), kernel.Builder)
	io.WriteString(w, "              Kernel Claude | Shell+FS Claude | Boss Claude\n"+
		"\n"+
		"  Type 'help' for commands, 'cat /etc/motd' for welcome message\n"+
		"  NEW: Type 'claude' for AI assistant - ask me anything!\n"+
		"\n")
}

// resolve turns a builtin argument into an absolute path.
func (sh *Shell) resolve(p string) string {
	return vfs.Join(sh.cwd, p)
}
