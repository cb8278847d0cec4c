package shell

import (
	"bytes"
	"claudeos/device/keyboard"
	"claudeos/fs/ramfs"
	"claudeos/fs/vfs"
	"claudeos/kernel"
	"claudeos/kernel/mem"
	"claudeos/kernel/proc"
	"io"
	"strings"
	"testing"
)

type fakeTerminal struct {
	bytes.Buffer
	clears int
}

func (t *fakeTerminal) Clear() {
	t.clears++
	t.Reset()
}

type fakeClock struct {
	ticks  uint64
	uptime uint32
	slept  []uint32
}

func (c *fakeClock) Ticks() uint64         { return c.ticks }
func (c *fakeClock) UptimeSeconds() uint32 { return c.uptime }
func (c *fakeClock) SleepMs(ms uint32)     { c.slept = append(c.slept, ms) }

type fakeMemory struct{}

func (fakeMemory) Used() mem.Size      { return 64 * mem.Kb }
func (fakeMemory) Available() mem.Size { return 4*mem.Mb - 64*mem.Kb }

type fakeProcesses struct {
	procs   []*proc.Process
	current uint32
	killed  []uint32
}

func (f *fakeProcesses) Current() *proc.Process { return f.Get(f.current) }

func (f *fakeProcesses) Get(pid uint32) *proc.Process {
	for _, p := range f.procs {
		if p.PID == pid {
			return p
		}
	}
	return nil
}

func (f *fakeProcesses) List(pids []uint32) int {
	n := 0
	for _, p := range f.procs {
		if n == len(pids) {
			break
		}
		pids[n] = p.PID
		n++
	}
	return n
}

func (f *fakeProcesses) Kill(pid uint32) *kernel.Error {
	if f.Get(pid) == nil {
		return &kernel.Error{Module: "proc", Message: "no such process"}
	}
	f.killed = append(f.killed, pid)
	return nil
}

// scriptedKeyboard returns one line per ReadLine call, echoing it the way
// the line editor does.
type scriptedKeyboard struct {
	lines []string
	hist  keyboard.History
}

func (k *scriptedKeyboard) ReadLine(w io.Writer, _ int, hist keyboard.History) string {
	k.hist = hist
	if len(k.lines) == 0 {
		return "exit"
	}

	line := k.lines[0]
	k.lines = k.lines[1:]
	io.WriteString(w, line+"\n")
	return line
}

type testEnv struct {
	sh    *Shell
	term  *fakeTerminal
	clock *fakeClock
	procs *fakeProcesses
	kbd   *scriptedKeyboard
	fs    *vfs.FS

	rebooted bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := ramfs.New()
	if err := r.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	env := &testEnv{
		term:  &fakeTerminal{},
		clock: &fakeClock{},
		procs: &fakeProcesses{
			procs: []*proc.Process{
				{PID: 0, State: proc.Ready, Name: "idle"},
				{PID: 1, State: proc.Ready, Name: "init"},
				{PID: 2, State: proc.Running, Name: "shell"},
				{PID: 5, State: proc.Sleeping, Name: "worker"},
			},
			current: 2,
		},
		kbd: &scriptedKeyboard{},
		fs:  vfs.New(),
	}
	env.fs.SetRoot(r.Root())

	env.sh = New(Config{
		Terminal:  env.term,
		Keyboard:  env.kbd,
		FS:        env.fs,
		Clock:     env.clock,
		Processes: env.procs,
		Memory:    fakeMemory{},
		Reboot:    func() { env.rebooted = true },
	})
	return env
}

// run executes line and returns its status and the text written to the
// terminal.
func (env *testEnv) run(line string) (int, string) {
	env.term.Reset()
	status := env.sh.Exec(line)
	return status, env.term.String()
}

type step struct {
	line   string
	status int
	out    string
}

func (env *testEnv) check(t *testing.T, steps []step) {
	t.Helper()

	for stepIndex, s := range steps {
		status, out := env.run(s.line)
		if status != s.status {
			t.Errorf("[step %d] %q: expected status %d; got %d", stepIndex, s.line, s.status, status)
		}
		if out != s.out {
			t.Errorf("[step %d] %q: expected output:\n%q\ngot:\n%q", stepIndex, s.line, s.out, out)
		}
	}
}

func TestRoundTrips(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"echo hello", 0, "hello\n"},
		{"pwd", 0, "/\n"},
		{"cd /home/claude", 0, ""},
		{"pwd", 0, "/home/claude\n"},
		{"ls /etc", 0, "motd  hostname  version  \n"},
		{"cat /etc/hostname", 0, "claudeos\n"},
		{"mkdir /tmp/x", 0, ""},
		{"ls /tmp", 0, "test.txt  x/  \n"},
		{"mkdir /tmp/x", 1, "mkdir: cannot create directory '/tmp/x': File exists\n"},
		{"history", 0, "" +
			"  1  echo hello\n" +
			"  2  pwd\n" +
			"  3  cd /home/claude\n" +
			"  4  pwd\n" +
			"  5  ls /etc\n" +
			"  6  cat /etc/hostname\n" +
			"  7  mkdir /tmp/x\n" +
			"  8  ls /tmp\n" +
			"  9  mkdir /tmp/x\n" +
			"  10  history\n"},
	})
}

func TestCommandNotFound(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"frobnicate now", 127, "frobnicate: command not found\n"},
		{"", 127, ""},
		{";;", 127, ""},
		{"echo ok", 0, "ok\n"},
	})

	if got := env.sh.History().Len(); got != 3 {
		t.Errorf("expected 3 history entries; got %d", got)
	}
}

func TestOperators(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"echo hello > /tmp/out", 0, ""},
		{"cat /tmp/out", 0, "hello\n"},
		{"echo world >> /tmp/out", 0, ""},
		{"cat /tmp/out", 0, "hello\nworld\n"},
		{"echo fresh > /tmp/out", 0, ""},
		{"cat /tmp/out", 0, "fresh\n"},
		{"cat /etc/hostname | cat", 0, "claudeos\n"},
		{"cat < /etc/hostname", 0, "claudeos\n"},
		{"echo a b | cat | cat > /tmp/piped", 0, ""},
		{"cat /tmp/piped", 0, "a b\n"},
		{"echo a; echo b", 0, "a\nb\n"},
		{"echo tail |", 0, "tail\n"},
		{"echo bg &", 0, "bg\n[bg] pipeline ran in foreground\n"},
		{"cat < /nope", 1, "cat: /nope: No such file or directory\n"},
		{"echo x > /nope/out", 1, "echo: /nope/out: No such file or directory\n"},
		{"echo x > /etc", 1, "echo: /etc: Permission denied\n"},
		{"frob | cat", 0, "frob: command not found\n"},
	})
}

func TestRelativePaths(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"cd tmp", 0, ""},
		{"pwd", 0, "/tmp\n"},
		{"echo hi > note", 0, ""},
		{"cat note", 0, "hi\n"},
		{"cat /tmp/note", 0, "hi\n"},
		{"cd ..", 0, ""},
		{"pwd", 0, "/\n"},
		{"cd", 0, ""},
		{"pwd", 0, "/home/claude\n"},
		{"ls", 0, ".profile  welcome.txt  \n"},
		{"ls ../..", 0, "bin/  dev/  etc/  home/  \ntmp/  usr/  \n"},
	})
}

func TestCd(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"cd /etc/motd", 1, "cd: /etc/motd: Not a directory\n"},
		{"cd nowhere", 1, "cd: nowhere: No such file or directory\n"},
		{"pwd", 0, "/\n"},
		{"export HOME=/usr/lib", 0, ""},
		{"cd", 0, ""},
		{"pwd", 0, "/usr/lib\n"},
	})

	if got := env.sh.Prompt(); got != "claude@os:/usr/lib$ " {
		t.Errorf("unexpected prompt %q", got)
	}
}

func TestLs(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"ls /", 0, "bin/  dev/  etc/  home/  \ntmp/  usr/  \n"},
		{"ls /bin", 0, "(empty directory)\n"},
		{"ls /etc/motd", 0, "/etc/motd\n"},
		{"ls /missing", 1, "ls: cannot access '/missing': No such file or directory\n"},
	})
}

func TestCat(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"cat", 1, "cat: missing file operand\n"},
		{"cat /etc", 1, "cat: /etc: Is a directory\n"},
		{"cat missing", 1, "cat: missing: No such file or directory\n"},
		{"cat /etc/hostname /tmp/test.txt", 0, "claudeos\nThis is a test file in /tmp.\n"},
		{"cat /etc/version", 0, kernel.VersionString() + "\n"},
	})
}

func TestFileBuiltins(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"mkdir", 1, "mkdir: missing operand\n"},
		{"mkdir /nope/dir", 1, "mkdir: cannot create directory '/nope/dir': No such file or directory\n"},
		{"mkdir /etc/motd/dir", 1, "mkdir: cannot create directory '/etc/motd/dir': Operation failed\n"},
		{"touch", 1, "touch: missing file operand\n"},
		{"touch /tmp/empty", 0, ""},
		{"touch /tmp/empty", 0, ""},
		{"cat /tmp/empty", 0, ""},
		{"touch /nope/file", 1, "touch: cannot touch '/nope/file': No such file or directory\n"},
		{"write /tmp/w", 1, "write: usage: write <file> <text...>\n"},
		{"write /tmp/w hello   there", 0, ""},
		{"cat /tmp/w", 0, "hello there\n"},
		{"write /tmp/w bye", 0, ""},
		{"cat /tmp/w", 0, "bye\n"},
		{"write /nope/w text", 1, "write: cannot create '/nope/w': No such directory\n"},
		{"write /tmp text", 1, "write: failed to create file\n"},
		{"ls /tmp", 0, "test.txt  empty  w  \n"},
	})
}

func TestWriteTruncatesText(t *testing.T) {
	env := newTestEnv(t)

	if status, _ := env.run("write /tmp/long " + strings.Repeat("x", 600)); status != 0 {
		t.Fatalf("expected write to succeed; got status %d", status)
	}

	_, out := env.run("cat /tmp/long")
	if exp := strings.Repeat("x", maxWriteText) + "\n"; out != exp {
		t.Fatalf("expected %d bytes; got %d", len(exp), len(out))
	}
}

func TestInfoBuiltins(t *testing.T) {
	env := newTestEnv(t)
	release := kernel.Release()

	env.check(t, []step{
		{"uname", 0, "ClaudeOS\n"},
		{"uname -a", 0, "ClaudeOS " + release + " i386\n"},
		{"uname -m", 0, "i386\n"},
		{"uname -rs", 0, "ClaudeOS " + release + "\n"},
		{"uname -v x", 0, release + "\n"},
		{"whoami", 0, "claude\n"},
		{"env", 0, "PATH=/bin:/usr/bin\nHOME=/home/claude\nUSER=claude\nSHELL=/bin/csh\n"},
		{"export EDITOR=vim", 0, ""},
		{"export EDITOR", 1, "export: invalid format. Use: export NAME=VALUE\n"},
		{"export", 0, "PATH=/bin:/usr/bin\nHOME=/home/claude\nUSER=claude\nSHELL=/bin/csh\nEDITOR=vim\n"},
		{"export EMPTY=", 0, ""},
		{"date", 0, "Wed Feb  4 00:00:00 UTC 2026\n[date: Real time requires RTC driver]\n"},
	})

	if got, _ := env.sh.Env().Get("EMPTY"); got != "" {
		t.Errorf("expected EMPTY to be empty; got %q", got)
	}
}

func TestHelp(t *testing.T) {
	env := newTestEnv(t)

	status, out := env.run("help")
	if status != 0 {
		t.Fatalf("expected status 0; got %d", status)
	}

	for _, b := range env.sh.Builtins() {
		if !strings.Contains(out, "  ║  "+b.Name) {
			t.Errorf("expected help to list %q", b.Name)
		}
	}

	for _, exp := range []string{
		"║           ClaudeOS Shell Commands                 ║\n",
		"  ║  help       - Display available commands          ║\n",
		"  ║  claude     - AI assistant - ask me anything!     ║\n",
		"  Operators: | (pipe), > (redirect), >> (append), & (background)\n",
	} {
		if !strings.Contains(out, exp) {
			t.Errorf("expected help output to contain %q", exp)
		}
	}

	if got := len(env.sh.Builtins()); got != 23 {
		t.Errorf("expected 23 builtins; got %d", got)
	}
}

func TestUptime(t *testing.T) {
	env := newTestEnv(t)

	specs := []struct {
		uptime uint32
		ticks  uint64
		exp    string
	}{
		{0, 0, "up 0:00:00 (0 ticks)\n"},
		{59, 5900, "up 0:00:59 (5900 ticks)\n"},
		{3725, 372500, "up 1:02:05 (372500 ticks)\n"},
		{90061, 9006100, "up 1 day, 1:01:01 (9006100 ticks)\n"},
		{2*86400 + 600, 17340000, "up 2 days, 0:10:00 (17340000 ticks)\n"},
	}

	for specIndex, spec := range specs {
		env.clock.uptime, env.clock.ticks = spec.uptime, spec.ticks
		if _, out := env.run("uptime"); out != spec.exp {
			t.Errorf("[spec %d] expected %q; got %q", specIndex, spec.exp, out)
		}
	}
}

func TestSleep(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"sleep", 1, "sleep: usage: sleep <milliseconds>\n"},
		{"sleep 0", 1, "sleep: invalid time: 0\n"},
		{"sleep -5", 1, "sleep: invalid time: -5\n"},
		{"sleep soon", 1, "sleep: invalid time: soon\n"},
		{"sleep 250", 0, "Sleeping for 250 ms...\nDone.\n"},
	})

	if len(env.clock.slept) != 1 || env.clock.slept[0] != 250 {
		t.Fatalf("expected a single 250ms sleep; got %v", env.clock.slept)
	}
}

func TestPs(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"ps", 0, "\n" +
			"  PID  STATE       NAME\n" +
			"  ---  ----------  ----------------\n" +
			"    0  READY       idle\n" +
			"    1  READY       init\n" +
			"    2  RUNNING     shell\n" +
			"    5  SLEEPING    worker\n" +
			"\nTotal processes: 4\n"},
	})

	env.procs.procs = nil
	_, out := env.run("ps")
	if !strings.HasSuffix(out, "(Process scheduler not active)\n\nTotal processes: 0\n") {
		t.Errorf("unexpected output for an empty table: %q", out)
	}
}

func TestKill(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"kill", 1, "kill: usage: kill <pid>\n"},
		{"kill abc", 1, "kill: invalid PID: abc\n"},
		{"kill 0", 1, "kill: invalid PID: 0\n"},
		{"kill 1", 1, "kill: cannot kill kernel (PID 1)\n"},
		{"kill 2", 1, "kill: cannot kill shell (PID 2)\n"},
		{"kill 9", 1, "kill: process 9 not found or cannot be killed\n"},
		{"kill 5", 0, "Process 5 terminated.\n"},
	})

	if len(env.procs.killed) != 1 || env.procs.killed[0] != 5 {
		t.Fatalf("expected only pid 5 to be killed; got %v", env.procs.killed)
	}
}

func TestSessionBuiltins(t *testing.T) {
	env := newTestEnv(t)

	env.term.WriteString("stale")
	if status, _ := env.run("clear"); status != 0 || env.term.clears != 1 {
		t.Fatalf("expected the terminal to be cleared once; got %d", env.term.clears)
	}

	env.check(t, []step{
		{"reboot", 1, "\n  Rebooting ClaudeOS...\n\nReboot failed. Please reset manually.\n"},
		{"exit", 0, "Goodbye!\n"},
	})

	if !env.rebooted {
		t.Error("expected reboot hook to be called")
	}

	if env.sh.Running() {
		t.Error("expected exit to stop the shell")
	}
}

func TestClaude(t *testing.T) {
	env := newTestEnv(t)

	env.check(t, []step{
		{"claude what does cat do", 0, "" +
			"[Claude AI] The 'cat' command Display the contents of a file\n" +
			"            Usage: cat <file>\n"},
	})

	_, out := env.run("claude system status")
	for _, exp := range []string{"Memory Used: 64 KB\n", "Memory Free: 4032 KB\n"} {
		if !strings.Contains(out, exp) {
			t.Errorf("expected status report to contain %q; got:\n%s", exp, out)
		}
	}

	env.kbd.lines = []string{"what does ls do", "bye"}
	_, out = env.run("claude")
	if !strings.Contains(out, "You> what does ls do\n[Claude AI] The 'ls' command") ||
		!strings.HasSuffix(out, "[Claude AI] Goodbye! Type 'claude' anytime to chat again.\n\n") {
		t.Errorf("unexpected interactive session:\n%s", out)
	}
}

func TestRun(t *testing.T) {
	env := newTestEnv(t)
	env.kbd.lines = []string{"", "echo hi", "cd /etc", "exit", "echo unreachable"}

	env.sh.Run()

	out := env.term.String()
	for _, exp := range []string{
		"Version " + kernel.Release() + " - Built by MultiClaude Team\n",
		"claude@os:/$ \nclaude@os:/$ echo hi\nhi\n",
		"claude@os:/etc$ exit\nGoodbye!\n",
	} {
		if !strings.Contains(out, exp) {
			t.Errorf("expected output to contain %q; got:\n%s", exp, out)
		}
	}

	if strings.Contains(out, "unreachable") {
		t.Error("expected the loop to stop after exit")
	}

	if env.kbd.hist != env.sh.History() {
		t.Error("expected the line editor to receive the shell history")
	}

	if got := env.sh.History().Len(); got != 3 {
		t.Errorf("expected 3 history entries; got %d", got)
	}
}
