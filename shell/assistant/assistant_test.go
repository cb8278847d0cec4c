package assistant

import (
	"bytes"
	"claudeos/device/keyboard"
	"claudeos/kernel/mem"
	"io"
	"strings"
	"testing"
)

type fakeClock struct {
	ticks  uint64
	uptime uint32
}

func (c fakeClock) Ticks() uint64         { return c.ticks }
func (c fakeClock) UptimeSeconds() uint32 { return c.uptime }

type fakeMemory struct {
	used, available mem.Size
}

func (m fakeMemory) Used() mem.Size      { return m.used }
func (m fakeMemory) Available() mem.Size { return m.available }

type scriptedReader struct {
	lines []string
}

func (r *scriptedReader) ReadLine(w io.Writer, _ int, _ keyboard.History) string {
	if len(r.lines) == 0 {
		return "exit"
	}

	line := r.lines[0]
	r.lines = r.lines[1:]
	io.WriteString(w, line+"\n")
	return line
}

func TestClassify(t *testing.T) {
	specs := []struct {
		q   string
		exp QuestionType
	}{
		{"how do I list files", How},
		{"HOW TO reboot", How},
		{"what is ls", What},
		{"what's this", What},
		{"where can I find files", Where},
		{"why is the sky blue", Why},
		{"show me the files", List},
		{"system status", System},
		{"how much memory", System},
		{"memory usage", System},
		{"can you assist me", Help},
		{"hello", Unknown},
	}

	for specIndex, spec := range specs {
		if got := Classify(spec.q); got != spec.exp {
			t.Errorf("[spec %d] expected %q to be classified as %s; got %s", specIndex, spec.q, spec.exp, got)
		}
	}
}

func TestFindCommand(t *testing.T) {
	specs := []struct {
		q   string
		exp string
	}{
		{"what does cat do", "cat"},
		{"how do I list files", "ls"},
		{"how can I navigate", "cd"},
		{"where can I run programs", "pwd"},
		{"how to create a file", "mkdir"},
		{"PWD please", "pwd"},
		{"purple", ""},
	}

	for specIndex, spec := range specs {
		cmd := FindCommand(spec.q)
		switch {
		case spec.exp == "" && cmd != nil:
			t.Errorf("[spec %d] expected no match for %q; got %q", specIndex, spec.q, cmd.Name)
		case spec.exp != "" && (cmd == nil || cmd.Name != spec.exp):
			t.Errorf("[spec %d] expected %q to match %q; got %v", specIndex, spec.q, spec.exp, cmd)
		}
	}
}

func TestCommandHelp(t *testing.T) {
	text, ok := CommandHelp("LS")
	if !ok {
		t.Fatal("expected ls to be known")
	}

	exp := "[Claude AI] The 'ls' command List files and directories in the current or specified directory\n\n" +
		"            Usage: ls [directory]\n" +
		"            Example: ls /home/claude\n"
	if text != exp {
		t.Errorf("expected:\n%q\ngot:\n%q", exp, text)
	}

	if text, ok = CommandHelp("frobnicate"); ok || !strings.Contains(text, "I don't know about that command") {
		t.Errorf("unexpected result for unknown command: %t %q", ok, text)
	}
}

func TestCommandsCoverBuiltins(t *testing.T) {
	if got := len(Commands()); got != 23 {
		t.Fatalf("expected 23 commands; got %d", got)
	}

	seen := make(map[string]bool)
	for _, cmd := range Commands() {
		if seen[cmd.Name] {
			t.Errorf("duplicate entry for %q", cmd.Name)
		}
		seen[cmd.Name] = true
	}

	for _, kw := range keywords {
		if Lookup(kw.command) == nil {
			t.Errorf("keyword %q maps to unknown command %q", kw.word, kw.command)
		}
	}
}

func TestAnswer(t *testing.T) {
	a := New(fakeClock{ticks: 372500, uptime: 3725}, fakeMemory{used: 2 * mem.Kb, available: 4*mem.Mb - 2*mem.Kb})

	specs := []struct {
		q   string
		exp string
	}{
		{
			"what does cat do",
			"[Claude AI] The 'cat' command Display the contents of a file\n" +
				"            Usage: cat <file>\n",
		},
		{
			"how do I list files",
			"[Claude AI] To do that, use the 'ls' command!\n" +
				"            Usage: ls [directory]\n" +
				"            Example: ls /home/claude\n",
		},
		{
			"where can I run programs",
			"[Claude AI] You can use the 'pwd' command for that.\n" +
				"            Print the current working directory path\n",
		},
		{
			"kill",
			"[Claude AI] You might want to try the 'kill' command.\n" +
				"            Terminate a process by its process ID\n" +
				"            Usage: kill <pid>\n" +
				"            Example: kill 42\n",
		},
		{
			"system status",
			"[Claude AI] System Status Report\n" +
				"            ----------------------\n" +
				"            Uptime: 1h 2m 5s\n" +
				"            Memory Used: 2 KB\n" +
				"            Memory Free: 4094 KB\n" +
				"            Timer Ticks: 372500\n" +
				"\n            Everything looks good!\n",
		},
		{
			"tell me about etc",
			"[Claude AI] The /etc directory contains system configuration files.\n" +
				"            Files: motd (welcome message), hostname, version\n" +
				"            Try: ls /etc  or  cat /etc/motd\n",
		},
		{
			"please assist",
			"[Claude AI] I'm here to help! Here's what I can do:\n" +
				"            - Explain any command: 'claude what does ls do'\n" +
				"            - Guide you: 'claude how do I create a file'\n" +
				"            - System info: 'claude system status'\n" +
				"            - Or just type 'help' for all commands\n",
		},
	}

	for specIndex, spec := range specs {
		if got := a.Answer(spec.q); got != spec.exp {
			t.Errorf("[spec %d] expected answer to %q to be:\n%q\ngot:\n%q", specIndex, spec.q, spec.exp, got)
		}
	}

	if got := a.Answer("xyzzy"); !strings.HasPrefix(got, "[Claude AI] I'm not sure I understand that question.\n") {
		t.Errorf("expected fallback answer; got %q", got)
	}
}

func TestSystemStatusWithoutSources(t *testing.T) {
	got := New(nil, nil).SystemStatus()
	if !strings.Contains(got, "Uptime: 0m 0s\n") || !strings.Contains(got, "Timer Ticks: 0\n") {
		t.Errorf("unexpected status report:\n%s", got)
	}
}

func TestInteractive(t *testing.T) {
	var (
		buf bytes.Buffer
		r   = &scriptedReader{lines: []string{"", "help", "commands", "what does ls do", "BYE", "never read"}}
	)

	New(nil, nil).Interactive(&buf, r)

	out := buf.String()
	for _, exp := range []string{
		"[Claude AI] Hi! I'm your ClaudeOS assistant.\n",
		"You> help\n[Claude AI] You can ask me about:\n",
		"FILESYSTEM: ls, cd, pwd, cat, mkdir, touch, write\n",
		"[Claude AI] The 'ls' command List files and directories in the current or specified directory\n" +
			"            Usage: ls [directory]\n\n",
	} {
		if !strings.Contains(out, exp) {
			t.Errorf("expected output to contain %q; got:\n%s", exp, out)
		}
	}

	if !strings.HasSuffix(out, "You> BYE\n[Claude AI] Goodbye! Type 'claude' anytime to chat again.\n\n") {
		t.Errorf("expected chat to end after bye; got:\n%s", out)
	}

	if len(r.lines) != 1 {
		t.Errorf("expected one unread line; got %d", len(r.lines))
	}

	if got := strings.Count(out, "You> "); got != 5 {
		t.Errorf("expected 5 prompts; got %d", got)
	}
}
