// Package assistant implements the "claude" helper built into the shell. It
// answers questions about the available commands with canned responses
// picked by simple pattern matching.
package assistant

import (
	"claudeos/device/keyboard"
	"claudeos/kernel/kfmt"
	"claudeos/kernel/mem"
	"io"
	"strings"

	"golang.org/x/text/cases"
)

const (
	// InputMax is the longest line accepted in interactive mode.
	InputMax = 256

	indent = "            "
)

// QuestionType is the class assigned to a question.
type QuestionType uint8

// The supported question types.
const (
	How QuestionType = iota
	What
	Where
	Why
	List
	System
	Help
	Unknown
)

var questionTypeNames = [...]string{"how", "what", "where", "why", "list", "system", "help", "unknown"}

func (q QuestionType) String() string {
	if int(q) < len(questionTypeNames) {
		return questionTypeNames[q]
	}
	return "unknown"
}

// Clock reports the time since boot.
type Clock interface {
	Ticks() uint64
	UptimeSeconds() uint32
}

// Memory reports heap usage.
type Memory interface {
	Used() mem.Size
	Available() mem.Size
}

// LineReader reads an edited input line.
type LineReader interface {
	ReadLine(w io.Writer, max int, hist keyboard.History) string
}

// Assistant answers questions. The clock and memory sources feed the
// status report; either may be nil.
type Assistant struct {
	clock  Clock
	memory Memory
}

// New returns an assistant reporting on the given clock and heap.
func New(clock Clock, memory Memory) *Assistant {
	return &Assistant{clock: clock, memory: memory}
}

// contains reports whether needle occurs in haystack ignoring case.
func contains(haystack, needle string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(haystack), fold.String(needle))
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if contains(haystack, n) {
			return true
		}
	}
	return false
}

// Classify assigns a question type using the first matching pattern group.
func Classify(q string) QuestionType {
	switch {
	case containsAny(q, "how do", "how can", "how to"):
		return How
	case containsAny(q, "what is", "what does", "what's"):
		return What
	case containsAny(q, "where is", "where can", "where do"):
		return Where
	case contains(q, "why"):
		return Why
	case containsAny(q, "list", "show", "display"):
		return List
	case containsAny(q, "system", "status", "memory", "uptime", "process"):
		return System
	case containsAny(q, "help", "assist"):
		return Help
	}
	return Unknown
}

// SystemStatus returns the uptime, heap and tick report.
func (a *Assistant) SystemStatus() string {
	var (
		b            strings.Builder
		uptime       uint32
		ticks        uint64
		used, unused mem.Size
	)

	if a.clock != nil {
		uptime, ticks = a.clock.UptimeSeconds(), a.clock.Ticks()
	}
	if a.memory != nil {
		used, unused = a.memory.Used(), a.memory.Available()
	}

	b.WriteString("[Claude AI] System Status Report\n")
	b.WriteString(indent + "----------------------\n")

	b.WriteString(indent + "Uptime: ")
	if hours := uptime / 3600; hours > 0 {
		kfmt.Fprintf(&b, "%dh ", hours)
	}
	kfmt.Fprintf(&b, "%dm %ds\n", (uptime%3600)/60, uptime%60)

	kfmt.Fprintf(&b, indent+"Memory Used: %d KB\n", uint64(used/mem.Kb))
	kfmt.Fprintf(&b, indent+"Memory Free: %d KB\n", uint64(unused/mem.Kb))
	kfmt.Fprintf(&b, indent+"Timer Ticks: %d\n", uint32(ticks))

	b.WriteString("\n" + indent + "Everything looks good!\n")
	return b.String()
}

// Answer returns the response to a single question.
func (a *Assistant) Answer(q string) string {
	qtype := Classify(q)
	if qtype == System {
		return a.SystemStatus()
	}

	if cmd := FindCommand(q); cmd != nil {
		return commandAnswer(qtype, cmd)
	}

	switch {
	case containsAny(q, "/etc", "etc"):
		return "[Claude AI] The /etc directory contains system configuration files.\n" +
			indent + "Files: motd (welcome message), hostname, version\n" +
			indent + "Try: ls /etc  or  cat /etc/motd\n"
	case containsAny(q, "/home", "home"):
		return "[Claude AI] The /home directory contains user home directories.\n" +
			indent + "Your home is /home/claude - it has welcome.txt and .profile\n" +
			indent + "Try: cd /home/claude  then  ls\n"
	case containsAny(q, "/tmp", "tmp", "temporary"):
		return "[Claude AI] The /tmp directory is for temporary files.\n" +
			indent + "Feel free to create files there with 'write' or 'touch'.\n" +
			indent + "Try: ls /tmp\n"
	case qtype == Help:
		return "[Claude AI] I'm here to help! Here's what I can do:\n" +
			indent + "- Explain any command: 'claude what does ls do'\n" +
			indent + "- Guide you: 'claude how do I create a file'\n" +
			indent + "- System info: 'claude system status'\n" +
			indent + "- Or just type 'help' for all commands\n"
	}

	return "[Claude AI] I'm not sure I understand that question.\n" +
		indent + "Try asking things like:\n" +
		indent + "- 'claude how do I list files'\n" +
		indent + "- 'claude what does cat do'\n" +
		indent + "- 'claude system status'\n" +
		indent + "Or type 'help' to see all commands.\n"
}

func commandAnswer(qtype QuestionType, cmd *Command) string {
	switch qtype {
	case How:
		return "[Claude AI] To do that, use the '" + cmd.Name + "' command!\n" +
			indent + "Usage: " + cmd.Usage + "\n" +
			indent + "Example: " + cmd.Example + "\n"
	case What:
		return "[Claude AI] The '" + cmd.Name + "' command " + cmd.Description + "\n" +
			indent + "Usage: " + cmd.Usage + "\n"
	case Where:
		return "[Claude AI] You can use the '" + cmd.Name + "' command for that.\n" +
			indent + cmd.Description + "\n"
	default:
		return "[Claude AI] You might want to try the '" + cmd.Name + "' command.\n" +
			indent + cmd.Description + "\n" +
			indent + "Usage: " + cmd.Usage + "\n" +
			indent + "Example: " + cmd.Example + "\n"
	}
}

// Interactive runs the chat loop until the user types exit, quit or bye.
func (a *Assistant) Interactive(w io.Writer, r LineReader) {
	io.WriteString(w, "\n"+
		"[Claude AI] Hi! I'm your ClaudeOS assistant.\n"+
		indent+"Ask me anything about the system!\n"+
		indent+"Type 'exit' to leave chat mode.\n"+
		"\n")

	for {
		io.WriteString(w, "You> ")

		input := r.ReadLine(w, InputMax, nil)
		if input == "" {
			continue
		}

		switch {
		case strings.EqualFold(input, "exit"), strings.EqualFold(input, "quit"), strings.EqualFold(input, "bye"):
			io.WriteString(w, "[Claude AI] Goodbye! Type 'claude' anytime to chat again.\n\n")
			return
		case strings.EqualFold(input, "help"):
			io.WriteString(w, "[Claude AI] You can ask me about:\n"+
				indent+"- Commands: 'what does ls do', 'how to create a file'\n"+
				indent+"- System: 'system status', 'how much memory'\n"+
				indent+"- Directories: 'what's in /etc'\n"+
				indent+"Or just describe what you want to do!\n\n")
		case strings.EqualFold(input, "commands"), strings.EqualFold(input, "list commands"):
			io.WriteString(w, "[Claude AI] Here are the command categories:\n\n"+
				indent+"FILESYSTEM: ls, cd, pwd, cat, mkdir, touch, write\n"+
				indent+"SYSTEM: help, clear, exit, reboot, uname, uptime, sleep, ps, kill\n"+
				indent+"USER: whoami, echo, history, env, export, date\n"+
				indent+"AI: claude (that's me!)\n\n"+
				indent+"Ask about any command for more details!\n\n")
		default:
			io.WriteString(w, a.Answer(input))
			io.WriteString(w, "\n")
		}
	}
}
