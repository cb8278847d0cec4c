package shell

import (
	"claudeos/kernel/kfmt"
	"claudeos/kernel/proc"
	"io"
	"strconv"
	"strings"
)

// maxQuestion is the longest question passed to the assistant.
const maxQuestion = 250

func builtinUptime(sh *Shell, stdio *Stdio, _ []string) int {
	var (
		secs  uint32
		ticks uint64
	)
	if sh.cfg.Clock != nil {
		secs, ticks = sh.cfg.Clock.UptimeSeconds(), sh.cfg.Clock.Ticks()
	}

	io.WriteString(stdio.Out, "up ")
	if days := secs / 86400; days > 0 {
		kfmt.Fprintf(stdio.Out, "%d day", days)
		if days != 1 {
			io.WriteString(stdio.Out, "s")
		}
		io.WriteString(stdio.Out, ", ")
	}

	kfmt.Fprintf(stdio.Out, "%d:%02d:%02d (%d ticks)\n", (secs%86400)/3600, (secs%3600)/60, secs%60, ticks)
	return 0
}

func builtinReboot(sh *Shell, stdio *Stdio, _ []string) int {
	io.WriteString(stdio.Out, "\n  Rebooting ClaudeOS...\n\n")

	if sh.cfg.Reboot != nil {
		sh.cfg.Reboot()
	}

	io.WriteString(stdio.Err, "Reboot failed. Please reset manually.\n")
	return 1
}

// parsePositive returns the value of a decimal argument or 0 if it is not
// a positive number.
func parsePositive(arg string) uint32 {
	v, err := strconv.ParseInt(arg, 10, 32)
	if err != nil || v <= 0 {
		return 0
	}
	return uint32(v)
}

func builtinSleep(sh *Shell, stdio *Stdio, args []string) int {
	if len(args) < 2 {
		io.WriteString(stdio.Err, "sleep: usage: sleep <milliseconds>\n")
		return 1
	}

	ms := parsePositive(args[1])
	if ms == 0 {
		kfmt.Fprintf(stdio.Err, "sleep: invalid time: %s\n", args[1])
		return 1
	}

	kfmt.Fprintf(stdio.Out, "Sleeping for %s ms...\n", args[1])
	if sh.cfg.Clock != nil {
		sh.cfg.Clock.SleepMs(ms)
	}
	io.WriteString(stdio.Out, "Done.\n")
	return 0
}

func builtinPs(sh *Shell, stdio *Stdio, _ []string) int {
	w := stdio.Out
	io.WriteString(w, "\n"+
		"  PID  STATE       NAME\n"+
		"  ---  ----------  ----------------\n")

	count := 0
	if sh.cfg.Processes != nil {
		var pids [proc.MaxProcesses]uint32
		count = sh.cfg.Processes.List(pids[:])

		for _, pid := range pids[:count] {
			if p := sh.cfg.Processes.Get(pid); p != nil {
				kfmt.Fprintf(w, "  %3d  %-10s  %s\n", p.PID, p.State, p.Name)
			}
		}
	}

	if count == 0 {
		io.WriteString(w, "\n  (Process scheduler not active)\n")
	}

	kfmt.Fprintf(w, "\nTotal processes: %d\n", count)
	return 0
}

func builtinKill(sh *Shell, stdio *Stdio, args []string) int {
	if len(args) < 2 {
		io.WriteString(stdio.Err, "kill: usage: kill <pid>\n")
		return 1
	}

	pid := parsePositive(args[1])
	switch {
	case pid == 0:
		kfmt.Fprintf(stdio.Err, "kill: invalid PID: %s\n", args[1])
		return 1
	case pid == proc.InitPID:
		kfmt.Fprintf(stdio.Err, "kill: cannot kill kernel (PID %d)\n", pid)
		return 1
	case sh.cfg.Processes == nil:
		kfmt.Fprintf(stdio.Err, "kill: process %s not found or cannot be killed\n", args[1])
		return 1
	}

	if cur := sh.cfg.Processes.Current(); cur != nil && cur.PID == pid {
		kfmt.Fprintf(stdio.Err, "kill: cannot kill shell (PID %d)\n", pid)
		return 1
	}

	if err := sh.cfg.Processes.Kill(pid); err != nil {
		kfmt.Fprintf(stdio.Err, "kill: process %s not found or cannot be killed\n", args[1])
		return 1
	}

	kfmt.Fprintf(stdio.Out, "Process %s terminated.\n", args[1])
	return 0
}

// builtinClaude answers the question given as arguments or, without
// arguments, starts an interactive chat.
func builtinClaude(sh *Shell, stdio *Stdio, args []string) int {
	if len(args) == 1 {
		sh.assistant.Interactive(stdio.Out, sh.cfg.Keyboard)
		return 0
	}

	q := strings.Join(args[1:], " ")
	if len(q) > maxQuestion {
		q = q[:maxQuestion]
	}

	io.WriteString(stdio.Out, sh.assistant.Answer(q))
	return 0
}
