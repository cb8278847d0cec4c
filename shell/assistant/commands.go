package assistant

import "strings"

// Command describes a shell command known to the assistant.
type Command struct {
	Name        string
	Usage       string
	Description string
	Example     string
	Category    string
}

var commands = []Command{
	{"ls", "ls [directory]", "List files and directories in the current or specified directory", "ls /home/claude", "filesystem"},
	{"cd", "cd <directory>", "Change the current working directory", "cd /home/claude", "filesystem"},
	{"pwd", "pwd", "Print the current working directory path", "pwd", "filesystem"},
	{"cat", "cat <file>", "Display the contents of a file", "cat /etc/motd", "filesystem"},
	{"mkdir", "mkdir <directory>", "Create a new directory", "mkdir projects", "filesystem"},
	{"touch", "touch <file>", "Create an empty file or update timestamp", "touch notes.txt", "filesystem"},
	{"write", "write <file> <text>", "Create a new file with the specified text content", "write hello.txt Hello World!", "filesystem"},

	{"help", "help", "Display a list of all available commands", "help", "system"},
	{"clear", "clear", "Clear the screen", "clear", "system"},
	{"exit", "exit", "Exit the shell (but where would you go?)", "exit", "system"},
	{"reboot", "reboot", "Restart the computer", "reboot", "system"},
	{"uname", "uname [-a|-s|-m|-r]", "Print system information (name, version, architecture)", "uname -a", "system"},
	{"uptime", "uptime", "Show how long the system has been running", "uptime", "system"},
	{"sleep", "sleep <milliseconds>", "Pause execution for the specified number of milliseconds", "sleep 1000", "system"},
	{"ps", "ps", "List running processes", "ps", "system"},
	{"kill", "kill <pid>", "Terminate a process by its process ID", "kill 42", "system"},

	{"whoami", "whoami", "Print the current username (it's claude!)", "whoami", "user"},
	{"echo", "echo <text>", "Print text to the screen", "echo Hello World", "user"},
	{"history", "history", "Show the command history", "history", "user"},
	{"env", "env", "Print all environment variables", "env", "user"},
	{"export", "export NAME=VALUE", "Set an environment variable", "export EDITOR=vim", "user"},
	{"date", "date", "Print the current date and time", "date", "user"},

	{"claude", "claude [question]", "Your friendly AI assistant! Ask me anything about ClaudeOS", "claude how do I list files", "ai"},
}

// keywords maps words found in questions to command names. Entries are
// tried in order.
var keywords = []struct {
	word    string
	command string
}{
	{"list", "ls"},
	{"files", "ls"},
	{"directory", "ls"},
	{"directories", "ls"},
	{"folder", "ls"},
	{"folders", "ls"},
	{"dir", "ls"},
	{"change", "cd"},
	{"navigate", "cd"},
	{"go", "cd"},
	{"move", "cd"},
	{"path", "pwd"},
	{"where", "pwd"},
	{"current", "pwd"},
	{"read", "cat"},
	{"view", "cat"},
	{"show", "cat"},
	{"display", "cat"},
	{"content", "cat"},
	{"contents", "cat"},
	{"create", "mkdir"},
	{"make", "mkdir"},
	{"new", "mkdir"},
	{"write", "write"},
	{"save", "write"},
	{"empty", "touch"},

	{"clear", "clear"},
	{"cls", "clear"},
	{"screen", "clear"},
	{"exit", "exit"},
	{"quit", "exit"},
	{"leave", "exit"},
	{"restart", "reboot"},
	{"reboot", "reboot"},
	{"reset", "reboot"},
	{"version", "uname"},
	{"info", "uname"},
	{"system", "uname"},
	{"uptime", "uptime"},
	{"running", "uptime"},
	{"time", "uptime"},
	{"sleep", "sleep"},
	{"wait", "sleep"},
	{"pause", "sleep"},
	{"delay", "sleep"},
	{"process", "ps"},
	{"processes", "ps"},
	{"task", "ps"},
	{"tasks", "ps"},
	{"kill", "kill"},
	{"stop", "kill"},
	{"terminate", "kill"},
	{"end", "kill"},

	{"user", "whoami"},
	{"username", "whoami"},
	{"who", "whoami"},
	{"print", "echo"},
	{"say", "echo"},
	{"output", "echo"},
	{"history", "history"},
	{"previous", "history"},
	{"commands", "history"},
	{"environment", "env"},
	{"variables", "env"},
	{"variable", "export"},
	{"set", "export"},
	{"date", "date"},
}

// Commands returns the command dictionary.
func Commands() []Command {
	return commands
}

// Lookup returns the dictionary entry for name (case-insensitive) or nil.
func Lookup(name string) *Command {
	for i := range commands {
		if strings.EqualFold(commands[i].Name, name) {
			return &commands[i]
		}
	}
	return nil
}

// FindCommand returns the command a question is most likely about: the
// first command whose name appears in the question, otherwise the command
// mapped to the first keyword that appears in it.
func FindCommand(q string) *Command {
	for i := range commands {
		if contains(q, commands[i].Name) {
			return &commands[i]
		}
	}

	for _, kw := range keywords {
		if contains(q, kw.word) {
			if cmd := Lookup(kw.command); cmd != nil {
				return cmd
			}
		}
	}

	return nil
}

// CommandHelp returns the help text for a command. The second result is
// false if the command is unknown.
func CommandHelp(name string) (string, bool) {
	cmd := Lookup(name)
	if cmd == nil {
		return "[Claude AI] I don't know about that command.\n" +
			indent + "Type 'help' to see all available commands.\n", false
	}

	return "[Claude AI] The '" + cmd.Name + "' command " + cmd.Description + "\n\n" +
		indent + "Usage: " + cmd.Usage + "\n" +
		indent + "Example: " + cmd.Example + "\n", true
}
