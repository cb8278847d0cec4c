package ramfs

import (
	"claudeos/fs/vfs"
	"claudeos/kernel"
)

const rule = "================================================================================\n"

func motd() string {
	return rule +
		"                    Welcome to " + kernel.Name + " v" + kernel.Release() + "\n" +
		"                  Built by the " + kernel.Builder + "\n" +
		rule +
		"\n" +
		"This operating system was collaboratively built by multiple Claude instances:\n" +
		"  - Kernel Claude: Boot, memory, interrupts, keyboard, timer, processes\n" +
		"  - Shell+FS Claude: Shell, commands, filesystem, AI assistant\n" +
		"  - Boss Claude: Architecture, coordination, integration\n" +
		"\n" +
		"NEW IN v" + kernel.Release() + ":\n" +
		"  - Type 'claude' for your AI assistant - ask anything about ClaudeOS!\n" +
		"  - Real uptime tracking with timer\n" +
		"  - Process management with 'ps' and 'kill'\n" +
		"  - Sleep command for delays\n" +
		"\n" +
		"Type 'help' to see available commands.\n" +
		"Type 'claude' to chat with your AI assistant!\n" +
		"\n"
}

const profile = "# ClaudeOS Shell Profile\n" +
	"export PATH=/bin:/usr/bin\n" +
	"export HOME=/home/claude\n" +
	"export USER=claude\n"

const welcome = "Hello! I'm Claude, your friendly AI assistant.\n" +
	"This is your home directory on ClaudeOS.\n" +
	"\n" +
	"TALK TO ME!\n" +
	"  claude                 - Enter interactive chat mode\n" +
	"  claude how do I <x>   - Ask how to do something\n" +
	"  claude what is <x>    - Learn about a command\n" +
	"  claude system status  - Get system information\n" +
	"\n" +
	"Basic commands:\n" +
	"  ls          - List files in current directory\n" +
	"  cat <file>  - Display file contents\n" +
	"  pwd         - Print working directory\n" +
	"  cd <dir>    - Change directory\n" +
	"  help        - Show all commands\n" +
	"\n" +
	"Have fun exploring! I'm here to help!\n"

// seedEntry describes a node of the boot tree. Parents are listed before
// their entries.
type seedEntry struct {
	dir     string
	name    string
	isDir   bool
	content func() string
}

func text(s string) func() string {
	return func() string { return s }
}

var seedTree = []seedEntry{
	{dir: "/", name: "bin", isDir: true},
	{dir: "/", name: "dev", isDir: true},
	{dir: "/", name: "etc", isDir: true},
	{dir: "/etc", name: "motd", content: motd},
	{dir: "/etc", name: "hostname", content: text("claudeos\n")},
	{dir: "/etc", name: "version", content: func() string { return kernel.VersionString() + "\n" }},
	{dir: "/", name: "home", isDir: true},
	{dir: "/home", name: "claude", isDir: true},
	{dir: "/home/claude", name: ".profile", content: text(profile)},
	{dir: "/home/claude", name: "welcome.txt", content: text(welcome)},
	{dir: "/", name: "tmp", isDir: true},
	{dir: "/tmp", name: "test.txt", content: text("This is a test file in /tmp.\n")},
	{dir: "/", name: "usr", isDir: true},
	{dir: "/usr", name: "bin", isDir: true},
	{dir: "/usr", name: "lib", isDir: true},
}

// Seed materializes the boot tree:
//
//	/bin /dev /etc/{motd,hostname,version} /home/claude/{.profile,welcome.txt}
//	/tmp/test.txt /usr/{bin,lib}
func (r *FS) Seed() *kernel.Error {
	dirs := map[string]*vfs.Node{"/": r.root}

	for _, ent := range seedTree {
		parent := dirs[ent.dir]

		if ent.isDir {
			n, err := r.CreateDir(parent, ent.name)
			if err != nil {
				return err
			}

			path := "/" + ent.name
			if ent.dir != "/" {
				path = ent.dir + path
			}
			dirs[path] = n
			continue
		}

		if _, err := r.CreateFile(parent, ent.name, ent.content()); err != nil {
			return err
		}
	}

	return nil
}
