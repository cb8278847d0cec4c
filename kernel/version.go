package kernel

import "github.com/Masterminds/semver/v3"

// Kernel identification reported by uname, the boot banner and /etc/version.
const (
	Name    = "ClaudeOS"
	Arch    = "i386"
	Builder = "MultiClaude Team"

	release = "0.2.0"
)

// Version is the parsed kernel release.
var Version = semver.MustParse(release)

// Release returns the kernel release as MAJOR.MINOR.PATCH.
func Release() string {
	return Version.String()
}

// VersionString returns the one-line version description stored in
// /etc/version.
func VersionString() string {
	return Name + " " + Release() + " (built by " + Builder + ")"
}

// Compatible reports whether the running kernel satisfies a semver
// constraint such as ">= 0.2".
func Compatible(constraint string) (bool, *Error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errBadConstraint
	}

	return c.Check(Version), nil
}

var errBadConstraint = &Error{Module: "kernel", Message: "invalid version constraint"}
