package kernel

// Error describes a kernel error. Kernel errors are declared as package-level
// pointers to Error so callers can compare against them directly and so the
// syscall layer can translate them into result codes.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// String returns the error in "[module] message" form.
func (e *Error) String() string {
	return "[" + e.Module + "] " + e.Message
}
