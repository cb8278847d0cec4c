package shell

// MaxHistory is the number of lines kept by the shell history.
const MaxHistory = 50

// History is a bounded list of submitted lines, oldest first. It satisfies
// keyboard.History so the line editor can recall entries.
type History struct {
	entries []string
	max     int
}

// NewHistory returns an empty history keeping at most max lines.
func NewHistory(max int) *History {
	return &History{entries: make([]string, 0, max), max: max}
}

// Add appends line unless it is empty or repeats the most recent entry.
// When the history is full the oldest entry is dropped.
func (h *History) Add(line string) {
	if line == "" || h.max <= 0 {
		return
	}

	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}

	if len(h.entries) == h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:h.max-1]
	}

	h.entries = append(h.entries, line)
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entry returns the entry at index, or "" if index is out of range.
func (h *History) Entry(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[index]
}
