package kfmt

import (
	"bytes"
	"io"
)

// PrefixWriter tags each line written through it with a prefix such as
// "[hal] vga(1.0.0): ". Every line fragment reaches Sink in a single Write
// call together with its prefix so that tagged lines are never interleaved
// with other console output.
type PrefixWriter struct {
	Sink io.Writer

	prefix  string
	midLine bool
	line    []byte
}

// SetPrefix changes the prefix used for subsequent lines. A line left
// unterminated under the previous prefix is closed first.
func (w *PrefixWriter) SetPrefix(prefix string) error {
	w.prefix = prefix
	if !w.midLine {
		return nil
	}

	w.midLine = false
	_, err := w.Sink.Write([]byte{'\n'})
	return err
}

// Write sends p to Sink, injecting the prefix at the start of each line. The
// returned count excludes the injected prefixes.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written int

	for len(p) != 0 {
		chunk := p
		if i := bytes.IndexByte(p, '\n'); i >= 0 {
			chunk = p[:i+1]
		}

		w.line = w.line[:0]
		if !w.midLine {
			w.line = append(w.line, w.prefix...)
		}
		w.line = append(w.line, chunk...)

		if _, err := w.Sink.Write(w.line); err != nil {
			return written, err
		}

		written += len(chunk)
		w.midLine = chunk[len(chunk)-1] != '\n'
		p = p[len(chunk):]
	}

	return written, nil
}
