package logging

import (
	"io"

	"go.uber.org/multierr"
)

// teeWriter copies every log line to all outputs. A failing output does not
// stop the others; its error is reported together with theirs.
type teeWriter struct {
	outputs []io.Writer
}

func newTeeWriter(outputs ...io.Writer) *teeWriter {
	return &teeWriter{outputs: outputs}
}

func (t *teeWriter) Write(p []byte) (int, error) {
	var err error
	for _, out := range t.outputs {
		n, writeErr := out.Write(p)
		if writeErr == nil && n < len(p) {
			writeErr = io.ErrShortWrite
		}
		err = multierr.Append(err, writeErr)
	}
	if err != nil && len(multierr.Errors(err)) == len(t.outputs) {
		return 0, err
	}
	// at least one output has the line
	return len(p), err
}
