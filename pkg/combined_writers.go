package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all of its writers, e.g. stdout and a rotated log file.
// A failing writer does not stop the others; its error is appended to the returned one.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		writers: writers,
	}
}

// Write reports len(p) as long as at least one writer accepted the whole buffer.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	succeeded := 0
	for _, w := range cw.writers {
		n, werr := w.Write(p)
		if werr == nil && n < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		succeeded++
	}

	if succeeded == 0 && len(cw.writers) > 0 {
		return 0, err
	}
	return len(p), err
}
