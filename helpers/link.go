package helpers

import (
	"io"

	"github.com/juju/errors"
)

// WriteFull sends whole b to a device link, serial ports may accept it in chunks.
// A write that makes no progress fails with io.ErrShortWrite as cause.
func WriteFull(w io.Writer, b []byte) error {
	total := len(b)
	for len(b) > 0 {
		n, err := w.Write(b)
		b = b[n:]
		if err != nil {
			return errors.Annotatef(err, "link wrote=%d/%d", total-len(b), total)
		}
		if n == 0 {
			return errors.Annotatef(io.ErrShortWrite, "link wrote=%d/%d", total-len(b), total)
		}
	}
	return nil
}

// WriteLine sends one text command terminated by newline.
func WriteLine(w io.Writer, line string) error {
	return WriteFull(w, []byte(line+"\n"))
}
