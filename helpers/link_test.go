package helpers

import (
	"bytes"
	"io"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkWriter accepts at most chunk bytes per call and stalls after limit total.
type chunkWriter struct {
	buf   bytes.Buffer
	chunk int
	limit int
	err   error
}

func (self *chunkWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n > self.chunk {
		n = self.chunk
	}
	if room := self.limit - self.buf.Len(); n > room {
		n = room
	}
	self.buf.Write(p[:n])
	if n == 0 && self.err != nil {
		return 0, self.err
	}
	return n, nil
}

func TestWriteFull(t *testing.T) {
	t.Parallel()

	frame := []byte{0x5a, 0xa5, 0x05, 0x82, 0x00, 0x84, 0x5a, 0x01}
	w := &chunkWriter{chunk: 3, limit: 100}
	require.NoError(t, WriteFull(w, frame))
	assert.Equal(t, frame, w.buf.Bytes())

	require.NoError(t, WriteFull(w, nil))
	assert.Equal(t, len(frame), w.buf.Len())
}

func TestWriteFullStall(t *testing.T) {
	t.Parallel()

	w := &chunkWriter{chunk: 3, limit: 5}
	err := WriteFull(w, []byte("G28 F6000\n"))
	require.Error(t, err)
	assert.Equal(t, io.ErrShortWrite, errors.Cause(err))
	assert.Contains(t, err.Error(), "link wrote=5/10")

	w = &chunkWriter{chunk: 3, limit: 4, err: io.ErrClosedPipe}
	err = WriteFull(w, []byte("M105"))
	require.NoError(t, err)
	err = WriteFull(w, []byte("M105"))
	assert.Equal(t, io.ErrClosedPipe, errors.Cause(err))
	assert.Contains(t, err.Error(), "link wrote=0/4")
}

func TestWriteLine(t *testing.T) {
	t.Parallel()

	w := &chunkWriter{chunk: 2, limit: 100}
	require.NoError(t, WriteLine(w, "M27"))
	require.NoError(t, WriteLine(w, "M105"))
	assert.Equal(t, "M27\nM105\n", w.buf.String())
}
