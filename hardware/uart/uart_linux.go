// Package uart opens a serial port in raw 8N1 mode.
package uart

import (
	"os"
	"syscall"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

var bauds = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

type Port struct {
	f    *os.File
	path string
}

func Open(path string, baud int) (*Port, error) {
	speed, ok := bauds[baud]
	if !ok {
		return nil, errors.NotSupportedf("uart path=%s baud=%d", path, baud)
	}
	f, err := os.OpenFile(path, syscall.O_RDWR|syscall.O_NOCTTY, 0600)
	if err != nil {
		return nil, errors.Annotatef(err, "uart open path=%s", path)
	}
	if err = resetTermios(f.Fd(), speed); err != nil {
		f.Close()
		return nil, errors.Annotatef(err, "uart termios path=%s", path)
	}
	return &Port{f: f, path: path}, nil
}

func (self *Port) Read(p []byte) (int, error)  { return self.f.Read(p) }
func (self *Port) Write(p []byte) (int, error) { return self.f.Write(p) }
func (self *Port) Close() error                { return self.f.Close() }
func (self *Port) String() string              { return self.path }

func resetTermios(fd uintptr, speed uint32) error {
	t, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	if err != nil {
		return err
	}
	// raw mode, same as cfmakeraw
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CLOCAL | unix.CREAD | speed
	t.Ispeed = speed
	t.Ospeed = speed
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return unix.IoctlSetTermios(int(fd), unix.TCSETSF, t)
}
