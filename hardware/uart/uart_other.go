//go:build !linux

package uart

import (
	"github.com/juju/errors"
)

type Port struct{}

func Open(path string, baud int) (*Port, error) {
	return nil, errors.NotSupportedf("uart on this OS path=%s", path)
}

func (self *Port) Read(p []byte) (int, error)  { return 0, errors.NotSupportedf("uart") }
func (self *Port) Write(p []byte) (int, error) { return 0, errors.NotSupportedf("uart") }
func (self *Port) Close() error                { return nil }
func (self *Port) String() string              { return "" }
