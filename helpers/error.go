package helpers

import (
	"strings"

	"github.com/juju/errors"
)

// ErrorList collects independent failures, like config sources or init steps,
// so one bad part does not hide the rest.
type ErrorList []error

func (self *ErrorList) Add(err error) {
	if err != nil {
		*self = append(*self, err)
	}
}

func (self *ErrorList) Addf(err error, format string, args ...interface{}) {
	if err != nil {
		*self = append(*self, errors.Annotatef(err, format, args...))
	}
}

// Fold returns nil for empty list, the only error unchanged (keeps its trace)
// or all messages one per line.
func (self ErrorList) Fold() error {
	switch len(self) {
	case 0:
		return nil
	case 1:
		return self[0]
	}
	ss := make([]string, len(self))
	for i, e := range self {
		ss[i] = e.Error()
	}
	return errors.Errorf("%d errors:\n%s", len(self), strings.Join(ss, "\n"))
}
