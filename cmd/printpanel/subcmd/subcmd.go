// Package subcmd selects printpanel mode by first argument.
package subcmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/log2"
)

type Mod struct {
	Name  string
	Usage string
	Main  func(context.Context, *state.Config) error
}

func Parse(command string, modules []Mod) (*Mod, error) {
	if command == "" {
		return nil, errors.NotValidf("empty command")
	}
	names := make([]string, 0, len(modules))
	for i := range modules {
		m := &modules[i]
		if m.Name == "" {
			panic(fmt.Sprintf("code error Name='' module=%#v", m))
		}
		if command == m.Name {
			return m, nil
		}
		names = append(names, m.Name)
	}
	return nil, errors.NotFoundf("command=%s (known: %s)", command, strings.Join(names, ", "))
}

// PrintUsage lists commands for -help output.
func PrintUsage(w io.Writer, modules []Mod) {
	fmt.Fprintf(w, "commands:\n")
	for _, m := range modules {
		fmt.Fprintf(w, "  %-10s %s\n", m.Name, m.Usage)
	}
}

// SdNotify reports state to systemd, false when not running under it.
func SdNotify(log *log2.Log, s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Errorf("sdnotify state=%s err=%v", s, err)
		return false
	}
	return ok
}
