// Package cli runs line commands from a terminal with editing or from a script on stdin.
package cli

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
)

type Config struct {
	Title    string
	Prefix   string
	History  []string // preloaded, arrow up recalls them first
	Exec     func(line string)
	Complete prompt.Completer
}

// MainLoop returns at end of script, terminal session ends the process itself.
func MainLoop(config Config) error {
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigch
		os.Exit(1)
	}()

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return RunScript(os.Stdin, config.Exec)
	}
	prefix := config.Prefix
	if prefix == "" {
		prefix = "> "
	}
	prompt.New(config.Exec, config.Complete,
		prompt.OptionTitle(config.Title),
		prompt.OptionPrefix(prefix),
		prompt.OptionHistory(config.History),
	).Run()
	return nil
}

// RunScript executes each line, skipping blank lines and # comments.
func RunScript(r io.Reader, exec func(line string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exec(line)
	}
	return errors.Annotate(scanner.Err(), "cli script")
}
