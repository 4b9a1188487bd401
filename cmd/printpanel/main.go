package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	"github.com/temoto/printpanel/cmd/printpanel/run"
	"github.com/temoto/printpanel/cmd/printpanel/subcmd"
	"github.com/temoto/printpanel/internal/state"
	"github.com/temoto/printpanel/internal/tele"
	"github.com/temoto/printpanel/log2"
)

var log = log2.NewStderr(log2.LDebug)

var BuildVersion = "unknown" // set by ldflags -X

var modules = []subcmd.Mod{
	run.Mod,
	{Name: "version", Usage: "print build version", Main: versionMain},
}

func main() {
	flagset := flag.NewFlagSet("printpanel", flag.ContinueOnError)
	configPath := flagset.String("config", "printpanel.hcl", "")
	onlyVersion := flagset.Bool("version", false, "print build version and exit")
	flagset.Usage = func() {
		fmt.Fprintf(flagset.Output(), "usage: printpanel [flags] [command]\n")
		flagset.PrintDefaults()
		subcmd.PrintUsage(flagset.Output(), modules)
	}
	if err := flagset.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		log.Fatal(err)
	}
	if *onlyVersion {
		fmt.Println(BuildVersion)
		return
	}

	command := "run"
	if flagset.NArg() > 0 {
		command = flagset.Arg(0)
	}
	mod, err := subcmd.Parse(command, modules)
	if err != nil {
		subcmd.PrintUsage(os.Stderr, modules)
		log.Fatal(err)
	}

	// under systemd assume journal logging, remove timestamp
	if subcmd.SdNotify(log, "start") || !isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.Infof("printpanel version=%s starting %s", BuildVersion, mod.Name)

	config := state.MustReadConfig(log, state.NewOsFullReader(), *configPath)
	ctx, g := state.NewContext(log, tele.New())
	g.BuildVersion = BuildVersion

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		s := <-sigch
		log.Infof("signal=%s stopping", s.String())
		subcmd.SdNotify(log, daemon.SdNotifyStopping)
		g.Alive.Stop()
	}()

	if err := mod.Main(ctx, config); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}

func versionMain(ctx context.Context, config *state.Config) error {
	fmt.Printf("printpanel %s\n", BuildVersion)
	return nil
}
