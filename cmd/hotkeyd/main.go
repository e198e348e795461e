// hotkeyd launches commands bound to key combinations, reading keyboards directly from /dev/input.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	sd "github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	"github.com/temoto/alive/v2"
	"github.com/temoto/hotkeyd/helpers"
	"github.com/temoto/hotkeyd/internal/daemon"
	"github.com/temoto/hotkeyd/internal/keybind"
	"github.com/temoto/hotkeyd/internal/launch"
	"github.com/temoto/hotkeyd/internal/state"
	"github.com/temoto/hotkeyd/log2"
)

const usage = `usage: %s [flags] bindings-file

bindings-file syntax: key combination line, then indented command line
  Ctrl+Alt+t
      alacritty
  XF86AudioRaiseVolume
      amixer set Master 5%%+

flags:
`

var log = log2.NewStderr(log2.LInfo)

// errorCounter counts logged errors, reported on exit.
type errorCounter struct{ n uint64 }

func (self *errorCounter) Count(error)   { atomic.AddUint64(&self.n, 1) }
func (self *errorCounter) Value() uint64 { return atomic.LoadUint64(&self.n) }

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagSettings := cmdline.String("settings", "", "daemon settings file (HCL)")
	flagDebug := cmdline.Bool("debug", false, "log every key event")
	cmdline.Usage = func() {
		fmt.Fprintf(cmdline.Output(), usage, os.Args[0])
		cmdline.PrintDefaults()
	}
	_ = cmdline.Parse(os.Args[1:])
	if cmdline.NArg() != 1 {
		cmdline.Usage()
		os.Exit(2)
	}
	bindingsPath := cmdline.Arg(0)

	if sdnotify("STATUS=starting") {
		// we're under systemd, assume systemd journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else if isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFlags(log2.LInteractiveFlags)
	}

	config := state.Defaults()
	if *flagSettings != "" {
		config = state.MustReadConfig(log, state.NewOsFullReader(), *flagSettings)
	}
	log.SetLevel(config.LogLevel())
	if *flagDebug {
		log.SetLevel(log2.LDebug)
	}

	var errCount errorCounter
	log.SetErrorFunc(errCount.Count)

	table, _, err := keybind.ReadFile(log, bindingsPath)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	devices, err := config.Devices()
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	if len(devices) == 0 {
		log.Fatalf("no keyboard devices found, registry=%s", config.Input.Registry)
	}

	launcher := launch.NewLauncher(log)
	if *config.Launch.InheritOutput {
		launcher.Stdout, launcher.Stderr = os.Stdout, os.Stderr
	}
	coord := daemon.New(log, table, launcher, daemon.DevInputEventOpener(config.Codec()))

	a := alive.NewAlive()
	go helpers.AliveSub(a, coord.Alive)
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigch
		log.Infof("signal=%v stopping", s)
		sdnotify(sd.SdNotifyStopping)
		a.Stop()
	}()

	sdnotify(sd.SdNotifyReady)
	reports := coord.Run(devices)
	lost := 0
	for _, r := range reports {
		if r.Err != nil && a.IsRunning() {
			lost++
			log.Debugf("device=%s ended: %s", r.Device.Path, errors.ErrorStack(r.Err))
		}
	}
	if a.IsRunning() {
		log.Fatalf("no devices left, lost=%d errors=%d", lost, errCount.Value())
	}
	log.Infof("stopped errors=%d", errCount.Value())
}

func sdnotify(s string) bool {
	ok, err := sd.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
