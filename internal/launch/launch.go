// Package launch starts binding commands as independent processes.
package launch

import (
	"io"
	"os/exec"
	"strings"
	"syscall"

	"github.com/juju/errors"
	"github.com/temoto/hotkeyd/log2"
)

// Command is an executable and literal arguments. No shell, no quoting.
type Command struct {
	Path string
	Args []string
}

// ParseCommand splits a command line on whitespace.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errors.NotValidf("empty command")
	}
	return Command{Path: fields[0], Args: fields[1:]}, nil
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

type Launcher struct {
	Log    *log2.Log
	Stdout io.Writer
	Stderr io.Writer
}

func NewLauncher(log *log2.Log) *Launcher {
	return &Launcher{Log: log}
}

// Launch starts a fresh process for every call and returns without waiting for it.
// The child runs in its own process group and is reaped in background.
func (self *Launcher) Launch(c Command) error {
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Stdout = self.Stdout
	cmd.Stderr = self.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return errors.Annotatef(err, "launch command=%s", c)
	}
	pid := cmd.Process.Pid
	self.Log.Debugf("launch pid=%d command=%s", pid, c)
	go func() {
		err := cmd.Wait()
		self.Log.Debugf("launch pid=%d exit err=%v", pid, err)
	}()
	return nil
}
