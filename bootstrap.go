package yatb

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// Status reported when the bootstrap process didn't exit normally.
	BootstrapFailureStatus = 1
)

// ArgumentBuilder builds the argument vector of a child process. Every
// argument is passed as a separate element, nothing goes through a shell.
type ArgumentBuilder struct {
	args []string
	err  error
}

func NewArgumentBuilder(program string) *ArgumentBuilder {
	return (&ArgumentBuilder{}).Add(program)
}

// Add appends the arguments. Empty ones and ones holding a NUL byte are
// rejected, the first of them is reported by Build.
func (self *ArgumentBuilder) Add(args ...string) *ArgumentBuilder {
	for _, arg := range args {
		if self.err != nil {
			break
		}
		switch {
		case len(arg) == 0:
			self.err = errors.Errorf("empty argument at position %d", len(self.args))
		case strings.IndexByte(arg, 0) >= 0:
			self.err = errors.Errorf("argument %q at position %d holds a NUL byte", arg, len(self.args))
		default:
			self.args = append(self.args, arg)
		}
	}
	return self
}

// AddOption appends a long option followed by its value.
func (self *ArgumentBuilder) AddOption(name, value string) *ArgumentBuilder {
	return self.Add("--"+name, value)
}

func (self *ArgumentBuilder) Build() ([]string, error) {
	if self.err != nil {
		return nil, self.err
	}
	return append([]string(nil), self.args...), nil
}

// Bootstrapper runs the data generation script which creates and loads
// the benchmark dataset.
type Bootstrapper struct {
	config *Config
	stdout io.Writer
	stderr io.Writer
}

func NewBootstrapper(config *Config) *Bootstrapper {
	return &Bootstrapper{
		config: config,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetOutput redirects the output of the script.
func (self *Bootstrapper) SetOutput(stdout, stderr io.Writer) {
	self.stdout = stdout
	self.stderr = stderr
}

// Args returns the argument vector of the script:
// <root>/tests/tpch/tpch_init.sh --size <scale> --mysql-params tpch
func (self *Bootstrapper) Args() ([]string, error) {
	script, err := filepath.Abs(self.config.InitScript())
	if err != nil {
		return nil, errors.Wrapf(err, "fail to resolve %s", self.config.InitScript())
	}
	return NewArgumentBuilder(script).
		AddOption("size", strconv.FormatInt(self.config.Scale, 10)).
		AddOption("mysql-params", MySQLParams).
		Build()
}

// Bootstrap runs the script in the scripts directory and waits for it.
// The returned status is the exit code of the script, or
// BootstrapFailureStatus when it was killed by a signal. The error is
// non-nil only when the script could not be run or waited for.
func (self *Bootstrapper) Bootstrap(ctx context.Context) (int, error) {
	args, err := self.Args()
	if err != nil {
		return BootstrapFailureStatus, &BootstrapError{Script: self.config.InitScript(), Err: err}
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = self.config.ScriptsDir()
	cmd.Stdout = self.stdout
	cmd.Stderr = self.stderr
	Infof("running %s in %s", strings.Join(args, " "), cmd.Dir)
	err = cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		status := exitErr.ExitCode()
		if status < 0 {
			Warnf("%s terminated abnormally: %s", args[0], exitErr)
			return BootstrapFailureStatus, nil
		}
		return status, nil
	}
	return BootstrapFailureStatus, &BootstrapError{Script: args[0], Err: err}
}
