// Package commander is the embedding entry point: it builds a dispatcher
// over the bundled commands plus the manifests found under a user path and
// runs one invocation.
package commander

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/shlex"
	"github.com/spf13/afero"

	"github.com/arthur-debert/commander/internal/version"
	"github.com/arthur-debert/commander/pkg/dispatcher"
	"github.com/arthur-debert/commander/pkg/errors"
	"github.com/arthur-debert/commander/pkg/logging"
	"github.com/arthur-debert/commander/pkg/registry"
)

// ExitFatal is the status Main exits with when an error propagates
const ExitFatal = 2

var (
	processOnce     sync.Once
	processRegistry *registry.Registry
	processPath     string

	// Fs is the filesystem user commands are read from
	Fs afero.Fs = afero.NewOsFs()
)

// Registry returns the process-wide registry. It is built from the path
// given on the first call; later paths are ignored with a warning, as the
// command listing is computed only once per process.
func Registry(path string) *registry.Registry {
	processOnce.Do(func() {
		processPath = path
		processRegistry = registry.NewDefault(Fs, path)
	})
	if path != processPath {
		logger := logging.GetLogger("commander")
		logger.Warn().
			Str("path", path).
			Str("active", processPath).
			Msg("Command path already set for this process, ignoring")
	}
	return processRegistry
}

// NewDispatcher builds a dispatcher over a fresh registry for path
func NewDispatcher(path string, opts ...dispatcher.Option) *dispatcher.Dispatcher {
	return dispatcher.New(registry.NewDefault(Fs, path), opts...)
}

// Execute runs argv against the process registry for path. An empty argv
// uses os.Args and an empty version uses the build version.
func Execute(ctx context.Context, path string, argv []string, ver string, opts ...dispatcher.Option) (int, error) {
	if len(argv) == 0 {
		argv = os.Args
	}
	if ver == "" {
		ver = version.Version
	}
	opts = append([]dispatcher.Option{dispatcher.WithVersion(ver)}, opts...)
	return dispatcher.New(Registry(path), opts...).Run(ctx, argv)
}

// ExecuteLine splits line with shell quoting rules and runs it like Execute
func ExecuteLine(ctx context.Context, path, line, ver string, opts ...dispatcher.Option) (int, error) {
	argv, err := shlex.Split(line)
	if err != nil {
		return dispatcher.ExitUsage, errors.Wrap(err, errors.ErrInvalidInput, "cannot split command line")
	}
	return Execute(ctx, path, argv, ver, opts...)
}

// Main runs os.Args and exits. A propagated error is written to stderr with
// its stack and exits with ExitFatal.
func Main(path string, opts ...dispatcher.Option) {
	code, err := Execute(context.Background(), path, os.Args, "", opts...)
	os.Exit(report(os.Stderr, code, err))
}

func report(w io.Writer, code int, err error) int {
	if err == nil {
		return code
	}
	fmt.Fprintf(w, "%s: %v\n", errors.KindName(err), err)
	var tb *errors.TracebackError
	if errors.As(err, &tb) {
		_, _ = w.Write(tb.Stack)
	}
	return ExitFatal
}
