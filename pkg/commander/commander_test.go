package commander

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/commander/internal/version"
	"github.com/arthur-debert/commander/pkg/color"
	_ "github.com/arthur-debert/commander/pkg/commands/example"
	"github.com/arthur-debert/commander/pkg/dispatcher"
	"github.com/arthur-debert/commander/pkg/errors"
)

const appPath = "/app"

func TestMain(m *testing.M) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/app/commands/greet.toml", []byte(`
help = "Greet someone"
output = "Hello {{.name}}"

[[arguments]]
name = "name"
`), 0644)
	Fs = fs
	os.Exit(m.Run())
}

type streams struct {
	stdout, stderr bytes.Buffer
}

func (s *streams) options() []dispatcher.Option {
	return []dispatcher.Option{
		dispatcher.WithStreams(&s.stdout, &s.stderr),
		dispatcher.WithResolver(&color.Resolver{Supported: func() bool { return false }}),
	}
}

func TestExecute_Example(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"minimal", []string{"prog", "example", "3", "4"}, "12\n"},
		{"normal", []string{"prog", "example", "3", "4", "-v"}, "3 * 4 = 12\n"},
		{"detailed", []string{"prog", "example", "3", "4", "-vv"}, "width: 3, height: 4, area: 12\n"},
		{"negative width", []string{"prog", "example", "-3", "4"}, "-12\n"},
		{"zero area", []string{"prog", "example", "0", "4"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s streams
			code, err := Execute(context.Background(), appPath, tt.argv, "", s.options()...)
			require.NoError(t, err)
			assert.Equal(t, dispatcher.ExitOK, code)
			assert.Equal(t, tt.want, s.stdout.String())
		})
	}
}

func TestExecute_NoLogOutputWithoutSetup(t *testing.T) {
	var logs bytes.Buffer
	saved := log.Logger
	log.Logger = log.Output(&logs)
	t.Cleanup(func() { log.Logger = saved })

	var s streams
	code, err := Execute(context.Background(), appPath, []string{"prog", "example", "3", "4"}, "", s.options()...)
	require.NoError(t, err)
	assert.Equal(t, dispatcher.ExitOK, code)
	assert.Equal(t, "12\n", s.stdout.String())
	assert.Empty(t, s.stderr.String())
	assert.Empty(t, logs.String())
}

func TestExecute_UserCommand(t *testing.T) {
	var s streams
	code, err := Execute(context.Background(), appPath, []string{"prog", "greet", "ada"}, "", s.options()...)
	require.NoError(t, err)
	assert.Equal(t, dispatcher.ExitOK, code)
	assert.Equal(t, "Hello ada\n", s.stdout.String())
}

func TestExecute_HelpListsEveryCommandOnce(t *testing.T) {
	var s streams
	code, err := Execute(context.Background(), appPath, []string{"prog", "help"}, "", s.options()...)
	require.NoError(t, err)
	assert.Equal(t, dispatcher.ExitOK, code)

	var listed []string
	for _, line := range strings.Split(s.stdout.String(), "\n") {
		if strings.HasPrefix(line, "  ") {
			listed = append(listed, strings.Fields(line)[0])
		}
	}
	assert.Equal(t, Registry(appPath).Commands(), listed)
	assert.Contains(t, listed, "example")
	assert.Contains(t, listed, "greet")
}

func TestExecute_Unknown(t *testing.T) {
	var s streams
	code, err := Execute(context.Background(), appPath, []string{"prog", "bogus-command-xyz"}, "", s.options()...)
	require.NoError(t, err)
	assert.Equal(t, dispatcher.ExitError, code)
	assert.Contains(t, s.stderr.String(), "bogus-command-xyz")
}

func TestExecute_Version(t *testing.T) {
	var s streams
	_, err := Execute(context.Background(), appPath, []string{"prog", "version"}, "", s.options()...)
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", s.stdout.String())

	s.stdout.Reset()
	_, err = Execute(context.Background(), appPath, []string{"prog", "--version"}, "2.0.0", s.options()...)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0\n", s.stdout.String())
}

func TestExecuteLine(t *testing.T) {
	var s streams
	code, err := ExecuteLine(context.Background(), appPath, `prog example -v "3" '4'`, "", s.options()...)
	require.NoError(t, err)
	assert.Equal(t, dispatcher.ExitOK, code)
	assert.Equal(t, "3 * 4 = 12\n", s.stdout.String())

	code, err = ExecuteLine(context.Background(), appPath, `prog example "3`, "", s.options()...)
	assert.Equal(t, dispatcher.ExitUsage, code)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRegistry_FirstPathWins(t *testing.T) {
	reg := Registry(appPath)
	assert.Same(t, reg, Registry("/elsewhere"))
	assert.Contains(t, reg.Commands(), "greet")
}

func TestNewDispatcher_IndependentRegistry(t *testing.T) {
	require.NoError(t, afero.WriteFile(Fs, "/other/commands/solo.toml", []byte(`output = "solo"`), 0644))

	var s streams
	d := NewDispatcher("/other", s.options()...)
	code, err := d.Run(context.Background(), []string{"prog", "solo"})
	require.NoError(t, err)
	assert.Equal(t, dispatcher.ExitOK, code)
	assert.Equal(t, "solo\n", s.stdout.String())

	assert.NotContains(t, Registry(appPath).Commands(), "solo")
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 1, report(&buf, 1, nil))
	assert.Empty(t, buf.String())

	err := errors.Traceback(errors.New(errors.ErrCommand, "boom"))
	assert.Equal(t, ExitFatal, report(&buf, 1, err))
	assert.Contains(t, buf.String(), "CommandError: [COMMAND] boom")
	assert.Contains(t, buf.String(), "goroutine")
}
