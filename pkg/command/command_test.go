package command

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/commander/pkg/color"
	"github.com/arthur-debert/commander/pkg/errors"
	"github.com/arthur-debert/commander/pkg/testutil"
)

type areaCommand struct {
	Base
	result any
	err    error
}

func (c *areaCommand) Help() string { return "Compute an area\n\nLonger text." }

func (c *areaCommand) AddArguments(p *Parser) {
	p.AddArgument("width", Int, "the width")
	p.AddArgument("height", Int, "the height")
	p.Flags().CountP("verbosity", "v", "more detail")
}

func (c *areaCommand) Handle(_ context.Context, _ *Env, _ []string, opts Options) (any, error) {
	if c.err != nil || c.result != nil {
		return c.result, c.err
	}
	return opts.Int("width") * opts.Int("height"), nil
}

func never() bool { return false }

func newTestEnv(t *testing.T, stdout, stderr *testutil.Terminal) *Env {
	t.Helper()
	env, err := NewEnv(stdout, stderr, &color.Resolver{Setting: "dark", Supported: never}, false, false)
	require.NoError(t, err)
	return env
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantArgs []string
		check    func(t *testing.T, opts Options)
	}{
		{
			name:     "positionals converted",
			argv:     []string{"3", "4"},
			wantArgs: []string{},
			check: func(t *testing.T, opts Options) {
				assert.Equal(t, 3, opts["width"])
				assert.Equal(t, 4, opts["height"])
				assert.Equal(t, 0, opts["verbosity"])
				assert.False(t, opts.Bool(NoColorFlag))
			},
		},
		{
			name:     "count flag",
			argv:     []string{"-vv", "3", "4"},
			wantArgs: []string{},
			check: func(t *testing.T, opts Options) {
				assert.Equal(t, 2, opts.Int("verbosity"))
			},
		},
		{
			name:     "common flags",
			argv:     []string{"3", "--no-color", "4", "--traceback"},
			wantArgs: []string{},
			check: func(t *testing.T, opts Options) {
				assert.True(t, opts.Bool(NoColorFlag))
				assert.True(t, opts.Bool(TracebackFlag))
				assert.False(t, opts.Bool(ForceColorFlag))
				_, hasHelp := opts.Get(HelpFlag)
				assert.False(t, hasHelp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildParser(&areaCommand{}, "prog", "area")
			args, opts, err := p.Parse(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.wantArgs, args)
			tt.check(t, opts)
		})
	}
}

func TestParse_NegativeNumbers(t *testing.T) {
	t.Run("negative positionals", func(t *testing.T) {
		p := BuildParser(&areaCommand{}, "prog", "area")
		args, opts, err := p.Parse([]string{"-3", "-v", "-.5e1"})
		require.Error(t, err)
		assert.Nil(t, args)
		assert.Equal(t, `argument height: invalid int value: "-.5e1"`, errors.Summary(err))

		p = BuildParser(&areaCommand{}, "prog", "area")
		args, opts, err = p.Parse([]string{"-3", "-v", "4"})
		require.NoError(t, err)
		assert.Empty(t, args)
		assert.Equal(t, -3, opts.Int("width"))
		assert.Equal(t, 4, opts.Int("height"))
		assert.Equal(t, 1, opts.Int("verbosity"))
	})

	t.Run("flag value", func(t *testing.T) {
		p := NewParser("prog", "shift", "")
		p.Flags().StringP("offset", "o", "", "")
		p.AddRemaining("rest", "")
		args, opts, err := p.Parse([]string{"--offset", "-2", "-o", "-7", "-1", "--", "-4"})
		require.NoError(t, err)
		assert.Equal(t, "-7", opts.String("offset"))
		assert.Equal(t, []string{"-1", "-4"}, args)
	})

	t.Run("digit shorthand keeps flag parsing", func(t *testing.T) {
		p := NewParser("prog", "pick", "")
		p.Flags().BoolP("one", "1", false, "")
		_, opts, err := p.Parse([]string{"-1"})
		require.NoError(t, err)
		assert.True(t, opts.Bool("one"))
	})
}

func TestParse_UsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantMsg string
	}{
		{"missing positional", []string{"3"}, "the following arguments are required: height"},
		{"missing all", nil, "the following arguments are required: width, height"},
		{"bad int", []string{"3", "x"}, `argument height: invalid int value: "x"`},
		{"extra args", []string{"3", "4", "5"}, "unrecognized arguments: 5"},
		{"unknown flag", []string{"--bogus", "3", "4"}, "unknown flag: --bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildParser(&areaCommand{}, "prog", "area")
			_, _, err := p.Parse(tt.argv)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrUsage))
			assert.Equal(t, tt.wantMsg, errors.Summary(err))
		})
	}
}

func TestParse_Help(t *testing.T) {
	for _, flag := range []string{"-h", "--help"} {
		p := BuildParser(&areaCommand{}, "prog", "area")
		_, _, err := p.Parse([]string{flag})
		assert.ErrorIs(t, err, ErrHelp, flag)
	}
}

func TestParse_Remaining(t *testing.T) {
	p := NewParser("prog", "run", "")
	p.AddArgument("target", String, "what to run")
	p.AddRemaining("args", "passed through")

	args, opts, err := p.Parse([]string{"build", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "build", opts.String("target"))
	assert.Equal(t, []string{"a", "b"}, args)
	assert.Equal(t, "usage: prog run [options] target [args ...]", p.Usage())
}

func TestPrintHelp(t *testing.T) {
	p := BuildParser(&areaCommand{}, "prog", "area")
	var buf bytes.Buffer
	require.NoError(t, p.PrintHelp(&buf))

	out := buf.String()
	assert.Contains(t, out, "Compute an area")
	assert.Contains(t, out, "prog area [options] width height")
	assert.Contains(t, out, "Positional arguments:")
	assert.Contains(t, out, "  width    the width")
	assert.Contains(t, out, "--verbosity")
	assert.Contains(t, out, "--force-color")

	options := bytes.Index(buf.Bytes(), []byte("Options:"))
	common := bytes.Index(buf.Bytes(), []byte("Common options:"))
	require.NotEqual(t, -1, options)
	assert.Greater(t, common, options)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"", String, true},
		{"string", String, true},
		{"INT", Int, true},
		{"float", Float, true},
		{"date", String, false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestSynopsis(t *testing.T) {
	assert.Equal(t, "Compute an area", Synopsis("Compute an area\n\nLonger text."))
	assert.Equal(t, "one line", Synopsis("  one line  "))
	assert.Equal(t, "", Synopsis(""))
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		result any
		want   bool
	}{
		{nil, true},
		{"", true},
		{0, true},
		{0.0, true},
		{false, true},
		{[]string{}, true},
		{map[string]int{}, true},
		{(*int)(nil), true},
		{"x", false},
		{12, false},
		{-1, false},
		{true, false},
		{[]string{"a"}, false},
		{struct{}{}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsEmpty(tt.result), "%#v", tt.result)
	}
}

func TestNewEnv(t *testing.T) {
	t.Run("conflict", func(t *testing.T) {
		_, err := NewEnv(testutil.NewPipe(), testutil.NewPipe(), &color.Resolver{Supported: never}, true, true)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfig))
	})

	t.Run("stderr styled on terminal", func(t *testing.T) {
		stderr := testutil.NewTerminal()
		env, err := NewEnv(testutil.NewPipe(), stderr, &color.Resolver{Setting: "dark", Supported: never}, false, true)
		require.NoError(t, err)
		assert.False(t, env.Style.IsPlain())

		require.NoError(t, env.Stderr.Print("oops"))
		assert.Equal(t, env.Style.Error("oops\n"), stderr.String())
	})

	t.Run("no color keeps stderr plain", func(t *testing.T) {
		stderr := testutil.NewTerminal()
		env, err := NewEnv(testutil.NewPipe(), stderr, &color.Resolver{Setting: "dark", Supported: never}, true, false)
		require.NoError(t, err)
		assert.Same(t, color.NoStyle(), env.Style)

		require.NoError(t, env.Stderr.Print("oops"))
		assert.Equal(t, "oops\n", stderr.String())
	})
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		cmd     *areaCommand
		opts    Options
		want    any
		wantOut string
	}{
		{"prints result", &areaCommand{}, Options{"width": 3, "height": 4}, 12, "12\n"},
		{"zero area not printed", &areaCommand{}, Options{"width": 0, "height": 4}, 0, ""},
		{"empty string not printed", &areaCommand{result: ""}, Options{}, nil, ""},
		{"ending not doubled", &areaCommand{result: "done\n"}, Options{}, "done\n", "done\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := testutil.NewPipe()
			env := newTestEnv(t, stdout, testutil.NewPipe())

			got, err := Execute(context.Background(), tt.cmd, env, nil, tt.opts)
			require.NoError(t, err)
			if tt.want != nil {
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.wantOut, stdout.String())
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	t.Run("color conflict", func(t *testing.T) {
		env := newTestEnv(t, testutil.NewPipe(), testutil.NewPipe())
		_, err := Execute(context.Background(), &areaCommand{}, env, nil, Options{NoColorFlag: true, ForceColorFlag: true})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfig))
	})

	t.Run("handler error propagates", func(t *testing.T) {
		stdout := testutil.NewPipe()
		env := newTestEnv(t, stdout, testutil.NewPipe())
		boom := errors.New(errors.ErrCommand, "boom")
		_, err := Execute(context.Background(), &areaCommand{err: boom}, env, nil, Options{})
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, stdout.String())
	})

	t.Run("base handle not implemented", func(t *testing.T) {
		env := newTestEnv(t, testutil.NewPipe(), testutil.NewPipe())
		_, err := Execute(context.Background(), Base{}, env, nil, Options{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotImplemented))
	})
}

func TestExecute_Options(t *testing.T) {
	t.Run("force color", func(t *testing.T) {
		env := newTestEnv(t, testutil.NewPipe(), testutil.NewPipe())
		assert.True(t, env.Style.IsPlain())

		_, err := Execute(context.Background(), &areaCommand{result: "x"}, env, nil, Options{ForceColorFlag: true})
		require.NoError(t, err)
		assert.False(t, env.Style.IsPlain())
	})

	t.Run("no color", func(t *testing.T) {
		env := newTestEnv(t, testutil.NewPipe(), testutil.NewTerminal())
		_, err := Execute(context.Background(), &areaCommand{result: "x"}, env, nil, Options{NoColorFlag: true})
		require.NoError(t, err)
		assert.Same(t, color.NoStyle(), env.Style)
	})

	t.Run("stream overrides", func(t *testing.T) {
		env := newTestEnv(t, testutil.NewPipe(), testutil.NewPipe())
		var out, errOut bytes.Buffer
		_, err := Execute(context.Background(), &areaCommand{}, env, nil, Options{
			"width": 2, "height": 5, StdoutOption: &out, StderrOption: &errOut,
		})
		require.NoError(t, err)
		assert.Equal(t, "10\n", out.String())
		require.NoError(t, env.Stderr.Print("oops"))
		assert.Equal(t, "oops\n", errOut.String())
	})
}

func TestOptions(t *testing.T) {
	opts := Options{
		"b": true, "i": 3, "f": 2.5, "s": "x", "ss": []string{"a"}, "n": 7,
	}
	assert.True(t, opts.Bool("b"))
	assert.False(t, opts.Bool("missing"))
	assert.Equal(t, 3, opts.Int("i"))
	assert.Equal(t, 2, opts.Int("f"))
	assert.Equal(t, 3.0, opts.Float("i"))
	assert.Equal(t, "x", opts.String("s"))
	assert.Equal(t, "7", opts.String("n"))
	assert.Equal(t, "", opts.String("missing"))
	assert.Equal(t, []string{"a"}, opts.Strings("ss"))
	_, ok := opts.Writer("s")
	assert.False(t, ok)
}
