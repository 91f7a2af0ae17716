// Package cli implements the metabooks command line. Every command drives
// the same record containers a graphical shell would: lists are loaded and
// filtered through records.Table, writes go through the create/edit form.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/metabooks/erp/internal/application/records"
	"github.com/metabooks/erp/internal/application/registry"
	"github.com/metabooks/erp/internal/application/workspace"
	"github.com/metabooks/erp/internal/infrastructure/client"
	"github.com/metabooks/erp/internal/infrastructure/config"
	"github.com/metabooks/erp/internal/infrastructure/logger"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// ErrUsage is returned for malformed command lines
var ErrUsage = errors.New("usage error")

// Output formats
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// App runs one command line against the backend
type App struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	client *client.Client
	logger *zap.Logger
	format string
	yes    bool
}

// Option configures an App
type Option func(*App)

// WithIO replaces stdin, stdout and stderr
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in = bufio.NewReader(in)
		a.out = out
		a.errOut = errOut
	}
}

// WithClient uses c instead of a client built from the configuration
func WithClient(c *client.Client) Option {
	return func(a *App) { a.client = c }
}

// WithLogger uses l instead of the default stderr logger
func WithLogger(l *zap.Logger) Option {
	return func(a *App) { a.logger = l }
}

// New creates an App on the process's standard streams
func New(opts ...Option) *App {
	a := &App{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run parses args (without the program name) and executes the command
func (a *App) Run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("metabooks", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(a.errOut)
	configPath := fs.String("config", "", "path to a config file (default ./config.toml)")
	server := fs.String("server", "", "backend base URL, overrides client.base_url")
	output := fs.StringP("output", "o", "", "output format: table, yaml or json")
	verbose := fs.BoolP("verbose", "v", false, "log requests and notices to stderr")
	fs.Usage = func() { a.usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		a.usage(fs)
		return ErrUsage
	}
	if rest[0] == "help" {
		a.usage(fs)
		return nil
	}
	cmd, ok := lookupCommand(rest[0])
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, rest[0])
	}

	if err := a.setup(*configPath, *server, *output, *verbose); err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	cfs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	cfs.SetOutput(a.errOut)
	run := cmd.flags(a, cfs)
	cfs.Usage = func() {
		fmt.Fprintf(a.errOut, "Usage: metabooks %s %s\n\n%s\n", cmd.name, cmd.args, cmd.summary)
		if cfs.HasFlags() {
			fmt.Fprintf(a.errOut, "\nFlags:\n%s", cfs.FlagUsages())
		}
	}
	if err := cfs.Parse(rest[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return run(ctx, cfs.Args())
}

// setup resolves logger, client and output format. Options given to New
// take precedence over the configuration.
func (a *App) setup(configPath, server, output string, verbose bool) error {
	if a.logger == nil {
		lc := logger.CLIConfig()
		if verbose {
			lc.Level = "debug"
		}
		log, err := logger.New(lc)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = log
	}

	format := FormatTable
	if a.client == nil {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if server != "" {
			cfg.Client.BaseURL = server
		}
		c, err := client.NewFromConfig(cfg.Client, a.logger)
		if err != nil {
			return err
		}
		a.client = c
		format = cfg.Client.Output
	}

	if output != "" {
		format = output
	}
	switch format {
	case FormatTable, FormatYAML, FormatJSON:
		a.format = format
	default:
		return fmt.Errorf("%w: output must be table, yaml or json, got %q", ErrUsage, format)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// binding wires tables to the backend. Successes are reported on stderr;
// failures are returned as errors, so their notices only reach the log.
func (a *App) binding(quiet bool) registry.Binding {
	notify := records.NotifierFunc(func(_ context.Context, n records.Notice) {
		if n.Level == records.LevelSuccess && !quiet {
			fmt.Fprintln(a.errOut, n.Message)
			return
		}
		a.logger.Debug(n.Message, zap.String("level", string(n.Level)), zap.String("title", n.Title))
	})
	return registry.Binding{
		Transport: a.client,
		Lookups:   a.client,
		Options: []records.Option{
			records.WithConfirmer(records.ConfirmFunc(a.confirm)),
			records.WithNotifier(notify),
			records.WithLogger(a.logger),
		},
	}
}

// confirm asks on stderr and reads the answer from stdin. Anything but
// y or yes declines, including end of input.
func (a *App) confirm(_ context.Context, prompt string) (bool, error) {
	if a.yes {
		return true, nil
	}
	fmt.Fprintf(a.errOut, "%s [y/N] ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// table resolves a resource name, or a module/resource path, to its table
func (a *App) table(name string, quiet bool) (registry.Entry, records.Table, error) {
	module, resource, scoped := strings.Cut(name, "/")
	if !scoped {
		resource = name
	}
	e, err := registry.Lookup(resource)
	if err != nil {
		return registry.Entry{}, nil, err
	}
	if scoped && e.Module != module {
		return registry.Entry{}, nil, fmt.Errorf("%s belongs to module %s, not %s", e.Resource, e.Module, module)
	}
	t, err := a.workspace(quiet).Table(e.Resource)
	if err != nil {
		return registry.Entry{}, nil, err
	}
	return e, t, nil
}

// workspace builds every module tab over the backend binding
func (a *App) workspace(quiet bool) *workspace.Workspace {
	return workspace.New(a.binding(quiet), a.logger)
}

func (a *App) usage(fs *pflag.FlagSet) {
	fmt.Fprintln(a.errOut, "Usage: metabooks [global flags] <command> [args]")
	fmt.Fprintln(a.errOut, "\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(a.errOut, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(a.errOut, "\nGlobal flags:\n%s", fs.FlagUsages())
	fmt.Fprintln(a.errOut, "\nRun 'metabooks <command> --help' for command flags.")
}
