// Package cli implements the jsregistry command-line interface.
//
// With no subcommand, or with serve, the binary speaks MCP over stdin and
// stdout. The remaining commands run a single tool and print its result:
//   - search, search-all, search-npm, search-jsr, search-deno
//   - detect
//   - tools
//
// Logs go to stderr. --log-level sets the level and -v is shorthand for
// debug. Settings come from JSREGISTRY_* environment variables and an
// optional jsregistry.yaml.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	_ "github.com/git-pkgs/jsregistry/all"
	"github.com/git-pkgs/jsregistry/internal/config"
	"github.com/git-pkgs/jsregistry/server"
)

var version = "dev"

// SetVersion sets the version reported by --version and the MCP handshake.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// serverFactory builds the tool server from resolved settings.
type serverFactory func(cfg *config.Config, logger *log.Logger) (*server.Server, error)

func defaultServer(cfg *config.Config, logger *log.Logger) (*server.Server, error) {
	return server.NewDefault(cfg.Client(), server.Options{
		DefaultRegistry: cfg.DefaultRegistry,
		Logger:          logger,
		Version:         version,
	}, cfg.InspectOptions()...)
}

// CLI holds the streams and state shared by every command.
type CLI struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	v          *viper.Viper
	configFile string
	verbose    bool
	format     string

	newServer serverFactory
	server    *server.Server
}

// New creates a CLI reading MCP requests from in, writing results to out and
// logs to errOut.
func New(in io.Reader, out, errOut io.Writer) *CLI {
	return &CLI{
		in:        in,
		out:       out,
		errOut:    errOut,
		v:         config.New(),
		newServer: defaultServer,
	}
}

// Execute runs the CLI on the process streams.
func Execute(ctx context.Context) error {
	return New(os.Stdin, os.Stdout, os.Stderr).RootCommand().ExecuteContext(ctx)
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "jsregistry",
		Short:             "Search and inspect npm, JSR and deno.land/x packages",
		Long:              "jsregistry aggregates package metadata from npm, JSR and deno.land/x and serves it as MCP tools.",
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}

	root.SetOut(c.out)
	root.SetErr(c.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file path")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("default-registry", "", "registry used when a call names none: npm, jsr or deno")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&c.format, "format", "json", "result output: json or text")
	_ = c.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = c.v.BindPFlag(config.KeyDefaultRegistry, flags.Lookup("default-registry"))

	root.AddCommand(c.newServeCmd())
	root.AddCommand(c.newSearchCmd())
	root.AddCommand(c.newSearchAllCmd())
	for _, r := range []string{"npm", "jsr", "deno"} {
		root.AddCommand(c.newSearchRegistryCmd(r))
	}
	root.AddCommand(c.newDetectCmd())
	root.AddCommand(c.newToolsCmd())
	return root
}

// setup loads configuration, attaches the logger to the command context and
// builds the server.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.format != "json" && c.format != "text" {
		return fmt.Errorf("unsupported format %q: want json or text", c.format)
	}
	if err := config.ReadFile(c.v, c.configFile); err != nil {
		return err
	}
	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}

	level, ok := parseLevel(cfg.LogLevel)
	if c.verbose {
		level = log.DebugLevel
	}
	logger := newLogger(c.errOut, level)
	if !ok {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
	}
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, logger))

	srv, err := c.newServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	c.server = srv
	logger.Debug("configured", "defaultRegistry", cfg.DefaultRegistry, "timeout", cfg.Timeout, "rateLimit", cfg.RateLimit)
	return nil
}
