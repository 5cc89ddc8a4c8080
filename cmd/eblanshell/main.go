// Command eblanshell starts the Eblan Shell, a small interactive shell
// with a built-in modal text editor.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"example.com/eblanshell/internal/app"
	"example.com/eblanshell/internal/shell"
	"example.com/eblanshell/pkg/config"
	"example.com/eblanshell/pkg/logs"
	"github.com/spf13/cobra"
)

// cli holds the persistent flags and the streams the commands use.
type cli struct {
	cfgPath string
	verbose bool

	in  io.Reader
	out io.Writer

	cfg    *config.Config
	logger *logs.Logger
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "eblanshell",
		Short:         "Eblan Shell: an interactive shell with a modal text editor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			c.logger.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.newShell(nil).Run(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "config file (default ~/.eblanshell/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug events")

	root.AddCommand(&cobra.Command{
		Use:   "edit <file>",
		Short: "Open a file in the editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.edit(args[0])
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "exec [--] <command...>",
		Short: "Run a single shell command and exit",
		Long:  "Run a single shell command and exit. Put -- before commands taking flags, e.g. exec -- ls -l.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := c.newShell(nil)
			return sh.Exec(cmd.Context(), strings.Join(args, " "))
		},
	})
	return root
}

func (c *cli) setup() error {
	if c.cfgPath == "" {
		c.cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	c.logger = logs.Open(logs.OptionsFromEnv(logs.Options{
		Enabled: cfg.Log.Enabled,
		File:    cfg.Log.File,
		Debug:   c.verbose || cfg.Log.Level == "debug",
	}))
	c.logger.Event("startup", map[string]any{"config": c.cfgPath, "verbose": c.verbose})
	return nil
}

func (c *cli) newShell(in shell.LineReader) *shell.Shell {
	if in == nil {
		if f, ok := c.in.(*os.File); ok {
			in = shell.NewTermReader(f, c.out)
		} else {
			in = shell.NewScanReader(c.in, c.out)
		}
	}
	return shell.New(shell.Options{
		In:         in,
		Out:        c.out,
		Config:     c.cfg,
		ConfigPath: c.cfgPath,
		Logger:     c.logger,
		Edit:       c.edit,
	})
}

func (c *cli) edit(path string) error {
	r := app.New(c.cfg, c.logger)
	return r.Edit(path)
}

func main() {
	c := &cli{in: os.Stdin, out: os.Stdout}
	if err := newRootCmd(c).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "eblanshell:", err)
		os.Exit(1)
	}
}
