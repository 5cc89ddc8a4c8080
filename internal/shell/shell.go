// Package shell implements the interactive Eblan Shell: the prompt loop,
// the command registry and the built-in commands.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"example.com/eblanshell/pkg/config"
	"example.com/eblanshell/pkg/history"
	"example.com/eblanshell/pkg/logs"
	"example.com/eblanshell/pkg/ping"
	"github.com/charmbracelet/lipgloss"
)

// Version is shown in the banner and by neofetch.
const Version = "1.0"

// ErrUnknownCommand is returned by Exec for names not in the registry.
var ErrUnknownCommand = errors.New("unknown command")

// UsageError reports wrong arguments; it prints as the usage line.
type UsageError struct{ Usage string }

func (e *UsageError) Error() string { return "Usage: " + e.Usage }

func usage(u string) error { return &UsageError{Usage: u} }

// Command is one built-in. Run receives the arguments after the name.
type Command struct {
	Name  string
	Usage string
	Help  string
	Run   func(ctx context.Context, s *Shell, args []string) error
}

// Prober is a ping target with a resolved address and a socket to close.
type Prober interface {
	ping.Prober
	Addr() string
	Close() error
}

// Options configures a Shell. Zero values select the process environment.
type Options struct {
	In         LineReader
	Out        io.Writer
	Config     *config.Config
	ConfigPath string
	Logger     *logs.Logger
	// Edit opens the editor on an absolute path.
	Edit      func(path string) error
	Dir       string
	Home      string
	Host      string
	Now       func() time.Time
	NewProber func(host string) (Prober, error)
	// PingInterval overrides the one second between echo requests.
	PingInterval time.Duration
}

// Shell is an interactive session.
type Shell struct {
	in         LineReader
	out        io.Writer
	cfg        *config.Config
	configPath string
	logger     *logs.Logger
	edit       func(path string) error
	now        func() time.Time
	newProber  func(host string) (Prober, error)
	pingEvery  time.Duration

	dir  string
	home string
	host string

	History *history.History
	st      styles
	order   []string
	cmds    map[string]Command
}

// New builds a Shell with every built-in registered.
func New(o Options) *Shell {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.In == nil {
		o.In = NewTermReader(os.Stdin, o.Out)
	}
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Dir == "" {
		o.Dir, _ = os.Getwd()
	}
	if o.Home == "" {
		o.Home, _ = os.UserHomeDir()
	}
	if o.Host == "" {
		o.Host, _ = os.Hostname()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewProber == nil {
		o.NewProber = func(host string) (Prober, error) { return ping.NewICMP(host, 2*time.Second) }
	}
	s := &Shell{
		in:         o.In,
		out:        o.Out,
		cfg:        o.Config,
		configPath: o.ConfigPath,
		logger:     o.Logger,
		edit:       o.Edit,
		now:        o.Now,
		newProber:  o.NewProber,
		pingEvery:  o.PingInterval,
		dir:        o.Dir,
		home:       o.Home,
		host:       o.Host,
		History:    history.New(),
		st:         newStyles(o.Out),
		cmds:       map[string]Command{},
	}
	for _, c := range builtins() {
		s.Register(c)
	}
	return s
}

// Register adds or replaces a command.
func (s *Shell) Register(c Command) {
	if _, ok := s.cmds[c.Name]; !ok {
		s.order = append(s.order, c.Name)
	}
	s.cmds[c.Name] = c
}

// Dir returns the shell's working directory.
func (s *Shell) Dir() string { return s.dir }

// User returns the configured user name.
func (s *Shell) User() string { return s.cfg.Username }

// Run shows the banner, makes sure a user name is configured and then
// reads and executes commands until "exit" or end of input. Each command
// gets a context cancelled by Ctrl+C.
func (s *Shell) Run(ctx context.Context) error {
	s.banner()
	if err := s.ensureUser(); err != nil {
		return err
	}
	fmt.Fprintln(s.out)
	s.println(s.st.info, "Type 'help' to see available commands")
	s.logger.Event("shell.start", map[string]any{"user": s.User(), "dir": s.dir})
	defer s.logger.Event("shell.end", map[string]any{"commands": s.History.Len()})
	for {
		line, err := s.in.ReadLine(s.prompt())
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			s.println(s.st.err, "Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
		line = normalize(line)
		if line == "exit" {
			s.println(s.st.err, "Goodbye!")
			return nil
		}
		cctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		_ = s.Exec(cctx, line)
		stop()
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func normalize(line string) string { return strings.ToLower(strings.TrimSpace(line)) }

// Exec runs one input line. Failures are printed and also returned; they
// never end the shell.
func (s *Shell) Exec(ctx context.Context, line string) error {
	line = normalize(line)
	if line == "" {
		return nil
	}
	s.History.Add(line)
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	cmd, ok := s.cmds[name]
	if !ok {
		s.println(s.st.err, fmt.Sprintf("Command '%s' not found. Type 'help' to see available commands.", name))
		s.logger.Event("command.unknown", map[string]any{"name": name})
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	s.logger.Event("command", map[string]any{"name": name, "args": len(args)})
	err := cmd.Run(ctx, s, args)
	if err != nil {
		var ue *UsageError
		if errors.As(err, &ue) {
			s.println(s.st.err, ue.Error())
		} else {
			s.println(s.st.err, "Error: "+err.Error())
			s.logger.Error("command.error", err, map[string]any{"name": name})
		}
	}
	return err
}

func (s *Shell) prompt() string {
	return s.st.ok.Render(s.User()+"@"+s.host) +
		s.st.plain.Render(":") +
		s.st.dir.Render(s.displayDir()) +
		s.st.plain.Render("$ ")
}

// displayDir abbreviates the home directory to ~.
func (s *Shell) displayDir() string {
	if s.home != "" {
		if s.dir == s.home {
			return "~"
		}
		if rel, ok := strings.CutPrefix(s.dir, s.home+string(filepath.Separator)); ok {
			return "~" + string(filepath.Separator) + rel
		}
	}
	return s.dir
}

func (s *Shell) banner() {
	fmt.Fprint(s.out, "\033[H\033[2J")
	fmt.Fprintln(s.out, s.st.paintRainbow(banner))
	s.println(s.st.ok, "Eblan Shell V"+Version+" By Root aka Crio")
	fmt.Fprintln(s.out)
	s.println(s.st.info, "Welcome to Eblan Shell")
	fmt.Fprintln(s.out)
}

// ensureUser asks for a name on first start and stores it in the config
// file. Empty answers are rejected; end of input falls back to "User".
func (s *Shell) ensureUser() error {
	if s.cfg.Username == "" {
		s.println(s.st.info, "Write your name:")
		for {
			name, err := s.in.ReadLine("")
			if errors.Is(err, io.EOF) {
				name = "User"
			} else if err != nil {
				return err
			}
			if name = strings.TrimSpace(name); name != "" {
				s.cfg.Username = name
				break
			}
			s.println(s.st.err, "Error: name must not be empty")
		}
		if s.configPath != "" {
			if err := config.Save(s.configPath, s.cfg); err != nil {
				s.println(s.st.err, "Error saving config: "+err.Error())
				s.logger.Error("config.save", err, map[string]any{"file": s.configPath})
			}
		}
	}
	fmt.Fprintln(s.out, s.st.plain.Render("Welcome ")+s.st.name.Render(s.cfg.Username)+s.st.plain.Render("!"))
	return nil
}

func (s *Shell) println(style lipgloss.Style, text string) {
	fmt.Fprintln(s.out, style.Render(text))
}

// path resolves p against the shell's directory and expands ~.
func (s *Shell) path(p string) string {
	switch {
	case p == "~":
		return s.home
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(s.home, p[2:])
	case filepath.IsAbs(p):
		return filepath.Clean(p)
	}
	return filepath.Join(s.dir, p)
}
