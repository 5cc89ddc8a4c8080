package shell

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"runtime"
	"strconv"
	"strings"

	"example.com/eblanshell/pkg/calc"
	"example.com/eblanshell/pkg/ping"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

func builtins() []Command {
	return []Command{
		{Name: "help", Usage: "help", Help: "show list of commands", Run: cmdHelp},
		{Name: "clear", Usage: "clear", Help: "clear the screen", Run: cmdClear},
		{Name: "whoami", Usage: "whoami", Help: "show current username", Run: cmdWhoami},
		{Name: "date", Usage: "date", Help: "show current date and time", Run: cmdDate},
		{Name: "sysinfo", Usage: "sysinfo", Help: "show system information", Run: cmdSysinfo},
		{Name: "calc", Usage: "calc", Help: "simple calculator", Run: cmdCalc},
		{Name: "ls", Usage: "ls [-l] [dir]", Help: "list files in current directory", Run: cmdLs},
		{Name: "cd", Usage: "cd <dir>", Help: "change directory", Run: cmdCd},
		{Name: "pwd", Usage: "pwd", Help: "print working directory", Run: cmdPwd},
		{Name: "cat", Usage: "cat <filename>", Help: "read file contents", Run: cmdCat},
		{Name: "mkdir", Usage: "mkdir <dirname>", Help: "create directory", Run: cmdMkdir},
		{Name: "rm", Usage: "rm <filename>", Help: "remove file", Run: cmdRm},
		{Name: "touch", Usage: "touch <filename>", Help: "create empty file", Run: cmdTouch},
		{Name: "cp", Usage: "cp <source> <destination>", Help: "copy file", Run: cmdCp},
		{Name: "mv", Usage: "mv <source> <destination>", Help: "move file", Run: cmdMv},
		{Name: "echo", Usage: "echo <text>", Help: "display text", Run: cmdEcho},
		{Name: "grep", Usage: "grep <pattern> <file>", Help: "search text in file", Run: cmdGrep},
		{Name: "edit", Usage: "edit <file>", Help: "text editor", Run: cmdEdit},
		{Name: "htop", Usage: "htop", Help: "show system resource usage", Run: cmdHtop},
		{Name: "zip", Usage: "zip <archive> <file/dir>", Help: "create zip archive", Run: cmdZip},
		{Name: "unzip", Usage: "unzip <archive>", Help: "extract zip archive", Run: cmdUnzip},
		{Name: "find", Usage: "find <pattern>", Help: "find files by pattern", Run: cmdFind},
		{Name: "genpass", Usage: "genpass <length>", Help: "generate random password", Run: cmdGenpass},
		{Name: "neofetch", Usage: "neofetch", Help: "display system information in fancy way", Run: cmdNeofetch},
		{Name: "history", Usage: "history", Help: "show command history", Run: cmdHistory},
		{Name: "tree", Usage: "tree <dir>", Help: "show directory tree", Run: cmdTree},
		{Name: "ping", Usage: "ping <host/ip> [-c count]", Help: "ping specified host", Run: cmdPing},
	}
}

func cmdHelp(_ context.Context, s *Shell, _ []string) error {
	s.println(s.st.title, "Available commands:")
	for _, name := range s.order {
		c := s.cmds[name]
		s.println(s.st.plain, c.Usage+" - "+c.Help)
		if name == "help" {
			s.println(s.st.plain, "exit - exit the system")
		}
	}
	return nil
}

func cmdClear(_ context.Context, s *Shell, _ []string) error {
	fmt.Fprint(s.out, "\033[H\033[2J")
	return nil
}

func cmdWhoami(_ context.Context, s *Shell, _ []string) error {
	s.println(s.st.info, "Current user: "+s.User())
	return nil
}

func cmdDate(_ context.Context, s *Shell, _ []string) error {
	s.println(s.st.title, "Current date and time: "+s.now().Format("2006-01-02 15:04:05"))
	return nil
}

func cmdSysinfo(_ context.Context, s *Shell, _ []string) error {
	s.println(s.st.title, "System Information:")
	s.println(s.st.plain, "OS: "+osDescription())
	s.println(s.st.plain, "Architecture: "+runtime.GOARCH)
	s.println(s.st.plain, "Runtime: "+runtime.Version())
	return nil
}

func cmdEcho(_ context.Context, s *Shell, args []string) error {
	fmt.Fprintln(s.out, strings.Join(args, " "))
	return nil
}

func cmdHistory(_ context.Context, s *Shell, _ []string) error {
	for i, l := range s.History.Entries() {
		s.println(s.st.plain, fmt.Sprintf("%d: %s", i+1, l))
	}
	return nil
}

// cmdCalc evaluates "a op b" lines until "exit" or end of input. Bad input
// is reported and the loop continues.
func cmdCalc(_ context.Context, s *Shell, _ []string) error {
	s.println(s.st.title, "Simple Calculator Mode (Type 'exit' to quit)")
	s.println(s.st.info, "Format: number operator number (e.g., 2 + 2)")
	for {
		line, err := s.in.ReadLine("Enter calculation: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line = normalize(line)
		if line == "exit" {
			return nil
		}
		v, err := calc.Eval(line)
		if err != nil {
			s.println(s.st.err, "Error: "+err.Error())
			continue
		}
		s.println(s.st.ok, "Result: "+calc.Format(v))
	}
}

func cmdEdit(_ context.Context, s *Shell, args []string) error {
	if len(args) < 1 {
		return errors.New("filename not specified")
	}
	if s.edit == nil {
		return errors.New("editor is not available")
	}
	return s.edit(s.path(args[0]))
}

func cmdHtop(_ context.Context, s *Shell, _ []string) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.println(s.st.info, "System Resource Monitor")
	fmt.Fprintln(s.out, strings.Repeat("-", 50))
	s.println(s.st.plain, "Process Memory Usage: "+humanize.IBytes(m.Sys))
	s.println(s.st.plain, "Managed Memory: "+humanize.IBytes(m.HeapAlloc))
	s.println(s.st.plain, "GC Cycles: "+humanize.Comma(int64(m.NumGC)))
	s.println(s.st.plain, "Goroutines: "+strconv.Itoa(runtime.NumGoroutine()))
	s.println(s.st.plain, "CPUs: "+strconv.Itoa(runtime.NumCPU()))
	return nil
}

const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()"

func cmdGenpass(_ context.Context, s *Shell, args []string) error {
	n := 12
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			n = 0
		} else {
			n = v
		}
	}
	if n < 4 {
		return errors.New("password length must be at least 4 characters")
	}
	pw, err := generatePassword(n)
	if err != nil {
		return err
	}
	s.println(s.st.ok, "Generated password: "+pw)
	return nil
}

func generatePassword(n int) (string, error) {
	limit := big.NewInt(int64(len(passwordChars)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = passwordChars[v.Int64()]
	}
	return string(b), nil
}

func cmdNeofetch(_ context.Context, s *Shell, _ []string) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	key := func(k, v string) string { return s.st.plain.Render(k+": ") + s.st.info.Render(v) }
	info := []string{
		s.st.info.Render(s.User() + "@" + s.host),
		"",
		key("OS", osDescription()),
		key("Host", s.host),
		key("Kernel", kernelRelease()),
		key("Uptime", uptime()),
		key("Shell", "Eblan Shell v"+Version),
		key("Terminal", terminalName()),
		key("CPU", cpuModel()),
		key("Memory", humanize.IBytes(m.Sys)),
		"",
		s.st.colorBlocks(),
	}
	art := s.st.paintRainbow(strings.Trim(banner, "\n"))
	fmt.Fprint(s.out, "\033[H\033[2J")
	fmt.Fprintln(s.out, lipgloss.JoinHorizontal(lipgloss.Top, art, "    ", strings.Join(info, "\n")))
	fmt.Fprintln(s.out)
	return nil
}

func cmdPing(ctx context.Context, s *Shell, args []string) error {
	host, count, err := parsePingArgs(args)
	if err != nil {
		return err
	}
	s.println(s.st.info, fmt.Sprintf("Pinging %s...", host))
	fmt.Fprintln(s.out)
	p, err := s.newProber(host)
	if err != nil {
		return err
	}
	defer p.Close()
	st := ping.Run(ctx, p, ping.Options{
		Count:    count,
		Interval: s.pingEvery,
		OnReply: func(r ping.Reply) {
			s.println(s.st.ok, fmt.Sprintf("Reply from %s: time=%dms TTL=%d", r.Addr, r.RTT.Milliseconds(), r.TTL))
		},
		OnError: func(_ int, err error) {
			s.println(s.st.err, "Failed: "+err.Error())
		},
	})
	fmt.Fprintln(s.out)
	summary := st.Summary(host)
	s.println(s.st.info, summary[0])
	for _, l := range summary[1:] {
		s.println(s.st.plain, l)
	}
	s.logger.Event("ping.done", map[string]any{"host": host, "addr": p.Addr(), "sent": st.Sent, "received": st.Received})
	return nil
}

func parsePingArgs(args []string) (string, int, error) {
	const u = "ping <host/ip> [-c count]"
	var host string
	count := 0
	for i := 0; i < len(args); i++ {
		if args[i] == "-c" {
			if i+1 >= len(args) {
				return "", 0, usage(u)
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 1 {
				return "", 0, usage(u)
			}
			count = n
			i++
			continue
		}
		if host != "" {
			return "", 0, usage(u)
		}
		host = args[i]
	}
	if host == "" {
		return "", 0, usage(u)
	}
	return host, count, nil
}

func osDescription() string {
	if data, err := os.ReadFile("/etc/os-release"); err == nil {
		for _, l := range strings.Split(string(data), "\n") {
			if v, ok := strings.CutPrefix(l, "PRETTY_NAME="); ok {
				return strings.Trim(v, `"`)
			}
		}
	}
	return runtime.GOOS
}

func kernelRelease() string {
	if data, err := os.ReadFile("/proc/sys/kernel/osrelease"); err == nil {
		return strings.TrimSpace(string(data))
	}
	return runtime.GOOS
}

func uptime() string {
	data, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return "unknown"
	}
	f := strings.Fields(string(data))
	if len(f) == 0 {
		return "unknown"
	}
	secs, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return "unknown"
	}
	total := int(secs)
	return fmt.Sprintf("%dd %dh %dm", total/86400, total%86400/3600, total%3600/60)
}

func terminalName() string {
	if t := os.Getenv("TERM"); t != "" {
		return t
	}
	return "Eblan Terminal"
}

func cpuModel() string {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err == nil {
		for _, l := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(l, "model name") {
				if _, v, ok := strings.Cut(l, ":"); ok {
					return strings.TrimSpace(v)
				}
			}
		}
	}
	return "Unknown CPU"
}
