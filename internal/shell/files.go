package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"example.com/eblanshell/pkg/search"
	"github.com/dustin/go-humanize"
)

func cmdLs(_ context.Context, s *Shell, args []string) error {
	long := false
	dir := "."
	for _, a := range args {
		if a == "-l" {
			long = true
			continue
		}
		dir = a
	}
	entries, err := os.ReadDir(s.path(dir))
	if err != nil {
		return err
	}
	var dirs, files []fs.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	for _, e := range dirs {
		s.println(s.st.dir, s.lsLine(e, e.Name()+"/", long))
	}
	for _, e := range files {
		s.println(s.st.plain, s.lsLine(e, e.Name(), long))
	}
	return nil
}

func (s *Shell) lsLine(e fs.DirEntry, name string, long bool) string {
	if !long {
		return name
	}
	info, err := e.Info()
	if err != nil {
		return name
	}
	size := "-"
	if !e.IsDir() {
		size = humanize.IBytes(uint64(info.Size()))
	}
	return fmt.Sprintf("%s %9s %-14s %s", info.Mode().Perm(), size, humanize.RelTime(info.ModTime(), s.now(), "ago", "from now"), name)
}

func cmdCd(_ context.Context, s *Shell, args []string) error {
	target := s.home
	if len(args) > 0 {
		target = s.path(args[0])
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", target)
	}
	s.dir = target
	s.println(s.st.ok, "Changed directory to: "+s.dir)
	return nil
}

func cmdPwd(_ context.Context, s *Shell, _ []string) error {
	s.println(s.st.info, "Current directory: "+s.dir)
	return nil
}

func cmdCat(_ context.Context, s *Shell, args []string) error {
	if len(args) < 1 {
		return usage("cat <filename>")
	}
	data, err := os.ReadFile(s.path(args[0]))
	if err != nil {
		return err
	}
	s.println(s.st.info, "Contents of "+args[0]+":")
	fmt.Fprintln(s.out, string(data))
	return nil
}

func cmdMkdir(_ context.Context, s *Shell, args []string) error {
	if len(args) < 1 {
		return usage("mkdir <dirname>")
	}
	if err := os.MkdirAll(s.path(args[0]), 0o755); err != nil {
		return err
	}
	s.println(s.st.ok, "Created directory: "+args[0])
	return nil
}

func cmdRm(_ context.Context, s *Shell, args []string) error {
	if len(args) < 1 {
		return usage("rm <filename>")
	}
	p := s.path(args[0])
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: is a directory", args[0])
	}
	if err := os.Remove(p); err != nil {
		return err
	}
	s.println(s.st.ok, "Removed file: "+args[0])
	return nil
}

// cmdTouch creates a missing file and updates the times of an existing
// one without truncating it.
func cmdTouch(_ context.Context, s *Shell, args []string) error {
	if len(args) < 1 {
		return usage("touch <filename>")
	}
	p := s.path(args[0])
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	now := time.Now()
	if err := os.Chtimes(p, now, now); err != nil {
		return err
	}
	s.println(s.st.ok, "Created file: "+args[0])
	return nil
}

func cmdCp(_ context.Context, s *Shell, args []string) error {
	if len(args) != 2 {
		return usage("cp <source> <destination>")
	}
	if err := copyFile(s.path(args[0]), s.path(args[1])); err != nil {
		return err
	}
	s.println(s.st.ok, fmt.Sprintf("Copied %s to %s", args[0], args[1]))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: is a directory", src)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func cmdMv(_ context.Context, s *Shell, args []string) error {
	if len(args) != 2 {
		return usage("mv <source> <destination>")
	}
	src, dst := s.path(args[0]), s.path(args[1])
	if _, err := os.Stat(src); err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%s: destination already exists", args[1])
	}
	if err := os.Rename(src, dst); err != nil {
		return err
	}
	s.println(s.st.ok, fmt.Sprintf("Moved %s to %s", args[0], args[1]))
	return nil
}

func cmdGrep(_ context.Context, s *Shell, args []string) error {
	if len(args) != 2 {
		return usage("grep <pattern> <file>")
	}
	data, err := os.ReadFile(s.path(args[1]))
	if err != nil {
		return err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for _, m := range search.Lines(lines, args[0]) {
		fmt.Fprintln(s.out, s.st.ok.Render(fmt.Sprintf("%d: ", m.Number))+s.highlight(m))
	}
	return nil
}

func (s *Shell) highlight(m search.Match) string {
	var b strings.Builder
	prev := 0
	for _, r := range m.Ranges {
		b.WriteString(s.st.ok.Render(m.Text[prev:r.Start]))
		b.WriteString(s.st.match.Render(m.Text[r.Start:r.End]))
		prev = r.End
	}
	b.WriteString(s.st.ok.Render(m.Text[prev:]))
	return b.String()
}

// cmdFind lists regular files below the current directory whose name
// contains the pattern, ignoring case.
func cmdFind(_ context.Context, s *Shell, args []string) error {
	if len(args) < 1 {
		return usage("find <pattern>")
	}
	pattern := args[0]
	s.println(s.st.info, fmt.Sprintf("Searching for files matching '%s':", pattern))
	found := false
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return err
		}
		if d.IsDir() || !search.ContainsFold(d.Name(), pattern) {
			return nil
		}
		rel, _ := filepath.Rel(s.dir, p)
		fmt.Fprintln(s.out, "."+string(filepath.Separator)+rel)
		found = true
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		s.println(s.st.warn, "No matching files found.")
	}
	return nil
}

type treeItem struct {
	path   string
	indent string
	last   bool
	files  []string
	isDirs bool
}

// cmdTree prints the directory tree with an explicit stack. A directory's
// subdirectories come first, then its files.
func cmdTree(_ context.Context, s *Shell, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	lines, err := treeLines(s.path(root))
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(s.out, l)
	}
	return nil
}

func treeLines(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	var out []string
	stack := []treeItem{{path: root, last: true, isDirs: true}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !it.isDirs {
			for i, f := range it.files {
				out = append(out, it.indent+branch(i == len(it.files)-1)+f)
			}
			continue
		}
		out = append(out, it.indent+branch(it.last)+filepath.Base(it.path))
		entries, err := os.ReadDir(it.path)
		if err != nil {
			return out, err
		}
		var dirs, files []string
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, e.Name())
			} else {
				files = append(files, e.Name())
			}
		}
		sort.Strings(dirs)
		sort.Strings(files)
		next := it.indent + "│   "
		if it.last {
			next = it.indent + "    "
		}
		if len(files) > 0 {
			stack = append(stack, treeItem{indent: next, files: files})
		}
		for i := len(dirs) - 1; i >= 0; i-- {
			stack = append(stack, treeItem{
				path:   filepath.Join(it.path, dirs[i]),
				indent: next,
				last:   i == len(dirs)-1 && len(files) == 0,
				isDirs: true,
			})
		}
	}
	return out, nil
}

func branch(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}
