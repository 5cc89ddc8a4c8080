package shell

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func zipName(name string) string {
	if strings.HasSuffix(name, ".zip") {
		return name
	}
	return name + ".zip"
}

func cmdZip(_ context.Context, s *Shell, args []string) error {
	if len(args) != 2 {
		return usage("zip <archive> <file/dir>")
	}
	archive := zipName(args[0])
	if err := createZip(s.path(archive), s.path(args[1])); err != nil {
		return err
	}
	s.println(s.st.ok, "Created archive: "+archive)
	return nil
}

func cmdUnzip(_ context.Context, s *Shell, args []string) error {
	if len(args) < 1 {
		return usage("unzip <archive>")
	}
	archive := zipName(args[0])
	if err := extractZip(s.path(archive), s.dir); err != nil {
		return err
	}
	s.println(s.st.ok, "Extracted archive: "+archive)
	return nil
}

// createZip archives a single file under its base name, or the contents of
// a directory relative to that directory.
func createZip(archive, target string) (err error) {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	f, err := os.Create(archive)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	zw := zip.NewWriter(f)
	if !info.IsDir() {
		if err := addZipFile(zw, target, filepath.Base(target)); err != nil {
			return err
		}
		return zw.Close()
	}
	absArchive, _ := filepath.Abs(archive)
	err = filepath.WalkDir(target, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(target, p)
		if err != nil || rel == "." {
			return err
		}
		name := filepath.ToSlash(rel)
		if d.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}
		if abs, _ := filepath.Abs(p); abs == absArchive {
			return nil
		}
		return addZipFile(zw, p, name)
	})
	if err != nil {
		return err
	}
	return zw.Close()
}

func addZipFile(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	info, err := src.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

// extractZip unpacks archive into dir, overwriting existing files. Entries
// that would land outside dir are rejected.
func extractZip(archive, dir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer zr.Close()
	for _, zf := range zr.File {
		dst := filepath.Join(dir, filepath.FromSlash(zf.Name))
		if dst != dir && !strings.HasPrefix(dst, filepath.Clean(dir)+string(filepath.Separator)) {
			return fmt.Errorf("%s: illegal path in archive", zf.Name)
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := extractFile(zf, dst); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(zf *zip.File, dst string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	mode := zf.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
