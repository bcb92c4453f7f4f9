package theme

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultStylesheet seeds a theme directory that has never been backed up.
const DefaultStylesheet = `body { font-family: sans-serif; margin: 0 auto; max-width: 48em; }
`

// Manager backs up and restores a blog's editable theme as a compressed tar archive.
type Manager struct {
	compressor Compressor
}

func NewManager(compressor Compressor) *Manager {
	return &Manager{compressor: compressor}
}

// Backup archives dir into archivePath. A missing dir is not an error.
func (m *Manager) Backup(dir, archivePath string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return fmt.Errorf("archive theme: %w", err)
	}
	if err := tw.Close(); err != nil {
		return err
	}

	data, err := m.compressor.Compress(buf.Bytes())
	if err != nil {
		return err
	}
	return writeAtomically(archivePath, data)
}

// Restore unpacks archivePath into dir. Without an archive dir is seeded
// with the default stylesheet.
func (m *Manager) Restore(archivePath, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	compressed, err := os.ReadFile(archivePath)
	if errors.Is(err, fs.ErrNotExist) {
		css := filepath.Join(dir, "theme.css")
		if _, err := os.Stat(css); err == nil {
			return nil
		}
		return os.WriteFile(css, []byte(DefaultStylesheet), 0o644)
	}
	if err != nil {
		return err
	}

	data, err := m.compressor.Decompress(compressed)
	if err != nil {
		return fmt.Errorf("decompress theme: %w", err)
	}

	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read theme archive: %w", err)
		}

		target := filepath.Join(dir, filepath.FromSlash(hdr.Name))
		if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
			return fmt.Errorf("theme archive entry %q escapes %s", hdr.Name, dir)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := writeFile(target, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return err
			}
		}
	}
}

func writeFile(path string, r io.Reader, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeAtomically writes through a synced temp file and a rename.
func writeAtomically(fileName string, data []byte) error {
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}
