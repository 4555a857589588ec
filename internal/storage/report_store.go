package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"edadash/domain/core"
)

// ReportFile describes a written report
type ReportFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// ReportStore writes report documents into a directory on local disk
type ReportStore struct {
	basePath string
}

// NewReportStore resolves dir to an absolute path and creates it with parents.
// An empty dir means <cwd>/reports.
func NewReportStore(dir string) (*ReportStore, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		dir = filepath.Join(cwd, "reports")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", abs, err)
	}

	return &ReportStore{basePath: abs}, nil
}

// Dir returns the absolute directory reports are written to
func (s *ReportStore) Dir() string {
	return s.basePath
}

// Sub returns a store rooted at a subdirectory, creating it
func (s *ReportStore) Sub(name string) (*ReportStore, error) {
	return NewReportStore(filepath.Join(s.basePath, filepath.Base(name)))
}

// PathFor returns the final path of a report file name
func (s *ReportStore) PathFor(name string) string {
	return filepath.Join(s.basePath, filepath.Base(name))
}

// WriteAtomic streams write's output into a temporary file in the store
// directory and renames it over name. The final path never holds a partial
// document: on any error the temporary file is removed and an existing report
// at name is left untouched.
func (s *ReportStore) WriteAtomic(ctx context.Context, name string, write func(io.Writer) error) (*ReportFile, error) {
	final := s.PathFor(name)

	tmp, err := os.CreateTemp(s.basePath, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file in %s: %w", s.basePath, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := write(buf); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := buf.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return nil, fmt.Errorf("failed to set permissions on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, final); err != nil {
		return nil, fmt.Errorf("failed to move report into place at %s: %w", final, err)
	}
	committed = true

	return Stat(final)
}

// Stat describes an existing report file
func Stat(path string) (*ReportFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewNotFoundError("report", path)
		}
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	return &ReportFile{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Open opens a report for reading
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewNotFoundError("report", path)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return file, nil
}

// CleanupExpired removes report files under the store older than olderThan and
// any subdirectories left empty by the sweep. It returns the number of files
// removed.
func (s *ReportStore) CleanupExpired(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	removed := 0

	var dirs []string
	err := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			if path != s.basePath {
				dirs = append(dirs, path)
			}
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove expired file %s: %w", path, err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, err
	}

	// Deepest first so nested empty directories collapse.
	for i := len(dirs) - 1; i >= 0; i-- {
		if entries, err := os.ReadDir(dirs[i]); err == nil && len(entries) == 0 {
			os.Remove(dirs[i])
		}
	}
	return removed, nil
}
