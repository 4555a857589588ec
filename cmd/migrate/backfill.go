package main

import (
	"bufio"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"edadash/adapters/comparative"
	"edadash/adapters/profiling"
	"edadash/domain/core"
	"edadash/domain/report"
	"edadash/internal/storage"

	"github.com/google/uuid"
)

var titlePattern = regexp.MustCompile(`(?is)<title>(.*?)</title>`)

// backendFiles maps the fixed report file names back to their backends
var backendFiles = map[string]report.Backend{
	profiling.FileName:   report.BackendProfiling,
	comparative.FileName: report.BackendComparative,
}

// findReports walks dir for report files written by the dashboard and builds
// the artifact each one would have been recorded as
func findReports(dir string) ([]*report.Artifact, error) {
	var artifacts []*report.Artifact

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		backend, ok := backendFiles[info.Name()]
		if !ok {
			return nil
		}

		art, err := artifactFor(path, backend)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, art)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].CreatedAt.Before(artifacts[j].CreatedAt)
	})
	return artifacts, nil
}

func artifactFor(path string, backend report.Backend) (*report.Artifact, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	file, err := storage.Stat(abs)
	if err != nil {
		return nil, err
	}
	title, err := readTitle(abs)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = backend.Label()
	}

	return &report.Artifact{
		ID:        artifactID(abs),
		Backend:   backend,
		Kind:      report.KindHTML,
		Analysis:  analysisFor(backend, title),
		Title:     title,
		Path:      abs,
		FileName:  filepath.Base(abs),
		SizeBytes: file.Size,
		CreatedAt: core.NewTimestamp(file.ModTime),
	}, nil
}

// artifactID reuses the directory name under unique naming. Fixed-name
// reports get an ID derived from their path so reruns update the same row.
func artifactID(abs string) core.ID {
	if id, err := core.ParseID(filepath.Base(filepath.Dir(abs))); err == nil {
		return id
	}
	return core.ID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String())
}

func analysisFor(backend report.Backend, title string) report.Analysis {
	if backend != report.BackendProfiling {
		return ""
	}
	if title == profiling.TitleMinimal {
		return report.AnalysisMinimal
	}
	return report.AnalysisFull
}

func readTitle(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(bufio.NewReader(f), 4096))
	if err != nil {
		return "", err
	}
	m := titlePattern.FindSubmatch(head)
	if m == nil {
		return "", nil
	}
	return html.UnescapeString(string(m[1])), nil
}
