package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"edadash/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestNewReportStoreCreatesParents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "reports")
	store, err := NewReportStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(store.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.True(t, filepath.IsAbs(store.Dir()))
}

func TestNewReportStoreDefaultsToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	store, err := NewReportStore("")
	require.NoError(t, err)
	assert.Equal(t, "reports", filepath.Base(store.Dir()))
	_, err = os.Stat(store.Dir())
	assert.NoError(t, err)
}

func TestWriteAtomicOverwrites(t *testing.T) {
	store, err := NewReportStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := store.WriteAtomic(ctx, "profile_report.html", writeString("first"))
	require.NoError(t, err)
	second, err := store.WriteAtomic(ctx, "profile_report.html", writeString("second version"))
	require.NoError(t, err)

	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, int64(len("second version")), second.Size)

	content, err := os.ReadFile(second.Path)
	require.NoError(t, err)
	assert.Equal(t, "second version", string(content))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAtomicKeepsPreviousOnFailure(t *testing.T) {
	store, err := NewReportStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.WriteAtomic(ctx, "report.html", writeString("good"))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = store.WriteAtomic(ctx, "report.html", func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	content, err := os.ReadFile(store.PathFor("report.html"))
	require.NoError(t, err)
	assert.Equal(t, "good", string(content))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be removed")
}

func TestSubAndOpen(t *testing.T) {
	store, err := NewReportStore(t.TempDir())
	require.NoError(t, err)

	sub, err := store.Sub("0190abcd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "0190abcd"), sub.Dir())

	f, err := sub.WriteAtomic(context.Background(), "x.html", writeString("<html></html>"))
	require.NoError(t, err)

	rc, err := Open(f.Path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	_, err = Open(filepath.Join(sub.Dir(), "missing.html"))
	assert.True(t, core.IsNotFoundError(err))
}

func TestCleanupExpired(t *testing.T) {
	store, err := NewReportStore(t.TempDir())
	require.NoError(t, err)
	sub, err := store.Sub("old")
	require.NoError(t, err)

	f, err := sub.WriteAtomic(context.Background(), "r.html", writeString("x"))
	require.NoError(t, err)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(f.Path, past, past))

	_, err = store.WriteAtomic(context.Background(), "fresh.html", writeString("y"))
	require.NoError(t, err)

	removed, err := store.CleanupExpired(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = os.Stat(sub.Dir())
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(store.PathFor("fresh.html"))
	assert.NoError(t, err)
}
