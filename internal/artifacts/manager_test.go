package artifacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTypesetter emits the files a pdflatex run would leave behind.
type fakeTypesetter struct {
	fail    bool
	noPDF   bool
	partial bool
	extra   []string
	calls   int
	lastDir string
	lastSrc string
}

func (f *fakeTypesetter) Run(_ context.Context, workDir, srcPath string) (Output, error) {
	f.calls++
	f.lastDir = workDir
	f.lastSrc = srcPath

	base := strings.TrimSuffix(filepath.Base(srcPath), ".tex")
	write := func(ext string) {
		_ = os.WriteFile(filepath.Join(workDir, base+ext), []byte(ext), 0644)
	}
	write(".log")
	write(".aux")
	write(".out")
	for _, ext := range f.extra {
		write(ext)
	}
	if f.fail {
		if f.partial {
			write(".pdf")
		}
		return Output{Stdout: "! Undefined control sequence.", Stderr: "fatal"}, errors.New("exit status 1")
	}
	if !f.noPDF {
		write(".pdf")
	}
	return Output{Stdout: "Output written on " + base + ".pdf"}, nil
}

func newTestManager(t *testing.T, ts Typesetter) *Manager {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "output")
	m := NewManager(dir, ts, DefaultOptions())
	require.NoError(t, m.EnsureDir(context.Background()))
	return m
}

func TestEnsureDir_CreatesNested(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "output")
	m := NewManager(dir, nil, nil)

	require.NoError(t, m.EnsureDir(context.Background()))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent
	require.NoError(t, m.EnsureDir(context.Background()))
}

func TestEnsureDir_FileOccupiesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, []byte("keep me"), 0644))

	m := NewManager(path, nil, DefaultOptions())
	err := m.EnsureDir(context.Background())
	require.Error(t, err)

	var dirErr *DirError
	assert.ErrorAs(t, err, &dirErr)
	assert.Contains(t, err.Error(), "not a directory")

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "keep me", string(content))
}

func TestWriteSource_OverwritesNotAppends(t *testing.T) {
	m := newTestManager(t, &fakeTypesetter{})

	set, err := m.WriteSource("cl.tex", "first version")
	require.NoError(t, err)
	set2, err := m.WriteSource("cl", "DOC")
	require.NoError(t, err)
	assert.Equal(t, set, set2)

	content, err := os.ReadFile(set.SourcePath)
	require.NoError(t, err)
	assert.Equal(t, "DOC", string(content))

	// No temporary files left behind
	entries, err := os.ReadDir(m.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cl.tex", entries[0].Name())
}

func TestWriteText_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing"), nil, nil)
	_, err := m.WriteText("job_description.txt", "text")

	var writeErr *WriteError
	assert.ErrorAs(t, err, &writeErr)
}

func TestRender_Success(t *testing.T) {
	ts := &fakeTypesetter{}
	m := newTestManager(t, ts)

	set, err := m.WriteSource("cl", "DOC")
	require.NoError(t, err)

	set, err = m.Render(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, 1, ts.calls)
	assert.Equal(t, m.Dir(), ts.lastDir)
	assert.Equal(t, set.SourcePath, ts.lastSrc)
	assert.FileExists(t, set.PDFPath)
	// The fake PDF cannot be parsed, so no page count is reported.
	assert.Equal(t, 0, set.PageCount)
}

func TestRender_Failure(t *testing.T) {
	m := newTestManager(t, &fakeTypesetter{fail: true})

	set, err := m.WriteSource("cl", "\\broken")
	require.NoError(t, err)

	_, err = m.Render(context.Background(), set)
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, renderErr.Stdout, "Undefined control sequence")
	assert.Equal(t, "fatal", renderErr.Stderr)
	assert.Equal(t, set.LogPath, renderErr.LogPath)

	assert.FileExists(t, set.SourcePath)
	assert.FileExists(t, set.LogPath)
	assert.NoFileExists(t, set.PDFPath)
}

func TestRender_FailureRemovesPreviousPDF(t *testing.T) {
	ts := &fakeTypesetter{}
	m := newTestManager(t, ts)

	set, err := m.WriteSource("cl", "DOC")
	require.NoError(t, err)
	_, err = m.Render(context.Background(), set)
	require.NoError(t, err)
	require.FileExists(t, set.PDFPath)

	ts.fail = true
	set, err = m.WriteSource("cl", "\\broken")
	require.NoError(t, err)
	_, err = m.Render(context.Background(), set)
	require.Error(t, err)

	assert.NoFileExists(t, set.PDFPath)
	assert.FileExists(t, set.LogPath)
}

func TestRender_FailureRemovesPartialPDF(t *testing.T) {
	m := newTestManager(t, &fakeTypesetter{fail: true, partial: true})

	set, err := m.WriteSource("cl", "DOC")
	require.NoError(t, err)
	_, err = m.Render(context.Background(), set)
	require.Error(t, err)

	assert.NoFileExists(t, set.PDFPath)
	assert.FileExists(t, set.SourcePath)
	assert.FileExists(t, set.LogPath)
}

func TestRender_NoPDFRemovesPreviousPDF(t *testing.T) {
	ts := &fakeTypesetter{}
	m := newTestManager(t, ts)

	set, err := m.WriteSource("cl", "DOC")
	require.NoError(t, err)
	_, err = m.Render(context.Background(), set)
	require.NoError(t, err)

	ts.noPDF = true
	_, err = m.Render(context.Background(), set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced no PDF")
	assert.NoFileExists(t, set.PDFPath)
}

func TestRender_NoPDF(t *testing.T) {
	m := newTestManager(t, &fakeTypesetter{noPDF: true})

	set, err := m.WriteSource("cl", "DOC")
	require.NoError(t, err)

	_, err = m.Render(context.Background(), set)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, err.Error(), "produced no PDF")
}

func TestRender_MissingSource(t *testing.T) {
	ts := &fakeTypesetter{}
	m := newTestManager(t, ts)

	_, err := m.Render(context.Background(), m.Set("ghost"))
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, 0, ts.calls)
}

func TestCleanup_PreservesLog(t *testing.T) {
	ts := &fakeTypesetter{extra: []string{".toc", ".synctex.gz", ".fdb_latexmk", ".bbl", ".run.xml"}}
	m := newTestManager(t, ts)

	set, err := m.WriteSource("cl", "DOC")
	require.NoError(t, err)
	_, err = m.Render(context.Background(), set)
	require.NoError(t, err)

	// A stray auxiliary file from an earlier run with another name.
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "old.nav"), []byte("x"), 0644))

	warnings := m.Cleanup()
	assert.Empty(t, warnings)

	assert.FileExists(t, set.LogPath)
	assert.FileExists(t, set.SourcePath)
	assert.FileExists(t, set.PDFPath)

	entries, err := os.ReadDir(m.Dir())
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, m.IsAuxiliary(entry.Name()), "auxiliary file remains: %s", entry.Name())
	}
}

func TestCleanup_BaseSetOnly(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, nil, &Options{Extended: false})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cl.aux"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cl.bbl"), nil, 0644))

	assert.Empty(t, m.Cleanup())
	assert.NoFileExists(t, filepath.Join(dir, "cl.aux"))
	assert.FileExists(t, filepath.Join(dir, "cl.bbl"))
}

func TestCleanup_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "none"), nil, nil)
	assert.Empty(t, m.Cleanup())
}

func TestIsAuxiliary(t *testing.T) {
	m := NewManager(t.TempDir(), nil, DefaultOptions())

	assert.True(t, m.IsAuxiliary("cl.aux"))
	assert.True(t, m.IsAuxiliary("cl.synctex.gz"))
	assert.True(t, m.IsAuxiliary("cl.fdb_latexmk"))
	assert.True(t, m.IsAuxiliary("cl.run.xml"))
	assert.False(t, m.IsAuxiliary("cl.log"))
	assert.False(t, m.IsAuxiliary("cl.tex"))
	assert.False(t, m.IsAuxiliary("cl.pdf"))
	assert.False(t, m.IsAuxiliary("job_description.txt"))
}
