package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jonathan/cover-letter-bot/internal/types"
)

// LogExt is the typesetter log extension. It is always kept.
const LogExt = ".log"

// AuxExtensions are removed after every render.
var AuxExtensions = []string{".aux", ".out", ".toc", ".synctex.gz", ".nav", ".snm", ".fls", ".fdb_latexmk"}

// ExtendedAuxExtensions are produced by richer documents (lists of figures,
// bibliographies, indexes, glossaries, beamer).
var ExtendedAuxExtensions = []string{
	".lof", ".lot", ".bbl", ".blg", ".bcf", ".run.xml", ".xdv", ".vrb",
	".idx", ".ind", ".ilg", ".glo", ".gls", ".glg", ".ist",
	".acn", ".acr", ".alg", ".thm", ".loa", ".lol", ".4ct", ".4tc", ".dvi",
}

// Options configures a Manager.
type Options struct {
	// Extended also removes ExtendedAuxExtensions.
	Extended      bool
	Logger        *slog.Logger
	RetryAttempts uint
	RetryDelay    time.Duration
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() *Options {
	return &Options{
		Extended:      true,
		RetryAttempts: 3,
		RetryDelay:    200 * time.Millisecond,
	}
}

// Manager owns a single output directory.
type Manager struct {
	dir           string
	typesetter    Typesetter
	logger        *slog.Logger
	extended      bool
	retryAttempts uint
	retryDelay    time.Duration
}

// NewManager creates a manager for dir. The directory is not created until
// EnsureDir is called.
func NewManager(dir string, typesetter Typesetter, opts *Options) *Manager {
	if opts == nil {
		opts = DefaultOptions()
	}
	if typesetter == nil {
		typesetter = PDFLaTeX{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	attempts := opts.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}
	return &Manager{
		dir:           dir,
		typesetter:    typesetter,
		logger:        logger,
		extended:      opts.Extended,
		retryAttempts: attempts,
		retryDelay:    opts.RetryDelay,
	}
}

// Dir returns the managed output directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Set derives the artifact paths for an output name.
func (m *Manager) Set(name string) types.ArtifactSet {
	return types.NewArtifactSet(m.dir, name)
}

// EnsureDir creates the output directory, retrying transient failures.
// A non-directory occupying the path is never removed.
func (m *Manager) EnsureDir(ctx context.Context) error {
	err := retry.Do(
		func() error {
			if info, statErr := os.Stat(m.dir); statErr == nil && !info.IsDir() {
				return retry.Unrecoverable(fmt.Errorf("path exists and is not a directory"))
			}
			return os.MkdirAll(m.dir, 0755)
		},
		retry.Context(ctx),
		retry.Attempts(m.retryAttempts),
		retry.Delay(m.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			m.logger.Warn("retrying output directory creation", "path", m.dir, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return &DirError{Path: m.dir, Cause: err}
	}
	return nil
}

// WriteText writes text to name inside the output directory, replacing any
// previous content. The write goes through a temporary file and a rename.
func (m *Manager) WriteText(name, text string) (string, error) {
	path := filepath.Join(m.dir, name)

	tmp, err := os.CreateTemp(m.dir, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return "", &WriteError{Path: path, Cause: err}
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", &WriteError{Path: path, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", &WriteError{Path: path, Cause: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		cleanup()
		return "", &WriteError{Path: path, Cause: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return "", &WriteError{Path: path, Cause: err}
	}

	m.logger.Debug("wrote artifact", "path", path, "bytes", len(text))
	return path, nil
}

// WriteSource writes the generated source for name and returns its artifact set.
func (m *Manager) WriteSource(name, source string) (types.ArtifactSet, error) {
	set := m.Set(name)
	if _, err := m.WriteText(filepath.Base(set.SourcePath), source); err != nil {
		return set, err
	}
	return set, nil
}

// Render runs the typesetter on the set's source file. Any existing PDF is
// removed first, and a failed run leaves no PDF. On failure the source and
// log are left in place and the typesetter output is carried by the
// returned *RenderError.
func (m *Manager) Render(ctx context.Context, set types.ArtifactSet) (types.ArtifactSet, error) {
	if _, err := os.Stat(set.SourcePath); err != nil {
		return set, &RenderError{Message: "source file missing", LogPath: set.LogPath, Cause: err}
	}

	// A PDF from an earlier run must not survive next to a newer source.
	if err := os.Remove(set.PDFPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return set, &RenderError{Message: "could not remove previous PDF", LogPath: set.LogPath, Cause: err}
	}

	m.logger.Info("rendering document", "source", set.SourcePath)
	out, err := m.typesetter.Run(ctx, m.dir, set.SourcePath)
	if err != nil {
		if rmErr := os.Remove(set.PDFPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			m.logger.Warn("could not remove partial PDF", "pdf", set.PDFPath, "error", rmErr)
		}
		return set, &RenderError{
			Message: fmt.Sprintf("typesetter failed on %s (see %s)", filepath.Base(set.SourcePath), set.LogPath),
			Stdout:  out.Stdout,
			Stderr:  out.Stderr,
			LogPath: set.LogPath,
			Cause:   err,
		}
	}
	m.logger.Debug("typesetter output", "stdout", out.Stdout)

	if _, err := os.Stat(set.PDFPath); err != nil {
		return set, &RenderError{
			Message: "typesetter exited cleanly but produced no PDF",
			Stdout:  out.Stdout,
			Stderr:  out.Stderr,
			LogPath: set.LogPath,
			Cause:   err,
		}
	}

	pages, err := CountPages(set.PDFPath)
	if err != nil {
		m.logger.Warn("could not count rendered pages", "pdf", set.PDFPath, "error", err)
	} else {
		set.PageCount = pages
	}
	return set, nil
}

// auxExtensions returns the extensions removed by Cleanup.
func (m *Manager) auxExtensions() []string {
	exts := append([]string(nil), AuxExtensions...)
	if m.extended {
		exts = append(exts, ExtendedAuxExtensions...)
	}
	return exts
}

// IsAuxiliary reports whether name ends in one of the removed extensions.
func (m *Manager) IsAuxiliary(name string) bool {
	if strings.HasSuffix(name, LogExt) {
		return false
	}
	for _, ext := range m.auxExtensions() {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Cleanup removes auxiliary typesetter files from the output directory while
// keeping the log. Files that cannot be removed are returned as warnings.
func (m *Manager) Cleanup() []*CleanupWarning {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		warning := &CleanupWarning{Path: m.dir, Cause: err}
		m.logger.Warn("cleanup skipped", "error", warning)
		return []*CleanupWarning{warning}
	}

	var removed []string
	var warnings []*CleanupWarning
	for _, entry := range entries {
		if entry.IsDir() || !m.IsAuxiliary(entry.Name()) {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			warning := &CleanupWarning{Path: path, Cause: err}
			m.logger.Warn("cleanup warning", "path", path, "error", err)
			warnings = append(warnings, warning)
			continue
		}
		removed = append(removed, entry.Name())
	}

	sort.Strings(removed)
	m.logger.Debug("removed auxiliary files", "files", removed)
	return warnings
}
