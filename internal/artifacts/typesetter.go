package artifacts

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultTypesetter is the binary used to render sources.
	DefaultTypesetter = "pdflatex"
	// DefaultTypesetTimeout bounds a single typesetter run.
	DefaultTypesetTimeout = 2 * time.Minute
)

// Output is what a typesetter printed during a run.
type Output struct {
	Stdout string
	Stderr string
}

// Typesetter renders srcPath into workDir. A non-nil error means the
// typesetter did not exit cleanly; Output is populated either way.
type Typesetter interface {
	Run(ctx context.Context, workDir, srcPath string) (Output, error)
}

// PDFLaTeX runs a pdflatex-compatible binary non-interactively.
type PDFLaTeX struct {
	Binary  string
	Timeout time.Duration
}

// Run invokes `<binary> -interaction=nonstopmode -output-directory <dir> <src>`
// with workDir as the working directory.
func (p PDFLaTeX) Run(ctx context.Context, workDir, srcPath string) (Output, error) {
	binary := p.Binary
	if binary == "" {
		binary = DefaultTypesetter
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTypesetTimeout
	}

	if _, err := exec.LookPath(binary); err != nil {
		return Output{}, fmt.Errorf("%s not found in PATH, install a LaTeX distribution (e.g. TeX Live, MiKTeX): %w", binary, err)
	}

	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return Output{}, fmt.Errorf("failed to resolve work directory: %w", err)
	}
	absSrc, err := filepath.Abs(srcPath)
	if err != nil {
		return Output{}, fmt.Errorf("failed to resolve source path: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, "-interaction=nonstopmode", "-output-directory", absDir, absSrc)
	cmd.Dir = absDir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if runErr != nil {
		return out, fmt.Errorf("%s exited with error: %w", binary, runErr)
	}
	return out, nil
}
