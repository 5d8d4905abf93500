package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cover-letter-bot/internal/config"
	"github.com/jonathan/cover-letter-bot/internal/interactive"
	"github.com/jonathan/cover-letter-bot/internal/rendering"
	"github.com/jonathan/cover-letter-bot/internal/types"
)

const jobPage = `<html><body>
<div class="show-more-less-html__markup"><p>Senior Go Engineer</p><p>Build the ingestion platform.</p></div>
</body></html>`

// fakePDFLaTeX mimics pdflatex's files: log, aux and a PDF next to the source.
const fakePDFLaTeX = `#!/bin/sh
outdir=.
while [ $# -gt 1 ]; do
  case "$1" in
    -output-directory) outdir="$2"; shift 2 ;;
    *) shift ;;
  esac
done
base=$(basename "$1" .tex)
echo "fake pdflatex run" > "$outdir/$base.log"
echo "aux" > "$outdir/$base.aux"
printf '%%PDF-1.4\n' > "$outdir/$base.pdf"
echo "Output written on $base.pdf"
`

type botEnv struct {
	root       string
	templates  string
	outDir     string
	typesetter string
	jobURL     string
}

func newBotEnv(t *testing.T) *botEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake typesetter is a shell script")
	}

	root := t.TempDir()
	t.Chdir(root)

	env := &botEnv{
		root:       root,
		templates:  filepath.Join(root, "templates"),
		outDir:     filepath.Join(root, "output"),
		typesetter: filepath.Join(root, "bin", "fake-pdflatex"),
	}
	require.NoError(t, os.MkdirAll(env.templates, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(env.templates, "example_cv.tex"),
		[]byte("\\section{Experience}\nGo services.\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(env.templates, "letter.tex"),
		[]byte("\\begin{letter}{Acme}\\end{letter}\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Dir(env.typesetter), 0755))
	require.NoError(t, os.WriteFile(env.typesetter, []byte(fakePDFLaTeX), 0755))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jobPage))
	}))
	t.Cleanup(srv.Close)
	env.jobURL = srv.URL + "/jobs/42"
	return env
}

// execute runs the root command with args and stdin, returning stdout.
func (e *botEnv) execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "cover_letter_bot", SilenceUsage: true, SilenceErrors: true, RunE: runBot}
	registerFlags(cmd)

	base := []string{
		"--templates-dir", e.templates,
		"--output-dir", e.outDir,
		"--typesetter", e.typesetter,
		"--scraper", "http",
	}
	cmd.SetArgs(append(base, args...))
	cmd.SetIn(strings.NewReader(stdin))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writtenFiles lists every regular file under root except the fixtures.
func (e *botEnv) writtenFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(e.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(path, e.templates) || path == e.typesetter {
			return nil
		}
		rel, _ := filepath.Rel(e.root, path)
		files = append(files, rel)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestRunBot_DebugNonInteractive(t *testing.T) {
	env := newBotEnv(t)

	out, err := env.execute(t, "",
		"--debug", "--non-interactive",
		"--job-url", env.jobURL,
		"--cv", "example_cv.tex",
		"--cover-letter", interactive.NoneOption,
		"--limit", "250",
		"--tone", "concise",
		"--output-latex", "cl",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Cover letter saved to "+filepath.Join(env.outDir, "cl.pdf"))

	source, err := os.ReadFile(filepath.Join(env.outDir, "cl.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(source), rendering.Placeholder)
	assert.FileExists(t, filepath.Join(env.outDir, "cl.pdf"))
	assert.FileExists(t, filepath.Join(env.outDir, "cl.log"))
	assert.NoFileExists(t, filepath.Join(env.outDir, "cl.aux"))

	job, err := os.ReadFile(filepath.Join(env.outDir, "job_description.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer\nBuild the ingestion platform.", string(job))

	logData, err := os.ReadFile(filepath.Join(env.outDir, config.SessionLogName))
	require.NoError(t, err)
	assert.Contains(t, string(logData), `"msg":"session started"`)
	assert.Contains(t, string(logData), `"msg":"session completed"`)
}

func TestRunBot_InteractiveInvalidToneWritesNothing(t *testing.T) {
	env := newBotEnv(t)
	stdin := strings.Join([]string{env.jobURL, "1", interactive.NoneOption, "300", "sarcastic", "", "cl"}, "\n") + "\n"

	_, err := env.execute(t, stdin, "--debug")

	var cfgErr *types.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "tone", cfgErr.Field)
	assert.NoDirExists(t, env.outDir)
	assert.Empty(t, env.writtenFiles(t))
}

func TestRunBot_CapitalizedToneRejected(t *testing.T) {
	env := newBotEnv(t)

	_, err := env.execute(t, "",
		"--debug", "--non-interactive",
		"--job-url", env.jobURL,
		"--cv", "example_cv.tex",
		"--tone", "Formal",
	)

	var cfgErr *types.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, env.writtenFiles(t))
}

func TestRunBot_AbortAtPrompt(t *testing.T) {
	env := newBotEnv(t)

	out, err := env.execute(t, env.jobURL+"\n"+interactive.QuitCommand+"\n", "--debug")

	assert.ErrorIs(t, err, interactive.ErrAborted)
	assert.Contains(t, out, "Session aborted.")
	assert.Empty(t, env.writtenFiles(t))
}

func TestRunBot_NonInteractiveNeedsJobURL(t *testing.T) {
	env := newBotEnv(t)

	_, err := env.execute(t, "", "--debug", "--non-interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job URL is required")
}
