package templates

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cover-letter-bot/internal/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads the template at path as UTF-8 text. Every call reads from disk.
func Load(path string) (*types.TemplateBlob, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Cause: err}
		}
		return nil, &UnreadableError{Path: path, Message: "read failed", Cause: err}
	}

	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, &UnreadableError{Path: path, Message: "content is not valid UTF-8"}
	}

	return &types.TemplateBlob{
		Path:    path,
		Content: string(content),
	}, nil
}

// List returns the sorted base names of the .tex files in dir.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: dir, Cause: err}
		}
		return nil, &UnreadableError{Path: dir, Message: "failed to list directory", Cause: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), types.SourceExt) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
