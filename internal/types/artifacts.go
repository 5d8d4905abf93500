package types

import "path/filepath"

// ArtifactSet describes the on-disk output of one session.
type ArtifactSet struct {
	Dir        string `json:"dir"`
	Base       string `json:"base"`
	SourcePath string `json:"source_path"`
	PDFPath    string `json:"pdf_path"`
	LogPath    string `json:"log_path"`
	PageCount  int    `json:"page_count,omitempty"`
}

// NewArtifactSet derives the artifact paths for name under dir.
// "cl" and "cl.tex" yield the same set.
func NewArtifactSet(dir, name string) ArtifactSet {
	base := BaseName(name)
	return ArtifactSet{
		Dir:        dir,
		Base:       base,
		SourcePath: filepath.Join(dir, base+SourceExt),
		PDFPath:    filepath.Join(dir, base+".pdf"),
		LogPath:    filepath.Join(dir, base+".log"),
	}
}

// Path returns the path of the artifact with the given extension.
func (a ArtifactSet) Path(ext string) string {
	return filepath.Join(a.Dir, a.Base+ext)
}
