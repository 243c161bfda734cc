// Package input reads source artifacts from explicit file lists,
// directories, or git diffs.
package input

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

type Kind int

const (
	KindFile Kind = iota
	KindDiff
)

type Artifact struct {
	Path    string
	Content string
	Kind    Kind
}

// maxFileSize guards against pathological inputs; tree-sitter is fast, but
// multi-megabyte generated files drown real findings anyway.
const maxFileSize = 1 << 20

type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// ReadFiles loads each named file. Missing files are errors; binary or
// oversized files are skipped with a warning.
func (h *Handler) ReadFiles(paths []string) ([]Artifact, error) {
	var artifacts []Artifact
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if art, ok := h.artifact(p, data); ok {
			artifacts = append(artifacts, art)
		}
	}
	return artifacts, nil
}

// ReadDirectory walks dir recursively, skipping dot-directories.
func (h *Handler) ReadDirectory(dir string) ([]Artifact, error) {
	var artifacts []Artifact
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if art, ok := h.artifact(path, data); ok {
			artifacts = append(artifacts, art)
		}
		return nil
	})
	return artifacts, err
}

// ReadDiff splits a git unified diff into one artifact per changed file.
// The artifact content is the diff hunk text, not the full file.
func (h *Handler) ReadDiff(diff string) ([]Artifact, error) {
	var artifacts []Artifact
	var currentPath string
	var currentLines []string

	flush := func() {
		if currentPath != "" {
			artifacts = append(artifacts, Artifact{
				Path:    currentPath,
				Content: strings.Join(currentLines, "\n"),
				Kind:    KindDiff,
			})
		}
	}

	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "diff --git") {
			flush()
			parts := strings.Fields(line)
			currentPath = ""
			if len(parts) >= 4 {
				currentPath = strings.TrimPrefix(parts[len(parts)-1], "b/")
			}
			currentLines = nil
		} else {
			currentLines = append(currentLines, line)
		}
	}
	flush()

	return artifacts, nil
}

func (h *Handler) artifact(path string, data []byte) (Artifact, bool) {
	if !utf8.Valid(data) {
		h.logger.Warn("skipping file with invalid UTF-8", "path", path)
		return Artifact{}, false
	}
	if len(data) > maxFileSize {
		h.logger.Warn("skipping oversized file", "path", path, "bytes", len(data))
		return Artifact{}, false
	}
	return Artifact{Path: path, Content: string(data), Kind: KindFile}, true
}
