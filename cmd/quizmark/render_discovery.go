package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alnah/go-quizmark/internal/fileutil"
)

// Input and output file extensions.
const (
	viewExtension = ".view.html"
)

var (
	markupExtensions   = []string{".html", ".htm"}
	markdownExtensions = []string{".md", ".markdown"}
)

// Sentinel errors for input discovery.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrUnsupportedInput = errors.New("unsupported input file")
)

// renderJob is one input file and where its rendering goes.
type renderJob struct {
	InputPath  string
	OutputPath string
	Markdown   bool
}

// discoverFiles expands inputs (files or directories) into render jobs.
// Directories are walked recursively for .html, .htm, .md and .markdown
// files; rendered outputs (*.view.html) are skipped. With outputDir empty,
// each output is written next to its input; otherwise the layout below
// each input directory is mirrored under outputDir.
func discoverFiles(inputs []string, outputDir string) ([]renderJob, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	var jobs []renderJob
	seen := make(map[string]bool)
	add := func(path, baseDir string) error {
		clean := filepath.Clean(path)
		if seen[clean] {
			return nil
		}
		seen[clean] = true
		out, err := resolveOutputPath(clean, outputDir, baseDir)
		if err != nil {
			return err
		}
		jobs = append(jobs, renderJob{
			InputPath:  clean,
			OutputPath: out,
			Markdown:   fileutil.HasExtension(clean, markdownExtensions...),
		})
		return nil
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoInput, err)
		}

		if !info.IsDir() {
			if !isRenderable(input) {
				return nil, fmt.Errorf("%w: %s (want .html, .htm, .md or .markdown)", ErrUnsupportedInput, input)
			}
			if err := add(input, filepath.Dir(input)); err != nil {
				return nil, err
			}
			continue
		}

		var found []string
		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() && isRenderable(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", input, err)
		}
		sort.Strings(found)
		for _, path := range found {
			if err := add(path, input); err != nil {
				return nil, err
			}
		}
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no .html or .md files in %s", ErrNoInput, strings.Join(inputs, ", "))
	}
	return jobs, nil
}

// isRenderable reports whether path is an input quizmark renders.
func isRenderable(path string) bool {
	if strings.HasSuffix(strings.ToLower(path), viewExtension) {
		return false
	}
	return fileutil.HasExtension(path, markupExtensions...) ||
		fileutil.HasExtension(path, markdownExtensions...)
}

// resolveOutputPath derives the .view.html path for inputPath.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) (string, error) {
	if outputDir == "" {
		return fileutil.ReplaceExtension(inputPath, viewExtension)
	}

	rel, err := filepath.Rel(baseInputDir, inputPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(inputPath)
	}
	return fileutil.ReplaceExtension(filepath.Join(outputDir, rel), viewExtension)
}
