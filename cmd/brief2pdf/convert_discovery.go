package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/alnah/go-brief2pdf/internal/fileutil"
)

// discoverFiles finds all markdown files under inputDir and maps each to a
// PDF path in outputDir, mirroring subdirectories.
func discoverFiles(inputDir, outputDir string) ([]FileToConvert, error) {
	var files []FileToConvert
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsMarkdown(path) {
			return nil
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, inputDir),
		})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PDF output path for a markdown file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

// htmlOutputPath returns the HTML path corresponding to a PDF path.
// A path already ending in .html is returned unchanged.
func htmlOutputPath(pdfPath string) string {
	switch strings.ToLower(filepath.Ext(pdfPath)) {
	case ".html", ".htm":
		return pdfPath
	case ".pdf":
		return pdfPath[:len(pdfPath)-len(".pdf")] + ".html"
	}
	return pdfPath + ".html"
}

// outputKind names the file type for progress messages.
func outputKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "HTML"
	}
	return "PDF"
}
