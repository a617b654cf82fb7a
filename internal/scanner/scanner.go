// Package scanner finds extractable documents under files and directories.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gitveg/docextract/internal/logging"
	"github.com/gitveg/docextract/internal/validation"
)

// DocumentScanner collects PDF and image paths for batch runs.
type DocumentScanner struct {
	logger logging.Logger
}

// NewDocumentScanner creates a new instance of DocumentScanner.
func NewDocumentScanner(logger logging.Logger) *DocumentScanner {
	return &DocumentScanner{
		logger: logging.OrDefault(logger).WithField("component", "DocumentScanner"),
	}
}

// ScanPaths returns the documents named by paths. Files are returned as
// given, whatever their extension; directories are walked recursively and
// only .pdf files and supported images are kept. Results are sorted and
// free of duplicates.
func (s *DocumentScanner) ScanPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var docs []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			docs = append(docs, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			s.logger.WithError(err).WithField(logging.FieldFile, p).Error("Failed to stat path")
			return nil, fmt.Errorf("failed to stat path %s: %w", p, err)
		}

		if !info.IsDir() {
			add(p)
			continue
		}
		found, err := s.scanDirectory(p)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Strings(docs)
	return docs, nil
}

// scanDirectory walks dirPath and keeps the supported documents.
func (s *DocumentScanner) scanDirectory(dirPath string) ([]string, error) {
	var docs []string
	skipped := 0

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.WithError(err).WithField(logging.FieldFile, path).Warn("Error walking path")
			return nil // Continue walking even if there's an error with one path
		}
		if d.IsDir() {
			if path != dirPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsDocument(path) {
			docs = append(docs, path)
		} else {
			skipped++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	s.logger.Debug("Directory scanned",
		logging.Field{Key: logging.FieldFile, Value: dirPath},
		logging.Field{Key: logging.FieldCount, Value: len(docs)},
		logging.Field{Key: "skipped", Value: skipped})
	return docs, nil
}

// IsDocument reports whether path has a .pdf or supported image extension.
func IsDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf") || validation.IsSupportedImage(path)
}
