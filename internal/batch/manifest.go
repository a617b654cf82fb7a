// Package batch runs extraction over a manifest of documents and writes one
// report record per entry.
package batch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gitveg/docextract/internal/validation"
)

// Entry is one document to extract.
type Entry struct {
	Path string `json:"path" yaml:"path"`
	// Kind is "pdf" or "image"; empty means inferred from the extension.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// DocumentKind resolves the entry's kind.
func (e Entry) DocumentKind() (validation.DocumentKind, error) {
	if strings.TrimSpace(e.Kind) == "" {
		return validation.KindFromPath(e.Path), nil
	}
	return validation.ParseKind(e.Kind)
}

// LoadManifest reads entries from a .jsonl, .json or .yaml/.yml file.
// Entries without a path are skipped.
func LoadManifest(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var entries []Entry
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jsonl":
		entries, err = parseJSONL(data)
	case ".json":
		err = json.Unmarshal(data, &entries)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &entries)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q (use .jsonl, .json or .yaml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	out := entries[:0]
	for _, e := range entries {
		e.Path = strings.TrimSpace(e.Path)
		if e.Path == "" {
			continue
		}
		if _, err := e.DocumentKind(); err != nil {
			return nil, fmt.Errorf("manifest entry %s: %w", e.Path, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func parseJSONL(data []byte) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(text, &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}
