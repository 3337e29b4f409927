// Package file provides a summary store backed by JSON files on disk.
//
// Each summary is one <name>.json file in the summaries directory. Files
// are read on every request so an external job can refresh them without
// restarting the daemon.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/promethean-light/mydata/internal/core/domain"
	"github.com/promethean-light/mydata/internal/core/ports/driven"
)

// Ensure SummaryStore implements the interface.
var _ driven.SummaryStore = (*SummaryStore)(nil)

// SummaryStore reads precomputed summaries from a directory of JSON files.
type SummaryStore struct {
	dir string
}

// NewSummaryStore creates a summary store over the given directory. The
// directory is created if missing so a fresh install starts clean.
func NewSummaryStore(dir string) (*SummaryStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating summaries directory: %w", err)
	}
	return &SummaryStore{dir: dir}, nil
}

// Get returns the payload of the named summary. Names map directly to
// files, so anything that could escape the directory is rejected.
func (s *SummaryStore) Get(_ context.Context, name string) (json.RawMessage, error) {
	if !validName(name) {
		return nil, fmt.Errorf("summary name %q: %w", name, domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name+".json"))
	if os.IsNotExist(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading summary %q: %w", name, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("summary %q is not valid JSON", name)
	}
	return json.RawMessage(data), nil
}

// Names lists the available summary names, sorted.
func (s *SummaryStore) Names(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading summaries directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), ".json")
		if !ok || !validName(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// validName accepts lowercase identifiers like "india_staff".
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
