package source

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"inspire/internal/domain"
)

// FileSource loads publication records from JSON files under a data
// directory. Files are matched against doublestar include/exclude globs.
// Each file holds either a JSON array of publications or a single record.
type FileSource struct {
	includes []string
	excludes []string
}

func NewFileSource(includes, excludes []string) *FileSource {
	if len(includes) == 0 {
		includes = []string{"**/*.json"}
	}
	return &FileSource{
		includes: includes,
		excludes: excludes,
	}
}

// Load reads all matching files and returns their publications, ordered by
// file path, then by position within the file.
func (s *FileSource) Load(dir string) ([]domain.Publication, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !s.matchesAny(s.includes, rel) || s.matchesAny(s.excludes, rel) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}

	sort.Strings(paths)

	var publications []domain.Publication
	for _, path := range paths {
		pubs, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		publications = append(publications, pubs...)
	}

	return publications, nil
}

func (s *FileSource) matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func loadFile(path string) ([]domain.Publication, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var pubs []domain.Publication
		if err := json.Unmarshal(data, &pubs); err != nil {
			return nil, err
		}
		return pubs, nil
	}

	var pub domain.Publication
	if err := json.Unmarshal(data, &pub); err != nil {
		return nil, err
	}
	return []domain.Publication{pub}, nil
}
