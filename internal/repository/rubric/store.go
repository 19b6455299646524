// Package rubric loads rubric documents from a directory of YAML files.
package rubric

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/vecjudge/internal/domain"
	domrubric "github.com/kailas-cloud/vecjudge/internal/domain/rubric"
)

var extensions = []string{".yaml", ".yml"}

// Store resolves rubric identifiers to files under a root directory.
// Files are read on every Load.
type Store struct {
	root string
}

// NewStore creates a store over dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Load reads and parses the rubric named id. id may carry a .yaml or .yml
// extension and may name a file in a subdirectory of the root.
func (s *Store) Load(ctx context.Context, id string) (domrubric.Rubric, error) {
	if err := ctx.Err(); err != nil {
		return domrubric.Rubric{}, fmt.Errorf("load rubric: %w", err)
	}

	rel, err := cleanID(id)
	if err != nil {
		return domrubric.Rubric{}, err
	}

	for _, candidate := range s.candidates(rel) {
		data, err := os.ReadFile(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domrubric.Rubric{}, fmt.Errorf("read rubric %q: %w", id, err)
		}
		r, err := domrubric.Decode(data)
		if err != nil {
			return domrubric.Rubric{}, fmt.Errorf("rubric %q: %w", id, err)
		}
		return r, nil
	}
	return domrubric.Rubric{}, domain.NewRubricNotFound(id)
}

// List returns the identifiers of every rubric file under the root, without extension.
func (s *Store) List(_ context.Context) ([]string, error) {
	var ids []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasRubricExt(path) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		ids = append(ids, strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel)))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("rubric dir %s: %w", s.root, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("list rubrics: %w", err)
	}
	return ids, nil
}

func (s *Store) candidates(rel string) []string {
	base := filepath.Join(s.root, rel)
	if hasRubricExt(rel) {
		return []string{base}
	}
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		out = append(out, base+ext)
	}
	return out
}

// cleanID rejects identifiers that are empty, absolute or escape the root.
func cleanID(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: rubric id is required", domain.ErrInvalidRequest)
	}
	rel := filepath.Clean(filepath.FromSlash(id))
	if filepath.IsAbs(rel) || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: rubric id %q must be a relative name inside the rubric directory",
			domain.ErrInvalidRequest, id)
	}
	return rel, nil
}

func hasRubricExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
