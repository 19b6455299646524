// Package ingest turns a folder of text documents into retrieval chunks.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/domain"
	"github.com/kailas-cloud/vecjudge/internal/domain/chunk"
)

// DefaultInclude are the globs matched against slash-separated, lower-cased relative paths.
var DefaultInclude = []string{"**/*.txt", "**/*.md", "**/*.pdf"}

// ProgressReporter receives per-file progress while loading.
type ProgressReporter interface {
	Start(total int)
	Increment()
	Finish()
}

// Loader walks a folder and chunks every matching file.
type Loader struct {
	minChars int
	maxChars int
	include  []string
	progress ProgressReporter
	logger   *zap.Logger
}

// NewLoader creates a loader with the given chunk bounds and include globs.
// An empty include list falls back to DefaultInclude.
func NewLoader(minChars, maxChars int, include []string, logger *zap.Logger) *Loader {
	if len(include) == 0 {
		include = DefaultInclude
	}
	patterns := make([]string, 0, len(include))
	for _, p := range include {
		patterns = append(patterns, strings.ToLower(filepath.ToSlash(p)))
	}
	return &Loader{
		minChars: minChars,
		maxChars: maxChars,
		include:  patterns,
		logger:   logger,
	}
}

// WithProgress attaches a progress reporter.
func (l *Loader) WithProgress(p ProgressReporter) *Loader {
	l.progress = p
	return l
}

// Load returns the chunks of every matching file under folder, in lexical path order.
// Unreadable files are logged and skipped.
func (l *Loader) Load(ctx context.Context, folder string) ([]chunk.Chunk, error) {
	files, err := l.Files(folder)
	if err != nil {
		return nil, err
	}

	if l.progress != nil {
		l.progress.Start(len(files))
		defer l.progress.Finish()
	}

	var out []chunk.Chunk
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load corpus: %w", err)
		}

		text, err := readText(path)
		if err != nil {
			l.logger.Warn("Skipping unreadable file", zap.String("path", path), zap.Error(err))
			l.tick()
			continue
		}

		base := filepath.Base(path)
		for i, part := range Split(text, l.minChars, l.maxChars) {
			c, err := chunk.New(path, chunk.ID(base, i), part)
			if err != nil {
				return nil, fmt.Errorf("chunk %s: %w", path, err)
			}
			out = append(out, c)
		}
		l.tick()
	}

	l.logger.Info("Corpus loaded",
		zap.String("folder", folder),
		zap.Int("files", len(files)),
		zap.Int("chunks", len(out)),
	)
	return out, nil
}

// Files lists the matching regular files under folder.
func (l *Loader) Files(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("corpus folder %s: %w", folder, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("stat corpus folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus folder %s is not a directory: %w", folder, domain.ErrNotFound)
	}

	var files []string
	err = filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		if l.matches(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus folder: %w", err)
	}
	return files, nil
}

func (l *Loader) matches(rel string) bool {
	rel = strings.ToLower(filepath.ToSlash(rel))
	for _, pattern := range l.include {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func (l *Loader) tick() {
	if l.progress != nil {
		l.progress.Increment()
	}
}

// readText decodes a file as UTF-8, dropping invalid bytes. PDFs are reduced to plain text.
func readText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			_ = f.Close()
		}
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.ToValidUTF8(buf.String(), ""), nil
}
