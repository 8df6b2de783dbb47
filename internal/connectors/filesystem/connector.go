// Package filesystem provides a connector that loads documents from a local folder.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

const connectorType = "filesystem"

// DefaultMaxFileSize bounds how many bytes a single file may hold.
const DefaultMaxFileSize int64 = 256 << 20

// DefaultExtensions are loaded when no extensions are configured.
var DefaultExtensions = []string{".pdf", ".txt", ".md"}

// Connector enumerates recognised files in a folder.
// Hidden files and directories are skipped.
type Connector struct {
	sourceID    string
	rootPath    string
	extensions  map[string]bool
	recursive   bool
	maxFileSize int64
}

// Option configures the connector.
type Option func(*Connector)

// WithExtensions sets the recognised extensions. Matching is case-insensitive
// and a missing leading dot is added.
func WithExtensions(exts []string) Option {
	return func(c *Connector) {
		if len(exts) == 0 {
			return
		}
		c.extensions = normaliseExtensions(exts)
	}
}

// WithRecursive walks subdirectories when enabled.
func WithRecursive(recursive bool) Option {
	return func(c *Connector) {
		c.recursive = recursive
	}
}

// WithMaxFileSize skips files larger than n bytes.
func WithMaxFileSize(n int64) Option {
	return func(c *Connector) {
		if n > 0 {
			c.maxFileSize = n
		}
	}
}

// New creates a filesystem connector rooted at rootPath.
func New(sourceID, rootPath string, opts ...Option) *Connector {
	c := &Connector{
		sourceID:    sourceID,
		rootPath:    rootPath,
		extensions:  normaliseExtensions(DefaultExtensions),
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time check.
var _ driven.Connector = (*Connector)(nil)

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return connectorType
}

// SourceID returns the configured source ID.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Validate checks the root path exists and is a readable directory.
// A missing folder returns an error wrapping domain.ErrNotFound.
func (c *Connector) Validate(_ context.Context) error {
	info, err := os.Stat(c.rootPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: folder %s does not exist", domain.ErrNotFound, c.rootPath)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", c.rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, c.rootPath)
	}
	return nil
}

// FullSync streams every recognised file in lexical path order.
// A missing root folder yields no documents and no error.
// Per-file read failures are reported on the error channel and skipped.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 16)

	go func() {
		defer close(docs)
		defer close(errs)

		paths, err := c.listFiles()
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs <- err
			}
			return
		}

		for _, path := range paths {
			if ctx.Err() != nil {
				return
			}

			doc, err := c.readFile(path)
			if err != nil {
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
				continue
			}

			select {
			case docs <- *doc:
			case <-ctx.Done():
				return
			}
		}
	}()

	return docs, errs
}

// Close releases resources.
func (c *Connector) Close() error {
	return nil
}

func (c *Connector) listFiles() ([]string, error) {
	if !c.recursive {
		entries, err := os.ReadDir(c.rootPath)
		if err != nil {
			return nil, err
		}
		paths := make([]string, 0, len(entries))
		for _, e := range entries {
			path := filepath.Join(c.rootPath, e.Name())
			if e.IsDir() || isHidden(e.Name()) || !c.accepts(path) {
				continue
			}
			paths = append(paths, path)
		}
		return paths, nil
	}

	var paths []string
	err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != c.rootPath && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !c.accepts(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

func (c *Connector) accepts(path string) bool {
	return c.extensions[strings.ToLower(filepath.Ext(path))]
}

func (c *Connector) readFile(path string) (*domain.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", domain.ErrInvalidInput, path)
	}
	if info.Size() > c.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrInvalidInput, path, info.Size(), c.maxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	return &domain.RawDocument{
		SourceID: c.sourceID,
		URI:      path,
		MIMEType: detectMIMEType(name),
		Content:  content,
		Metadata: map[string]any{
			"filename":  name,
			"extension": strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
			"size":      info.Size(),
			"modified":  info.ModTime(),
		},
	}, nil
}

func normaliseExtensions(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}

// fallbackMIMETypes covers extensions the platform mime tables often miss.
var fallbackMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".pdf":      "application/pdf",
}

func detectMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "text/plain"
	}
	if t, ok := fallbackMIMETypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.Index(t, ";"); i >= 0 {
			t = t[:i]
		}
		return strings.TrimSpace(t)
	}
	return "application/octet-stream"
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
