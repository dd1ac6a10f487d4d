// Package catalog loads the product catalog from a YAML or JSON file and
// serves it through a TTL cache with optional file-change invalidation.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/storechat/pkg/adapters/memory"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"gopkg.in/yaml.v3"
)

// DefaultTTL is how long a loaded snapshot is served before the file is re-read.
const DefaultTTL = 30 * time.Second

// Document is the on-disk catalog layout.
type Document struct {
	Categories []domain.Category `json:"categories" yaml:"categories"`
	Products   []domain.Product  `json:"products" yaml:"products"`
}

// ErrInvalid wraps catalog validation failures.
var ErrInvalid = errors.New("invalid catalog")

// File implements ports.Catalog over a catalog file.
type File struct {
	path   string
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	data     *memory.Catalog
	loadedAt time.Time
}

var _ ports.Catalog = (*File)(nil)

// Option configures a File catalog.
type Option func(*File)

// WithTTL sets the cache lifetime. Zero or negative disables caching.
func WithTTL(ttl time.Duration) Option {
	return func(f *File) {
		f.ttl = ttl
	}
}

// WithLogger sets the logger used for reload warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(f *File) {
		f.logger = logger
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(f *File) {
		f.now = now
	}
}

// Open creates a file catalog and performs the first load.
func Open(path string, opts ...Option) (*File, error) {
	f := &File{
		path:   path,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	if _, err := f.snapshot(); err != nil {
		return nil, err
	}
	return f, nil
}

// Load reads and validates a catalog file. The format follows the extension
// (.json, otherwise YAML).
func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &doc)
	default:
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return Document{}, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	if err := Validate(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Validate checks ids, names, prices and category references.
// All problems are reported together.
func Validate(doc Document) error {
	var errs []error
	categories := make(map[string]bool, len(doc.Categories))
	for i, c := range doc.Categories {
		switch {
		case strings.TrimSpace(c.ID) == "":
			errs = append(errs, fmt.Errorf("category #%d: missing id", i+1))
		case categories[c.ID]:
			errs = append(errs, fmt.Errorf("category %q: duplicate id", c.ID))
		}
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, fmt.Errorf("category %q: missing name", c.ID))
		}
		categories[c.ID] = true
	}

	products := make(map[string]bool, len(doc.Products))
	for i, p := range doc.Products {
		switch {
		case strings.TrimSpace(p.ID) == "":
			errs = append(errs, fmt.Errorf("product #%d: missing id", i+1))
		case products[p.ID]:
			errs = append(errs, fmt.Errorf("product %q: duplicate id", p.ID))
		}
		products[p.ID] = true
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("product %q: missing name", p.ID))
		}
		if p.Price < 0 {
			errs = append(errs, fmt.Errorf("product %q: negative price", p.ID))
		}
		if !categories[p.CategoryID] {
			errs = append(errs, fmt.Errorf("product %q: unknown category %q", p.ID, p.CategoryID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Invalidate drops the cached snapshot; the next read reloads the file.
func (f *File) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadedAt = time.Time{}
}

// snapshot returns the cached catalog, reloading when expired.
// A failed reload keeps serving the previous snapshot.
func (f *File) snapshot() (*memory.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.data != nil && !f.loadedAt.IsZero() && f.ttl > 0 && f.now().Sub(f.loadedAt) < f.ttl {
		return f.data, nil
	}

	doc, err := Load(f.path)
	if err != nil {
		if f.data != nil {
			f.logger.Warn("Catalog reload failed, serving previous snapshot", "path", f.path, "err", err)
			f.loadedAt = f.now()
			return f.data, nil
		}
		return nil, err
	}

	if f.data == nil {
		f.data = memory.NewCatalog(doc.Categories, doc.Products)
	} else {
		f.data.Replace(doc.Categories, doc.Products)
	}
	f.loadedAt = f.now()
	f.logger.Debug("Catalog loaded", "path", f.path, "categories", len(doc.Categories), "products", len(doc.Products))
	return f.data, nil
}

func (f *File) Categories(ctx context.Context) ([]domain.Category, error) {
	data, err := f.snapshot()
	if err != nil {
		return nil, err
	}
	return data.Categories(ctx)
}

func (f *File) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	data, err := f.snapshot()
	if err != nil {
		return nil, err
	}
	return data.ProductsByCategory(ctx, categoryID)
}

func (f *File) Product(ctx context.Context, id string) (domain.Product, error) {
	data, err := f.snapshot()
	if err != nil {
		return domain.Product{}, err
	}
	return data.Product(ctx, id)
}

func (f *File) AllProducts(ctx context.Context) ([]domain.Product, error) {
	data, err := f.snapshot()
	if err != nil {
		return nil, err
	}
	return data.AllProducts(ctx)
}
