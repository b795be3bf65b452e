package codegen

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

// Registry holds conventions keyed by their lower-cased name.
type Registry struct {
	mu          sync.RWMutex
	conventions map[string]Convention
}

func NewRegistry(conventions ...Convention) (*Registry, error) {
	r := &Registry{conventions: make(map[string]Convention)}
	for _, c := range conventions {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a convention under its declared name.
func (r *Registry) Register(c Convention) error {
	if c == nil {
		return errors.New("codegen: nil convention")
	}
	key := strings.ToLower(strings.TrimSpace(c.Info().Name))
	if key == "" {
		return errors.New("codegen: convention name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conventions[key]; exists {
		return fmt.Errorf("codegen: convention %q already registered", key)
	}
	r.conventions[key] = c
	return nil
}

// List returns the registered convention names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.conventions))
	for name := range r.conventions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get looks a convention up by name, ignoring case.
func (r *Registry) Get(name string) (Convention, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conventions[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Infos returns the description of every registered convention, sorted by name.
func (r *Registry) Infos() []Info {
	names := r.List()
	infos := make([]Info, 0, len(names))
	for _, name := range names {
		if c, ok := r.Get(name); ok {
			infos = append(infos, c.Info())
		}
	}
	return infos
}

// Validate runs the convention's validator.
func (r *Registry) Validate(tables []models.Table, c Convention) ValidationResult {
	return c.Validate(tables)
}

// Generate validates tables against the named convention and, if they pass,
// produces its file set using the convention defaults overlaid with override.
func (r *Registry) Generate(name string, tables []models.Table, override Config) ([]GeneratedFile, error) {
	c, ok := r.Get(name)
	if !ok {
		return nil, &UnknownConventionError{Name: name}
	}

	result := r.Validate(tables, c)
	if !result.Valid {
		return nil, NewValidationError("Diagram validation failed", result.Errors...)
	}

	cfg := c.DefaultConfig().Merge(override)
	if cv, ok := c.(ConfigValidator); ok {
		if errs := cv.ValidateConfig(cfg); len(errs) > 0 {
			return nil, NewValidationError("Invalid configuration", errs...)
		}
	}

	files, err := c.GenerateFiles(tables, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate %s files: %w", c.Info().Name, err)
	}

	if unsafe := unsafeNames(files); len(unsafe) > 0 {
		return nil, NewValidationError("Unsafe output paths", unsafe...)
	}
	if dups := duplicateNames(files); len(dups) > 0 {
		return nil, NewValidationError("Duplicate output files", dups...)
	}
	return files, nil
}

// unsafeNames lists entry names that would unpack outside the archive root.
func unsafeNames(files []GeneratedFile) []string {
	var bad []string
	for _, f := range files {
		name := f.Name()
		clean := path.Clean(name)
		if name == "" || path.IsAbs(name) || strings.Contains(name, `\`) || clean != name ||
			clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
			bad = append(bad, name)
		}
	}
	return bad
}

func duplicateNames(files []GeneratedFile) []string {
	seen := make(map[string]bool, len(files))
	var dups []string
	for _, f := range files {
		name := f.Name()
		if seen[name] {
			dups = append(dups, name)
			continue
		}
		seen[name] = true
	}
	return dups
}
