package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"daily-checklist/internal/model"
)

var errNotAList = errors.New("catalog is not a list")

// DefaultTemplates returns the built-in basic tasks with fresh ids.
func DefaultTemplates() []model.Template {
	return []model.Template{
		{ID: NewBasicID(), Name: "Run 1 km", Category: "exercise"},
		{ID: NewBasicID(), Name: "Horse stance for 1 minute", Category: "exercise"},
	}
}

// NewBasicID returns an id marked as coming from the catalog.
func NewBasicID() string {
	return model.BasicIDPrefix + uuid.NewString()
}

// LoadTemplatesFile reads default templates from a YAML list. Templates
// without an id get a generated one.
func LoadTemplatesFile(path string) ([]model.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var templates []model.Template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	templates, err = normalizeTemplates(templates, "")
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: catalog file %s has no templates", ErrValidation, path)
	}
	return templates, nil
}

// CatalogService keeps the list of basic task templates that reseed the
// pending list every day.
type CatalogService struct {
	store           KVStore
	defaults        []model.Template
	defaultCategory string
}

func NewCatalogService(store KVStore, defaults []model.Template, defaultCategory string) *CatalogService {
	if len(defaults) == 0 {
		defaults = DefaultTemplates()
	}
	if strings.TrimSpace(defaultCategory) == "" {
		defaultCategory = DefaultCategory
	}
	defaults = slices.Clone(defaults)
	for i := range defaults {
		if defaults[i].Category == "" {
			defaults[i].Category = defaultCategory
		}
	}
	return &CatalogService{store: store, defaults: defaults, defaultCategory: defaultCategory}
}

// Defaults returns a copy of the built-in catalog.
func (s *CatalogService) Defaults() []model.Template {
	return slices.Clone(s.defaults)
}

// EnsureInitialized seeds the default catalog when none is stored and
// returns the current catalog. Once seeded it only reads.
func (s *CatalogService) EnsureInitialized(ctx context.Context) ([]model.Template, error) {
	templates, _, err := s.ensure(ctx)
	return templates, err
}

// Load returns the stored catalog. It never fails: a store failure yields the
// defaults and a corrupt value is replaced by the defaults. Each fallback is
// reported as a Warning.
func (s *CatalogService) Load(ctx context.Context) ([]model.Template, []Warning) {
	templates, warnings, err := s.ensure(ctx)
	if err != nil {
		w := Warning{Op: "load catalog", Err: err}
		log.Printf("[warn] %v, using defaults", w)
		return s.Defaults(), append(warnings, w)
	}
	return templates, warnings
}

// Save replaces the catalog. Invalid input is an ErrValidation error; a store
// failure is logged and reported as false.
func (s *CatalogService) Save(ctx context.Context, templates []model.Template) (bool, error) {
	if templates == nil {
		return false, fmt.Errorf("%w: %w", ErrValidation, errNotAList)
	}
	templates, err := normalizeTemplates(templates, s.defaultCategory)
	if err != nil {
		return false, err
	}
	if err := s.write(ctx, templates); err != nil {
		log.Printf("[warn] save catalog: %v", err)
		return false, nil
	}
	log.Printf("[info] catalog saved templates=%d", len(templates))
	return true, nil
}

// Add appends a template with a generated basic id.
func (s *CatalogService) Add(ctx context.Context, name, category string) (model.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Template{}, fmt.Errorf("%w: template name is empty", ErrValidation)
	}
	current, err := s.EnsureInitialized(ctx)
	if err != nil {
		return model.Template{}, err
	}

	tpl := model.Template{ID: NewBasicID(), Name: name, Category: strings.TrimSpace(category)}
	ok, err := s.Save(ctx, append(current, tpl))
	if err != nil {
		return model.Template{}, err
	}
	if !ok {
		return model.Template{}, fmt.Errorf("%w: catalog was not saved", ErrStorage)
	}
	if tpl.Category == "" {
		tpl.Category = s.defaultCategory
	}
	return tpl, nil
}

// Remove deletes the template with id.
func (s *CatalogService) Remove(ctx context.Context, id string) error {
	current, err := s.EnsureInitialized(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(current, func(t model.Template) bool { return t.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: template %q", ErrNotFound, id)
	}

	ok, err := s.Save(ctx, slices.Delete(current, idx, idx+1))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: catalog was not saved", ErrStorage)
	}
	return nil
}

func (s *CatalogService) ensure(ctx context.Context) ([]model.Template, []Warning, error) {
	raw, ok, err := s.store.Get(ctx, KeyCatalog)
	if err != nil {
		return nil, nil, storageError("read "+KeyCatalog, err)
	}
	if !ok {
		if err := s.write(ctx, s.defaults); err != nil {
			return nil, nil, err
		}
		log.Printf("[info] catalog seeded with %d default templates", len(s.defaults))
		return s.Defaults(), nil, nil
	}

	templates, err := decodeTemplates(raw)
	if err == nil {
		return templates, nil, nil
	}

	w := Warning{Op: "decode catalog", Err: err}
	log.Printf("[warn] %v, resetting to defaults", w)
	if err := s.write(ctx, s.defaults); err != nil {
		log.Printf("[warn] reset catalog: %v", err)
		return s.Defaults(), []Warning{w, {Op: "reset catalog", Err: err}}, nil
	}
	return s.Defaults(), []Warning{w}, nil
}

func (s *CatalogService) write(ctx context.Context, templates []model.Template) error {
	data, err := json.Marshal(templates)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := s.store.Set(ctx, KeyCatalog, string(data)); err != nil {
		return storageError("write "+KeyCatalog, err)
	}
	return nil
}

func decodeTemplates(raw string) ([]model.Template, error) {
	var templates []model.Template
	if err := json.Unmarshal([]byte(raw), &templates); err != nil {
		return nil, err
	}
	if templates == nil {
		return nil, errNotAList
	}
	for i, t := range templates {
		if t.ID == "" || strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("template %d has no id or name", i)
		}
	}
	return templates, nil
}

// normalizeTemplates trims names, fills missing ids and categories and
// rejects empty names and duplicate ids.
func normalizeTemplates(templates []model.Template, defaultCategory string) ([]model.Template, error) {
	out := make([]model.Template, 0, len(templates))
	seen := make(map[string]struct{}, len(templates))
	for i, t := range templates {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, fmt.Errorf("%w: template %d has an empty name", ErrValidation, i)
		}
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			t.ID = NewBasicID()
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate template id %q", ErrValidation, t.ID)
		}
		seen[t.ID] = struct{}{}
		t.Category = strings.TrimSpace(t.Category)
		if t.Category == "" {
			t.Category = defaultCategory
		}
		out = append(out, t)
	}
	return out, nil
}
