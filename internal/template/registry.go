// Package template provides task template management for eureka.
// A template is a named field schema; tasks created from it have their
// field values validated against the schema.
package template

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// Registry provides thread-safe access to task templates.
// Templates are stored by name and can be retrieved or listed.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*domain.TaskTemplate
}

// NewRegistry creates a new empty template registry.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]*domain.TaskTemplate),
	}
}

// Get retrieves a template by name.
// Returns a clone of the template to prevent mutation of registry state.
// Returns ErrTemplateNotFound if the template doesn't exist.
func (r *Registry) Get(name string) (*domain.TaskTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", eurekaerrors.ErrTemplateNotFound, name)
	}
	return t.Clone(), nil
}

// List returns clones of all registered templates sorted by name.
func (r *Registry) List() []*domain.TaskTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.TaskTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		result = append(result, t.Clone())
	}
	slices.SortFunc(result, func(a, b *domain.TaskTemplate) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result
}

// Register adds a template to the registry.
// Returns error if template is nil, has empty name, or already exists.
func (r *Registry) Register(t *domain.TaskTemplate) error {
	if err := checkRegistrable(t); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[t.Name]; exists {
		return fmt.Errorf("%w: %s", eurekaerrors.ErrTemplateDuplicate, t.Name)
	}

	r.templates[t.Name] = t.Clone()
	return nil
}

// RegisterOrReplace adds a template to the registry, replacing any existing template with the same name.
// This is used for custom templates that should override built-in templates.
func (r *Registry) RegisterOrReplace(t *domain.TaskTemplate) error {
	if err := checkRegistrable(t); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates[t.Name] = t.Clone()
	return nil
}

// Remove deletes a template.
// Returns ErrTemplateNotFound if the template doesn't exist.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.templates[name]; !ok {
		return fmt.Errorf("%w: %s", eurekaerrors.ErrTemplateNotFound, name)
	}
	delete(r.templates, name)
	return nil
}

func checkRegistrable(t *domain.TaskTemplate) error {
	if t == nil {
		return eurekaerrors.ErrTemplateNil
	}
	if strings.TrimSpace(t.Name) == "" {
		return eurekaerrors.ErrTemplateNameEmpty
	}
	return nil
}
