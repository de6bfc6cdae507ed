// Package templates resolves template bodies by id and renders them against a
// string context.
package templates

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrTemplateNotFound is matched by every NotFoundError.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateRender is matched by every RenderError.
	ErrTemplateRender = errors.New("template render failed")
)

// NotFoundError reports a template id absent from a repository.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.ID)
}

// Is allows errors.Is(err, ErrTemplateNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// RenderError wraps a parse or execution failure for a template id.
type RenderError struct {
	ID  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render template %q: %v", e.ID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Is allows errors.Is(err, ErrTemplateRender).
func (e *RenderError) Is(target error) bool {
	return target == ErrTemplateRender
}

// Repository looks up template bodies by id. Ids are slash-separated and
// namespaced by artifact kind, e.g. "models/append-class".
type Repository interface {
	Lookup(id string) (string, error)
}

// Lister is implemented by repositories that can enumerate their ids.
type Lister interface {
	IDs() ([]string, error)
}

// MemoryRepository serves bodies from a map.
type MemoryRepository struct {
	bodies map[string]string
}

// NewMemoryRepository copies bodies into a new repository.
func NewMemoryRepository(bodies map[string]string) *MemoryRepository {
	copied := make(map[string]string, len(bodies))
	for id, body := range bodies {
		copied[id] = body
	}
	return &MemoryRepository{bodies: copied}
}

// Lookup implements Repository.
func (r *MemoryRepository) Lookup(id string) (string, error) {
	body, ok := r.bodies[id]
	if !ok {
		return "", &NotFoundError{ID: id}
	}
	return body, nil
}

// IDs implements Lister.
func (r *MemoryRepository) IDs() ([]string, error) {
	ids := make([]string, 0, len(r.bodies))
	for id := range r.bodies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// LayeredRepository consults primary first and falls back per id.
type LayeredRepository struct {
	primary  Repository
	fallback Repository
}

// Layered combines two repositories. Only a not-found result from primary
// reaches fallback; any other error is returned as is.
func Layered(primary, fallback Repository) *LayeredRepository {
	return &LayeredRepository{primary: primary, fallback: fallback}
}

// Lookup implements Repository.
func (r *LayeredRepository) Lookup(id string) (string, error) {
	body, err := r.primary.Lookup(id)
	if err == nil {
		return body, nil
	}
	if !errors.Is(err, ErrTemplateNotFound) {
		return "", err
	}
	return r.fallback.Lookup(id)
}

// IDs implements Lister, merging ids of both layers.
func (r *LayeredRepository) IDs() ([]string, error) {
	seen := map[string]struct{}{}
	for _, repo := range []Repository{r.primary, r.fallback} {
		lister, ok := repo.(Lister)
		if !ok {
			continue
		}
		ids, err := lister.IDs()
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Source reports which layer serves id: "primary", "fallback" or "" when neither does.
func (r *LayeredRepository) Source(id string) string {
	if _, err := r.primary.Lookup(id); err == nil {
		return "primary"
	}
	if _, err := r.fallback.Lookup(id); err == nil {
		return "fallback"
	}
	return ""
}
