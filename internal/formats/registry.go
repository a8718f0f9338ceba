package formats

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrFormatExists    = errors.New("format already registered")
	ErrAdapterNil      = errors.New("adapter is nil")
	ErrInvalidMetadata = errors.New("invalid format metadata")
	ErrUnknownFormat   = errors.New("unknown wallet format")
)

// Registry stores adapters by stable identifier.
type Registry struct {
	items map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Adapter)}
}

// ValidateMetadata checks required metadata fields and id format.
func ValidateMetadata(meta Metadata) error {
	id := strings.TrimSpace(meta.ID)
	name := strings.TrimSpace(meta.Name)
	desc := strings.TrimSpace(meta.Description)
	if id == "" || name == "" || desc == "" {
		return fmt.Errorf("%w: id, name, and description are required", ErrInvalidMetadata)
	}
	if !isValidID(id) {
		return fmt.Errorf("%w: invalid id format %q", ErrInvalidMetadata, id)
	}
	return nil
}

// Register adds an adapter to the registry.
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return ErrAdapterNil
	}

	meta := adapter.Metadata()
	if err := ValidateMetadata(meta); err != nil {
		return err
	}

	id := normalizeID(meta.ID)
	if _, ok := r.items[id]; ok {
		return fmt.Errorf("%w: %s", ErrFormatExists, id)
	}
	r.items[id] = adapter
	return nil
}

// Resolve returns an adapter by id.
func (r *Registry) Resolve(id string) (Adapter, error) {
	adapter, ok := r.items[normalizeID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFormat, id, strings.Join(r.IDs(), ", "))
	}
	return adapter, nil
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ListMetadata returns deterministic metadata ordering by id.
func (r *Registry) ListMetadata() []Metadata {
	list := make([]Metadata, 0, len(r.items))
	for _, adapter := range r.items {
		list = append(list, adapter.Metadata())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func isValidID(id string) bool {
	if id == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(id); i++ {
		c := id[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if i == 0 || i == len(id)-1 {
			if isSep {
				return false
			}
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
