package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/format"
)

// Registry is an immutable, ordered list of engine handles.
//
// The order of registration is the order of every sweep and report.
type Registry struct {
	handles []Handle
}

// NewRegistry creates a registry from handles in the given order.
//
// Returns errs.ErrDuplicateEngine if two handles share a name,
// errs.ErrNoEngines if handles is empty, and errs.ErrInvalidOption if a
// handle has no name or no engine.
func NewRegistry(handles ...Handle) (*Registry, error) {
	if len(handles) == 0 {
		return nil, errs.ErrNoEngines
	}

	seen := make(map[string]struct{}, len(handles))
	list := make([]Handle, 0, len(handles))
	for _, h := range handles {
		if h.Name == "" || h.Engine == nil {
			return nil, fmt.Errorf("%w: engine handle needs a name and an engine", errs.ErrInvalidOption)
		}
		if _, ok := seen[h.Name]; ok {
			return nil, fmt.Errorf("%w: %s", errs.ErrDuplicateEngine, h.Name)
		}
		seen[h.Name] = struct{}{}
		list = append(list, h)
	}

	return &Registry{handles: list}, nil
}

// DefaultRegistry returns a registry with every engine built into this
// binary, in format.EngineTypes order.
func DefaultRegistry() *Registry {
	handles := make([]Handle, 0, len(format.EngineTypes()))
	for _, t := range format.EngineTypes() {
		h, err := NewHandle(t)
		if err != nil {
			if errors.Is(err, errs.ErrEngineUnavailable) {
				continue
			}
			panic(err)
		}
		handles = append(handles, h)
	}

	return &Registry{handles: handles}
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	return len(r.handles)
}

// Handles returns the registered handles in registration order.
func (r *Registry) Handles() []Handle {
	handles := make([]Handle, len(r.handles))
	copy(handles, r.handles)

	return handles
}

// Names returns the registered display names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.handles))
	for i, h := range r.handles {
		names[i] = h.Name
	}

	return names
}

// Lookup returns the handle registered under name.
//
// For a built-in engine that is not compiled into this binary the error
// is errs.ErrEngineUnavailable, otherwise errs.ErrUnknownEngine.
func (r *Registry) Lookup(name string) (Handle, error) {
	for _, h := range r.handles {
		if h.Name == name {
			return h, nil
		}
	}

	if t, ok := format.ParseEngineType(name); ok {
		if _, err := CreateEngine(t); err != nil {
			return Handle{}, err
		}
	}

	return Handle{}, fmt.Errorf("%w: %q (registered: %s)", errs.ErrUnknownEngine, name, strings.Join(r.Names(), ", "))
}

// Select returns a registry restricted to names.
//
// The result keeps registration order, not the order of names. An empty
// names list returns r itself.
func (r *Registry) Select(names ...string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, err := r.Lookup(name); err != nil {
			return nil, err
		}
		wanted[name] = struct{}{}
	}

	selected := make([]Handle, 0, len(wanted))
	for _, h := range r.handles {
		if _, ok := wanted[h.Name]; ok {
			selected = append(selected, h)
		}
	}

	return &Registry{handles: selected}, nil
}
