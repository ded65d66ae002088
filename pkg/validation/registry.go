package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-genform/pkg/model"
)

// Spec references a named validator with string parameters, as written in
// declarative form definitions.
type Spec struct {
	Name    string            `json:"name" yaml:"name"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
}

// Factory builds a validator from a Spec.
type Factory func(spec Spec) (model.Validator, error)

// Registry resolves validator names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewDefaultRegistry returns a registry holding the built-in validators:
// required, checked, minLength, maxLength, pattern, email, oneOf, matches.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister("required", func(spec Spec) (model.Validator, error) {
		return Required(spec.Message), nil
	})
	reg.MustRegister("checked", func(spec Spec) (model.Validator, error) {
		return Checked(spec.Message), nil
	})
	reg.MustRegister("minLength", func(spec Spec) (model.Validator, error) {
		n, err := intParam(spec, "value")
		if err != nil {
			return nil, err
		}
		return MinLength(n, spec.Message), nil
	})
	reg.MustRegister("maxLength", func(spec Spec) (model.Validator, error) {
		n, err := intParam(spec, "value")
		if err != nil {
			return nil, err
		}
		return MaxLength(n, spec.Message), nil
	})
	reg.MustRegister("pattern", func(spec Spec) (model.Validator, error) {
		raw := strings.TrimSpace(spec.Params["pattern"])
		if raw == "" {
			return nil, fmt.Errorf("validation: %s requires param %q", spec.Name, "pattern")
		}
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("validation: %s: compile pattern: %w", spec.Name, err)
		}
		return Pattern(re, spec.Message), nil
	})
	reg.MustRegister("email", func(spec Spec) (model.Validator, error) {
		return Email(spec.Message), nil
	})
	reg.MustRegister("oneOf", func(spec Spec) (model.Validator, error) {
		raw := strings.TrimSpace(spec.Params["values"])
		if raw == "" {
			return nil, fmt.Errorf("validation: %s requires param %q", spec.Name, "values")
		}
		var allowed []string
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				allowed = append(allowed, trimmed)
			}
		}
		return OneOf(allowed, spec.Message), nil
	})
	reg.MustRegister("matches", func(spec Spec) (model.Validator, error) {
		other := strings.TrimSpace(spec.Params["field"])
		if other == "" {
			return nil, fmt.Errorf("validation: %s requires param %q", spec.Name, "field")
		}
		return MatchesField(other, spec.Message), nil
	})
	return reg
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("validation: validator name is required")
	}
	if factory == nil {
		return fmt.Errorf("validation: factory for %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	return nil
}

// MustRegister panics when Register fails.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Build resolves a spec into a validator.
func (r *Registry) Build(spec Spec) (model.Validator, error) {
	r.mu.RLock()
	factory, ok := r.factories[strings.TrimSpace(spec.Name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("validation: unknown validator %q", spec.Name)
	}
	return factory(spec)
}

// BuildAll resolves specs in order.
func (r *Registry) BuildAll(specs []Spec) ([]model.Validator, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]model.Validator, 0, len(specs))
	for _, spec := range specs {
		validator, err := r.Build(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, validator)
	}
	return out, nil
}

// Names lists registered validator names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func intParam(spec Spec, key string) (int, error) {
	raw := strings.TrimSpace(spec.Params[key])
	if raw == "" {
		return 0, fmt.Errorf("validation: %s requires param %q", spec.Name, key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("validation: %s: invalid %s %q", spec.Name, key, raw)
	}
	return n, nil
}
