package formconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/validation"
)

// Extensions recognised by LoadFS.
var Extensions = []string{".yaml", ".yml", ".json"}

// Option configures a Loader.
type Option func(*Loader)

// WithRegistry overrides the validator registry. The default registry holds
// the built-in validators.
func WithRegistry(registry *validation.Registry) Option {
	return func(l *Loader) {
		if registry != nil {
			l.registry = registry
		}
	}
}

// WithLogger sets the logger used to report loaded definitions.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader decodes definitions and builds forms.
type Loader struct {
	registry *validation.Registry
	logger   logrus.FieldLogger
}

// NewLoader constructs a Loader.
func NewLoader(options ...Option) *Loader {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	l := &Loader{
		registry: validation.NewDefaultRegistry(),
		logger:   discard,
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Registry exposes the validator registry so callers can add custom
// validators before loading.
func (l *Loader) Registry() *validation.Registry {
	return l.registry
}

// Parse decodes a single definition. JSON input is accepted as YAML.
func (l *Loader) Parse(data []byte) (model.Form, error) {
	forms, err := l.ParseAll(data)
	if err != nil {
		return model.Form{}, err
	}
	if len(forms) != 1 {
		return model.Form{}, fmt.Errorf("formconfig: expected one definition, found %d", len(forms))
	}
	return forms[0], nil
}

// ParseAll decodes every document of a YAML stream.
func (l *Loader) ParseAll(data []byte) ([]model.Form, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var forms []model.Form
	for {
		var def Definition
		err := decoder.Decode(&def)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("formconfig: decode definition: %w", err)
		}
		form, err := def.Build(l.registry)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	if len(forms) == 0 {
		return nil, errors.New("formconfig: no definitions found")
	}
	return forms, nil
}

// LoadFile parses a definition from disk.
func (l *Loader) LoadFile(filename string) (model.Form, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return model.Form{}, fmt.Errorf("formconfig: read %s: %w", filename, err)
	}
	form, err := l.Parse(data)
	if err != nil {
		return model.Form{}, fmt.Errorf("%w (%s)", err, filename)
	}
	l.logger.WithFields(logrus.Fields{"form": form.Name, "file": filename}).Debug("form definition loaded")
	return form, nil
}

// LoadFS parses every definition file in dir (not recursive). Forms are
// keyed by name; a name defined twice is an error.
func (l *Loader) LoadFS(fsys fs.FS, dir string) (map[string]model.Form, error) {
	if fsys == nil {
		return nil, errors.New("formconfig: fs is nil")
	}
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("formconfig: read dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	forms := make(map[string]model.Form)
	for _, entry := range entries {
		if entry.IsDir() || !hasDefinitionExt(entry.Name()) {
			continue
		}
		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("formconfig: read %s: %w", name, err)
		}
		parsed, err := l.ParseAll(data)
		if err != nil {
			return nil, fmt.Errorf("%w (%s)", err, name)
		}
		for _, form := range parsed {
			if _, dup := forms[form.Name]; dup {
				return nil, fmt.Errorf("formconfig: form %q defined twice (%s)", form.Name, name)
			}
			forms[form.Name] = form
			l.logger.WithFields(logrus.Fields{"form": form.Name, "file": name}).Debug("form definition loaded")
		}
	}
	return forms, nil
}

func hasDefinitionExt(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
