package confloader

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "PRINTLINK_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	overrides map[string]any

	// knownKeys maps "section_key_name" to "section.key_name" so env
	// variables can address keys that contain underscores.
	knownKeys map[string]string
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithOverrides sets dotted keys ("printer.max_connections") that win over
// every other source. Values may be strings; they are converted on
// Unmarshal like environment values.
func WithOverrides(kv map[string]any) Option {
	return func(l *Loader) {
		l.overrides = kv
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
		knownKeys: make(map[string]string),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load fills target from its current values, then the YAML file, then
// PRINTLINK_* environment variables, then overrides. Later sources win.
func (l *Loader) Load(target any) error {
	l.RegisterKeys(StructKeys(target)...)

	if err := l.LoadFile(l.filePath); err != nil {
		return err
	}
	if err := l.LoadEnv(); err != nil {
		return err
	}
	if len(l.overrides) > 0 {
		if err := l.LoadMap(l.overrides); err != nil {
			return err
		}
	}
	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// LoadFile loads configuration from a YAML file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	provider := file.Provider(path)
	if err := l.k.Load(provider, yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}

	return nil
}

// LoadEnv loads configuration from environment variables.
// Environment variables use the format: PRINTLINK_SECTION_KEY (uppercase, underscores).
// Example: PRINTLINK_PRINTER_DEFAULT_TIMEOUT=10s -> printer.default_timeout
//
// Keys registered with RegisterKeys (or already loaded) are matched first,
// so underscores inside a key name survive. Anything else maps every
// underscore to a level separator.
func (l *Loader) LoadEnv() error {
	for _, key := range l.k.Keys() {
		l.RegisterKeys(key)
	}

	envTransformer := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		if key, ok := l.knownKeys[s]; ok {
			return key
		}
		return strings.ReplaceAll(s, "_", ".")
	}

	provider := env.Provider(l.envPrefix, ".", envTransformer)
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	return nil
}

// RegisterKeys declares dotted configuration keys for env matching.
func (l *Loader) RegisterKeys(keys ...string) {
	for _, key := range keys {
		l.knownKeys[strings.ReplaceAll(key, ".", "_")] = key
	}
}

// StructKeys returns the dotted koanf keys of every leaf field in v, which
// must be a struct or a pointer to one.
func StructKeys(v any) []string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	collectKeys(t, "", &keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("koanf"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		ft := f.Type
		if ft.Kind() == reflect.Struct && ft.PkgPath() != "time" {
			collectKeys(ft, name, keys)
			continue
		}
		*keys = append(*keys, name)
	}
}

// LoadMap merges dotted keys over what is already loaded.
func (l *Loader) LoadMap(kv map[string]any) error {
	if len(l.knownKeys) > 0 {
		for key := range kv {
			if l.knownKeys[strings.ReplaceAll(key, ".", "_")] != key {
				return fmt.Errorf("unknown config key %q", key)
			}
		}
	}
	if err := l.k.Load(mapProvider(kv), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// mapProvider feeds a flat dotted map to koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("confloader: map provider has no byte form")
}

func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(m, "."), nil
}
