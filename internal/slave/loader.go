package slave

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader resolves and parses slave configuration files. Parsed configs are
// cached per path; validation runs once before the first parse.
type Loader struct {
	cache       sync.Map
	validator   *Validator
	searchPaths []string
}

func NewLoader(searchPaths []string) (*Loader, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	return &Loader{
		validator:   validator,
		searchPaths: searchPaths,
	}, nil
}

// Load finds configPath+".yaml" in the search paths, validates it against
// the slave config schema and parses it.
func (l *Loader) Load(configPath string) (*Config, error) {
	if cached, ok := l.cache.Load(configPath); ok {
		return cached.(*Config), nil
	}

	var data []byte
	var err error
	var foundPath string

	for _, searchPath := range l.searchPaths {
		fullPath := filepath.Join(searchPath, configPath+".yaml")
		data, err = os.ReadFile(fullPath)
		if err == nil {
			foundPath = fullPath
			break
		}
	}

	if data == nil {
		return nil, fmt.Errorf("slave config not found: %s (searched in: %v)", configPath, l.searchPaths)
	}

	if err := l.validator.ValidateConfig(data); err != nil {
		return nil, fmt.Errorf("validation failed for %s: %w", foundPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slave config: %w", err)
	}

	l.cache.Store(configPath, &cfg)

	return &cfg, nil
}

// ClearCache drops all cached configs.
func (l *Loader) ClearCache() {
	l.cache.Range(func(key, value any) bool {
		l.cache.Delete(key)
		return true
	})
}
