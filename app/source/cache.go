package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"newsdesk/app/ingest"
)

// Override is an admin-maintained label override for one source, stored as
// <sourceId>.yml in the sources directory.
type Override struct {
	Name string `yaml:"name"`
}

// Cache holds the backend's source list in memory, with display-name
// overrides applied. The pipeline consumes sources read-only; only this
// cache replaces the list wholesale on refresh.
type Cache struct {
	overridesDir string
	mu           sync.RWMutex
	sources      []ingest.Source
	overrides    map[string]Override
	refreshedAt  time.Time
}

func NewCache(overridesDir string) *Cache {
	return &Cache{
		overridesDir: overridesDir,
		overrides:    make(map[string]Override),
	}
}

// LoadOverrides reads every <sourceId>.yml file in the overrides directory.
// A missing directory is fine; overrides are optional.
func (c *Cache) LoadOverrides() error {
	if _, err := os.Stat(c.overridesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.overridesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	overrides := make(map[string]Override, len(files))
	for _, file := range files {
		fileName := filepath.Base(file)
		sourceID := fileName[:len(fileName)-4] // Remove .yml extension

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		var override Override
		if err := yaml.Unmarshal(data, &override); err != nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}
		if override.Name == "" {
			return fmt.Errorf("invalid override %s: name is required", file)
		}

		overrides[sourceID] = override
		slog.Debug("Source override loaded", "source", sourceID, "name", override.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides = overrides

	return nil
}

// Set replaces the cached source list, applying any label overrides.
func (c *Cache) Set(sources []ingest.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	applied := make([]ingest.Source, len(sources))
	copy(applied, sources)
	for i, s := range applied {
		if override, ok := c.overrides[s.ID]; ok {
			applied[i].Name = override.Name
		}
	}

	c.sources = applied
	c.refreshedAt = time.Now()
}

// Get returns a copy of the cached sources.
func (c *Cache) Get() []ingest.Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sources := make([]ingest.Source, len(c.sources))
	copy(sources, c.sources)
	return sources
}

func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

func (c *Cache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
