package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gridgames/parking-panic/game/engine"
	"github.com/gridgames/parking-panic/game/service"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// Manager handles level definition loading and caching
type Manager struct {
	levelDir     string
	defaultLevel *engine.LevelConfig
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a new level manager
func NewManager(levelDir string) (*Manager, error) {
	// Ensure level directory exists
	if _, err := os.Stat(levelDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
	}

	m := &Manager{
		levelDir: levelDir,
		levels:   make(map[string]*engine.LevelConfig),
	}

	// Load default level
	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level definition by name
func (m *Manager) LoadLevel(name string) (*engine.LevelConfig, error) {
	m.mu.RLock()
	// Check cache first
	if level, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if level, exists := m.levels[name]; exists {
		return level, nil
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	levelPath := filepath.Join(m.levelDir, filename)

	// Read level file
	data, err := os.ReadFile(levelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	// Parse level
	var level engine.LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}

	// Validate level
	if err := engine.ValidateLevelConfig(&level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	// Cache the level
	m.levels[name] = &level
	return &level, nil
}

// ListLevels returns information about all available levels
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	var levels []*service.LevelInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for level name
		name := strings.TrimSuffix(entry.Name(), ".json")

		// Try to load the level to get details
		level, err := m.LoadLevel(name)
		if err != nil {
			// Skip invalid levels
			continue
		}

		levels = append(levels, &service.LevelInfo{
			Filename:    entry.Name(),
			LevelID:     name, // This is the identifier to use for session creation
			Name:        level.Name,
			Description: level.Description,
			Rows:        level.Rows,
			Cols:        level.Cols,
			Vehicles:    len(level.Vehicles),
		})
	}

	return levels, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by name
func (m *Manager) SetDefault(name string) error {
	level, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	return nil
}

// RefreshCache reloads all cached levels from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	// Reload default level. LoadLevel takes the lock itself, so the
	// cache clear above must not still hold it.
	return m.loadDefaultLevel()
}

// ReloadLevel drops one cached level and loads it fresh from disk
func (m *Manager) ReloadLevel(name string) error {
	m.mu.Lock()
	delete(m.levels, name)
	m.mu.Unlock()

	_, err := m.LoadLevel(name)
	return err
}

// loadDefaultLevel loads the default level
func (m *Manager) loadDefaultLevel() error {
	// Try to load tutorial.json as default
	level, err := m.LoadLevel("tutorial")
	if err != nil {
		// Try to load the first available level
		levels, listErr := m.ListLevels()
		if listErr != nil || len(levels) == 0 {
			// Fall back to the built-in level
			m.setDefault(engine.DefaultLevelConfig())
			return nil
		}

		// Use the first available level
		level, err = m.LoadLevel(strings.TrimSuffix(levels[0].Filename, ".json"))
		if err != nil {
			m.setDefault(engine.DefaultLevelConfig())
			return nil
		}
	}

	m.setDefault(level)
	return nil
}

func (m *Manager) setDefault(level *engine.LevelConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
}

// ValidateLevel checks a level definition without touching disk or cache
func (m *Manager) ValidateLevel(level *engine.LevelConfig) error {
	if err := engine.ValidateLevelConfig(level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return nil
}

// SaveLevel saves a level definition to disk
func (m *Manager) SaveLevel(name string, config *engine.LevelConfig) error {
	// Validate level before saving
	if err := engine.ValidateLevelConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	levelPath := filepath.Join(m.levelDir, filename)

	// Marshal level to JSON with indentation
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	// Write to file
	if err := os.WriteFile(levelPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.levels[name] = config
	m.mu.Unlock()

	return nil
}

// Count returns the number of levels currently cached
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.levels)
}
