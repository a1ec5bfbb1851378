package presets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pgsentry/pgsentry/internal/filter"
	"gopkg.in/yaml.v3"
)

// Preset is a named, reusable set of column filters for one view
type Preset struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	View      string         `yaml:"view"`
	Filters   []filter.State `yaml:"filters"`
	CreatedAt time.Time      `yaml:"created_at"`
	LastUsed  time.Time      `yaml:"last_used,omitempty"`
	UseCount  int            `yaml:"use_count"`
}

// Manager persists filter presets as YAML in the config directory
type Manager struct {
	path    string
	presets []Preset
}

// NewManager loads existing presets if the file exists
func NewManager(configDir string) (*Manager, error) {
	m := &Manager{
		path: filepath.Join(configDir, "presets.yaml"),
	}

	if _, err := os.Stat(m.path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load presets: %w", err)
		}
	}
	return m, nil
}

// Load reads presets from disk
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}
	if err := yaml.Unmarshal(data, &m.presets); err != nil {
		return fmt.Errorf("failed to parse presets: %w", err)
	}
	return nil
}

// Save writes presets to disk
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.presets)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}
	return nil
}

// Add creates a preset from the given filters and persists it
func (m *Manager) Add(name, view string, filters []filter.State) (Preset, error) {
	preset := Preset{
		ID:        uuid.NewString(),
		Name:      name,
		View:      view,
		Filters:   filters,
		CreatedAt: time.Now(),
	}
	m.presets = append(m.presets, preset)
	if err := m.Save(); err != nil {
		return Preset{}, err
	}
	return preset, nil
}

// ForView returns the presets for a view, most recently used first
func (m *Manager) ForView(view string) []Preset {
	var out []Preset
	for _, p := range m.presets {
		if p.View == view {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastUsed.Equal(out[j].LastUsed) {
			return out[i].LastUsed.After(out[j].LastUsed)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Touch records a use of the preset and persists the counters
func (m *Manager) Touch(id string) error {
	for i := range m.presets {
		if m.presets[i].ID == id {
			m.presets[i].LastUsed = time.Now()
			m.presets[i].UseCount++
			return m.Save()
		}
	}
	return fmt.Errorf("preset %s not found", id)
}

// Delete removes a preset by id and persists the change
func (m *Manager) Delete(id string) error {
	for i := range m.presets {
		if m.presets[i].ID == id {
			m.presets = append(m.presets[:i], m.presets[i+1:]...)
			return m.Save()
		}
	}
	return fmt.Errorf("preset %s not found", id)
}
