package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kbukum/ocvflow/errors"
)

// Loader loads definitions by name.
type Loader interface {
	Load(name string) (*Definition, error)
}

// FileLoader loads definitions from YAML files on disk.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader searching the given directories.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

// Load looks for {name}.yaml or {name}.yml in each directory, then one
// level of subdirectories.
func (l *FileLoader) Load(name string) (*Definition, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			candidates := []string{filepath.Join(dir, name+ext)}
			matches, _ := filepath.Glob(filepath.Join(dir, "*", name+ext))
			candidates = append(candidates, matches...)
			for _, path := range candidates {
				if _, err := os.Stat(path); err != nil {
					continue
				}
				return LoadFile(path)
			}
		}
	}
	return nil, errors.NotFound("pipeline", name).WithDetail("dirs", l.dirs)
}

// LoadFile loads one definition file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reading %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", path, err)
	}
	return def, nil
}

// MapLoader serves definitions from memory.
type MapLoader map[string]*Definition

func (m MapLoader) Load(name string) (*Definition, error) {
	def, ok := m[name]
	if !ok {
		return nil, errors.NotFound("pipeline", name)
	}
	return def, nil
}
