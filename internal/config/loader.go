package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileLoader decodes one configuration file format.
type FileLoader interface {
	Load(reader io.Reader, target interface{}) error
	Extensions() []string
}

// YAMLLoader loads YAML configuration files.
type YAMLLoader struct{}

// Load decodes YAML from the reader into target.
func (l *YAMLLoader) Load(reader io.Reader, target interface{}) error {
	return yaml.NewDecoder(reader).Decode(target)
}

// Extensions returns the file extensions handled by this loader.
func (l *YAMLLoader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// JSONLoader loads JSON configuration files.
type JSONLoader struct{}

// Load decodes JSON from the reader into target.
func (l *JSONLoader) Load(reader io.Reader, target interface{}) error {
	return json.NewDecoder(reader).Decode(target)
}

// Extensions returns the file extensions handled by this loader.
func (l *JSONLoader) Extensions() []string {
	return []string{".json"}
}

// Loader loads configuration starting from defaults, overlaying an optional
// file. The file format is picked by extension.
type Loader struct {
	fileLoaders map[string]FileLoader
}

// NewLoader creates a loader with the YAML and JSON formats registered.
func NewLoader() *Loader {
	loader := &Loader{fileLoaders: make(map[string]FileLoader)}
	loader.Register(&YAMLLoader{})
	loader.Register(&JSONLoader{})
	return loader
}

// Register adds a file loader for its extensions.
func (l *Loader) Register(fileLoader FileLoader) {
	for _, ext := range fileLoader.Extensions() {
		l.fileLoaders[ext] = fileLoader
	}
}

// DecodeFile decodes a single file into target using the loader registered
// for its extension.
func (l *Loader) DecodeFile(path string, target interface{}) error {
	ext := strings.ToLower(filepath.Ext(path))
	fileLoader, ok := l.fileLoaders[ext]
	if !ok {
		return fmt.Errorf("unsupported configuration format: %s", ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return fileLoader.Load(file, target)
}

// Load returns the default configuration overlaid with the given file, when
// path is non-empty, and validates the result.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := l.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
