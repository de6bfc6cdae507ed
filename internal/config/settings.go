package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
)

// Setting keys recognised in the config file and environment.
const (
	KeyProcessor = "processor"
	KeyTemplates = "templates"
)

// DefaultProcessor names the downstream processor generated controllers bind to.
const DefaultProcessor = "Marvin"

const (
	dirName   = ".langcontroller"
	fileName  = "config"
	fileType  = "yaml"
	envPrefix = "LANGCONTROLLER"
)

var knownKeys = map[string]string{
	KeyProcessor: DefaultProcessor,
	KeyTemplates: "",
}

// UnknownKeyError reports a key that is not a recognised setting.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown setting %q (valid: %s, %s)", e.Key, KeyProcessor, KeyTemplates)
}

// Dir returns the settings directory (~/.langcontroller).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// FilePath returns the default settings file (~/.langcontroller/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Store holds persisted settings layered under environment variables.
type Store struct {
	v    *viper.Viper
	path string
}

// LoadStore reads the settings file at path, or FilePath when path is empty.
// A missing file is not an error.
func LoadStore(path string) (*Store, error) {
	if path == "" {
		path = FilePath()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for key, def := range knownKeys {
		v.SetDefault(key, def)
	}

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("inspecting config file %s: %w", path, err)
	}
	return &Store{v: v, path: path}, nil
}

// Path is the file Set writes to.
func (s *Store) Path() string { return s.path }

// Get returns the effective value for key.
func (s *Store) Get(key string) string {
	return s.v.GetString(key)
}

// Resolve prefers a non-empty flag value over the stored setting.
func (s *Store) Resolve(key, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return s.Get(key)
}

// CheckKey returns an *UnknownKeyError unless key is a recognised setting.
func CheckKey(key string) error {
	if _, ok := knownKeys[key]; !ok {
		return &UnknownKeyError{Key: key}
	}
	return nil
}

// Set persists one setting to the settings file.
func (s *Store) Set(key, value string) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	// Only keys already in the file plus this one are written, never env or defaults.
	file := viper.New()
	file.SetConfigFile(s.path)
	file.SetConfigType(fileType)
	if _, err := os.Stat(s.path); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", s.path, err)
		}
	}
	file.Set(key, value)
	if err := file.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reloading config file %s: %w", s.path, err)
	}
	return nil
}

// Setting is one effective key/value pair.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// All returns every recognised setting, sorted by key.
func (s *Store) All() []Setting {
	keys := make([]string, 0, len(knownKeys))
	for key := range knownKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]Setting, 0, len(keys))
	for _, key := range keys {
		out = append(out, Setting{Key: key, Value: s.Get(key)})
	}
	return out
}
