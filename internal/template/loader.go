package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Loader loads templates from files.
type Loader struct {
	basePath string
}

// NewLoader creates a new template loader.
// basePath is used to resolve relative template paths (typically project root).
func NewLoader(basePath string) *Loader {
	return &Loader{basePath: basePath}
}

// LoadFromFile loads a template from a YAML or JSON file.
// The format is auto-detected based on file extension (.json for JSON, otherwise YAML).
// Returns an error if the file cannot be read, parsed, or validated.
func (l *Loader) LoadFromFile(path string) (*domain.TaskTemplate, error) {
	resolvedPath := l.resolvePath(path)

	data, err := os.ReadFile(resolvedPath) //nolint:gosec // Path is resolved from user config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", eurekaerrors.ErrTemplateFileMissing, resolvedPath)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: permission denied: %s", eurekaerrors.ErrTemplateLoadFailed, resolvedPath)
		}
		return nil, fmt.Errorf("%w: %w", eurekaerrors.ErrTemplateLoadFailed, err)
	}

	return l.Parse(data, detectFormat(path))
}

// Parse decodes a template from data in the given format ("json" or "yaml").
func (l *Loader) Parse(data []byte, format string) (*domain.TaskTemplate, error) {
	var fileTemplate FileTemplate
	if format == "json" {
		if parseErr := json.Unmarshal(data, &fileTemplate); parseErr != nil {
			return nil, fmt.Errorf("%w: %w", eurekaerrors.ErrTemplateParseError, parseErr)
		}
	} else {
		if parseErr := yaml.Unmarshal(data, &fileTemplate); parseErr != nil {
			return nil, fmt.Errorf("%w: %w", eurekaerrors.ErrTemplateParseError, parseErr)
		}
	}

	tmpl, convertErr := toTemplate(&fileTemplate)
	if convertErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", eurekaerrors.ErrTemplateInvalid, fileTemplate.Name, convertErr)
	}

	if err := ValidateTemplate(tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// LoadDir loads every *.yaml, *.yml and *.json file in dir, in file name
// order. A missing directory yields no templates.
// Returns an error on the first failure (fail-fast behavior).
func (l *Loader) LoadDir(dir string) ([]*domain.TaskTemplate, error) {
	var loaded []*domain.TaskTemplate
	err := l.WalkDir(dir, func(_ string, t *domain.TaskTemplate) error {
		loaded = append(loaded, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

// WalkDir loads the template files in dir like LoadDir and calls fn with
// each file's path and template. An error from fn stops the walk.
func (l *Loader) WalkDir(dir string, fn func(path string, t *domain.TaskTemplate) error) error {
	resolved := l.resolvePath(dir)

	entries, err := os.ReadDir(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %w", eurekaerrors.ErrTemplateLoadFailed, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isTemplateFile(entry.Name()) {
			continue
		}
		path := filepath.Join(resolved, entry.Name())
		tmpl, err := l.LoadFromFile(path)
		if err != nil {
			return fmt.Errorf("template file %q: %w", path, err)
		}
		if err := fn(path, tmpl); err != nil {
			return err
		}
	}
	return nil
}

// SaveToFile writes a template atomically, as JSON for .json paths and YAML otherwise.
func (l *Loader) SaveToFile(path string, t *domain.TaskTemplate) error {
	if err := ValidateTemplate(t); err != nil {
		return err
	}

	data, err := Encode(t, detectFormat(path))
	if err != nil {
		return err
	}

	resolvedPath := l.resolvePath(path)
	if err := os.MkdirAll(filepath.Dir(resolvedPath), dirPerm); err != nil {
		return fmt.Errorf("failed to create template directory: %w", err)
	}
	if err := atomicWrite(resolvedPath, data, filePerm); err != nil {
		return fmt.Errorf("failed to save template %q: %w", t.Name, err)
	}
	return nil
}

// Encode renders a template in its file form ("json" or "yaml").
func Encode(t *domain.TaskTemplate, format string) ([]byte, error) {
	ft := ToFileTemplate(t)
	if format == "json" {
		data, err := json.MarshalIndent(ft, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode template %q: %w", t.Name, err)
		}
		return append(data, '\n'), nil
	}

	data, err := yaml.Marshal(ft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template %q: %w", t.Name, err)
	}
	return data, nil
}

// resolvePath resolves a template path, supporting both absolute and relative paths.
// Relative paths are resolved relative to the loader's basePath.
func (l *Loader) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.basePath, path)
}

// detectFormat returns the file format based on extension.
// Returns "json" for .json files, "yaml" for everything else.
func detectFormat(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return "json"
	}
	return "yaml"
}

func isTemplateFile(name string) bool {
	return slices.Contains([]string{".yaml", ".yml", ".json"}, strings.ToLower(filepath.Ext(name)))
}

// atomicWrite writes data to a file atomically using write-then-rename.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
