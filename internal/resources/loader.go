// Package resources holds the external collaborators the engine loads module
// assets through: a resource loader and a template renderer.
package resources

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader locates and retrieves module assets. The engine never interprets
// file formats itself; it hands the text to a renderer or decoder.
type Loader interface {
	Exists(path string) bool
	ReadText(path string) (string, error)
	// ResolveExternalURI turns a module-relative path into a loadable one.
	ResolveExternalURI(moduleRelativePath string) (string, error)
}

// FileLoader serves module assets from a base directory on disk.
type FileLoader struct {
	base string
}

func NewFileLoader(base string) *FileLoader {
	return &FileLoader{base: base}
}

func (l *FileLoader) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (l *FileLoader) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (l *FileLoader) ResolveExternalURI(moduleRelativePath string) (string, error) {
	if filepath.IsAbs(moduleRelativePath) {
		return "", fmt.Errorf("module path %q must be relative", moduleRelativePath)
	}
	return filepath.Join(l.base, moduleRelativePath), nil
}
