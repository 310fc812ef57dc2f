// Package layout describes where the dashboard build output lives.
package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults place the build next to the Django backend so its static-file
// server can pick it up.
const (
	DefaultOutputDir  = "../backend/static"
	DefaultIndexPath  = "../backend/templates/index.html"
	DefaultPublicPath = "/static/"
)

// Layout is the build output placement.
type Layout struct {
	// OutputDir holds the static assets.
	OutputDir string `yaml:"outputDir" json:"outputDir"`

	// IndexPath is the entry HTML document.
	IndexPath string `yaml:"indexPath" json:"indexPath"`

	// PublicPath is the URL prefix assets are served under. It begins and
	// ends with "/".
	PublicPath string `yaml:"publicPath" json:"publicPath"`

	// Devtools enables in-browser devtools in the build.
	Devtools bool `yaml:"devtools" json:"devtools"`
}

// file is the on-disk form; Devtools is a pointer so "unset" differs from false.
type file struct {
	OutputDir  string `yaml:"outputDir"`
	IndexPath  string `yaml:"indexPath"`
	PublicPath string `yaml:"publicPath"`
	Devtools   *bool  `yaml:"devtools"`
}

// Default returns the default layout. Devtools are on outside production.
func Default(production bool) Layout {
	return Layout{
		OutputDir:  DefaultOutputDir,
		IndexPath:  DefaultIndexPath,
		PublicPath: DefaultPublicPath,
		Devtools:   !production,
	}
}

// Load reads a YAML layout file. Unset keys take their defaults and
// relative paths are resolved against the file's directory.
//
// Example file:
//
//	outputDir: ../backend/static
//	indexPath: ../backend/templates/index.html
//	publicPath: /static/
//	devtools: false
func Load(path string, production bool) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout %s: %w", path, err)
	}

	l := Default(production)
	if f.OutputDir != "" {
		l.OutputDir = f.OutputDir
	}
	if f.IndexPath != "" {
		l.IndexPath = f.IndexPath
	}
	if f.PublicPath != "" {
		l.PublicPath = f.PublicPath
	}
	if f.Devtools != nil {
		l.Devtools = *f.Devtools
	}

	if err := l.Validate(); err != nil {
		return Layout{}, err
	}

	return l.Rooted(filepath.Dir(path)), nil
}

// Validate checks the public path shape and that paths are set.
func (l Layout) Validate() error {
	var errs []error
	if l.OutputDir == "" {
		errs = append(errs, errors.New("outputDir is required"))
	}
	if l.IndexPath == "" {
		errs = append(errs, errors.New("indexPath is required"))
	}
	if !strings.HasPrefix(l.PublicPath, "/") || !strings.HasSuffix(l.PublicPath, "/") {
		errs = append(errs, fmt.Errorf("publicPath %q must begin and end with /", l.PublicPath))
	}
	if strings.ContainsAny(l.PublicPath, ":*") {
		errs = append(errs, fmt.Errorf("publicPath %q must not contain : or *", l.PublicPath))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	return nil
}

// Rooted returns a copy whose relative filesystem paths are joined to dir.
func (l Layout) Rooted(dir string) Layout {
	if !filepath.IsAbs(l.OutputDir) {
		l.OutputDir = filepath.Join(dir, l.OutputDir)
	}
	if !filepath.IsAbs(l.IndexPath) {
		l.IndexPath = filepath.Join(dir, l.IndexPath)
	}
	return l
}
