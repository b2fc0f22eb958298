package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const noWeftTomlMessage = "no weft.toml found\nplease name the fixture files explicitly, e.g.:\n  weft resolve fixtures/net.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package  packageConfig  `toml:"package"`
	Fixtures fixturesConfig `toml:"fixtures"`
	Resolve  resolveConfig  `toml:"resolve"`
	Cache    cacheConfig    `toml:"cache"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type fixturesConfig struct {
	Dir string `toml:"dir"`
}

// resolveConfig carries defaults for the resolve command; flags given on
// the command line win over the manifest.
type resolveConfig struct {
	Jobs int `toml:"jobs"`
}

type cacheConfig struct {
	Disabled bool `toml:"disabled"`
}

func findWeftToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "weft.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findWeftToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("fixtures") {
		return projectConfig{}, fmt.Errorf("%s: missing [fixtures]", path)
	}
	if !meta.IsDefined("fixtures", "dir") || strings.TrimSpace(cfg.Fixtures.Dir) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [fixtures].dir", path)
	}
	if cfg.Resolve.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: [resolve].jobs must not be negative", path)
	}
	return cfg, nil
}

// listFixtureFiles returns the sorted *.toml files under dir, skipping the
// manifest itself.
func listFixtureFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".toml") {
			return nil
		}
		if filepath.Base(path) == "weft.toml" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
