package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectManifest(t *testing.T) {
	root := t.TempDir()
	manifest := `
[package]
name = "demo"

[fixtures]
dir = "fixtures"
`
	if err := os.WriteFile(filepath.Join(root, "weft.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := loadProjectManifest(nested)
	if err != nil || !ok {
		t.Fatalf("manifest discovery must walk up: %v %v", ok, err)
	}
	if m.Root != root || m.Config.Fixtures.Dir != "fixtures" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}

func TestLoadProjectConfigDefaults(t *testing.T) {
	root := t.TempDir()
	manifest := `
[package]
name = "demo"

[fixtures]
dir = "fixtures"

[resolve]
jobs = 4

[cache]
disabled = true
`
	path := filepath.Join(root, "weft.toml")
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Resolve.Jobs != 4 || !cfg.Cache.Disabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	bad := filepath.Join(root, "bad.weft.toml")
	if err := os.WriteFile(bad, []byte("[package]\nname = \"demo\"\n[fixtures]\ndir = \"f\"\n[resolve]\njobs = -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadProjectConfig(bad); err == nil {
		t.Fatalf("negative jobs must be rejected")
	}
}

func TestLoadProjectConfigRejectsPartial(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "weft.toml")
	if err := os.WriteFile(path, []byte("[package]\nname = \"demo\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadProjectConfig(path); err == nil {
		t.Fatalf("manifest without [fixtures] must be rejected")
	}
}

func TestListFixtureFilesSkipsManifest(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.toml", "a.toml", "weft.toml", "readme.md"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x = 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	files, err := listFixtureFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.toml" || filepath.Base(files[1]) != "b.toml" {
		t.Fatalf("expected sorted fixtures without the manifest, got %v", files)
	}
}
