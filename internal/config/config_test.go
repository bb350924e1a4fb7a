package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Lower.IntType != "int" || cfg.Lower.Indent != 4 || cfg.Format.Indent != 4 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
	if err := cfg.ValidateBuild(); err == nil {
		t.Error("ValidateBuild accepted a config without an entry")
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "oxyl.toml", `
[project]
name = "demo"
entry = "src/main.oxl"

[lower]
int_type = "int64_t"

[check]
globals = ["printf", "show"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project.Name != "demo" || cfg.Project.Entry != "src/main.oxl" {
		t.Errorf("project = %+v", cfg.Project)
	}
	if cfg.Lower.IntType != "int64_t" {
		t.Errorf("int_type = %q", cfg.Lower.IntType)
	}
	if cfg.Lower.Indent != 4 {
		t.Errorf("unset indent should keep its default, got %d", cfg.Lower.Indent)
	}
	if len(cfg.Check.Globals) != 2 || cfg.Check.Globals[1] != "show" {
		t.Errorf("globals = %v", cfg.Check.Globals)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if got, want := cfg.ResolvePath(cfg.Project.Entry), filepath.Join(dir, "src", "main.oxl"); got != want {
		t.Errorf("ResolvePath = %q, want %q", got, want)
	}
	if got, want := cfg.OutputPath(), filepath.Join(dir, "src", "main.c"); got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestLoadYAML(t *testing.T) {
	for _, name := range []string{"oxyl.yaml", "oxyl.yml"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), name, `
project:
  entry: main.oxl
  output: out/main.c
format:
  indent: 2
`)
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Format.Indent != 2 {
				t.Errorf("format.indent = %d", cfg.Format.Indent)
			}
			if cfg.Lower.IntType != "int" {
				t.Errorf("int_type should keep its default, got %q", cfg.Lower.IntType)
			}
			if got, want := cfg.OutputPath(), filepath.Join(filepath.Dir(path), "out", "main.c"); got != want {
				t.Errorf("OutputPath = %q, want %q", got, want)
			}
		})
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Parse(nil, FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Lower.IntType != "int" {
		t.Errorf("empty YAML lost defaults: %+v", cfg)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"oxyl.toml", "[lower]\ntabs = 8\n"},
		{"oxyl.yaml", "lower:\n  tabs: 8\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.name, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected an error for an unknown key")
			}
			if !strings.Contains(err.Error(), "tabs") {
				t.Errorf("error %q does not name the key", err)
			}
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "oxyl.toml", "[lower\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "TOML parse error") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"oxyl.toml": FormatTOML,
		"oxyl.yaml": FormatYAML,
		"oxyl.YML":  FormatYAML,
		"config":    FormatTOML,
	}
	for path, want := range tests {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, root, "oxyl.yaml", "project:\n  entry: a.oxl\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got != want {
		t.Errorf("Discover = %q, want %q", got, want)
	}

	// oxyl.toml wins over oxyl.yaml in the same directory.
	preferred := writeFile(t, root, "oxyl.toml", "")
	if got, _ := Discover(root); got != preferred {
		t.Errorf("Discover = %q, want %q", got, preferred)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("", t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	// A config somewhere above the temp dir would be picked up; only the
	// defaults-or-file contract is checked here.
	if cfg == nil {
		t.Fatal("nil config")
	}

	path := writeFile(t, t.TempDir(), "custom.toml", "[format]\nindent = 8\n")
	cfg, err = LoadOrDefault(path, "")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Format.Indent != 8 {
		t.Errorf("format.indent = %d", cfg.Format.Indent)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Lower.IntType = " "
	cfg.Lower.Indent = 0
	cfg.Format.Indent = -1
	cfg.Check.Globals = []string{"ok", ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"lower.int_type", "lower.indent", "format.indent", "check.globals"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error lacks %q: %v", want, err)
		}
	}
}

func TestOptionConversions(t *testing.T) {
	cfg := Default()
	cfg.Lower.IntType = "long"
	cfg.Format.Indent = 3
	cfg.Check.Globals = []string{"printf"}

	if lo := cfg.LowerOptions(); lo.IntType != "long" || lo.Indent != 4 {
		t.Errorf("LowerOptions = %+v", lo)
	}
	if fo := cfg.FormatOptions(); fo.Indent != 3 {
		t.Errorf("FormatOptions = %+v", fo)
	}
	co := cfg.CheckOptions()
	co.Globals[0] = "changed"
	if cfg.Check.Globals[0] != "printf" {
		t.Error("CheckOptions shares its slice with the config")
	}
}
