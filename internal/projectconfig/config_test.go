package projectconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assertEqual(t, "Rules", "", cfg.Rules)
	assertEqual(t, "Format", "text", cfg.Format)
	assertBoolPtr(t, "Detailed", false, cfg.Detailed)
	assertEqual(t, "MinGrade", "C", cfg.MinGrade)
	assertEqual(t, "Paths.Skills", "skills", cfg.Paths.Skills)
	assertEqual(t, "Publish.URL", "", cfg.Publish.URL)
	assertEqualInt(t, "Watch.DebounceMs", 200, cfg.Watch.DebounceMs)
	assertEqual(t, "Dir", "", cfg.Dir)
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
rules: rules/strict.yaml
format: json
detailed: true
min_grade: B
paths:
  skills: packages
publish:
  url: https://acct.blob.core.windows.net/reports/nightly
watch:
  debounce_ms: 500
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Rules", "rules/strict.yaml", cfg.Rules)
	assertEqual(t, "Format", "json", cfg.Format)
	assertBoolPtr(t, "Detailed", true, cfg.Detailed)
	assertEqual(t, "MinGrade", "B", cfg.MinGrade)
	assertEqual(t, "Paths.Skills", "packages", cfg.Paths.Skills)
	assertEqual(t, "Publish.URL", "https://acct.blob.core.windows.net/reports/nightly", cfg.Publish.URL)
	assertEqualInt(t, "Watch.DebounceMs", 500, cfg.Watch.DebounceMs)
	assertEqual(t, "Dir", dir, cfg.Dir)
	assertEqual(t, "RulesPath()", filepath.Join(dir, "rules", "strict.yaml"), cfg.RulesPath())
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
min_grade: A
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "MinGrade", "A", cfg.MinGrade)
	// Everything else keeps defaults
	assertEqual(t, "Format", "text", cfg.Format)
	assertBoolPtr(t, "Detailed", false, cfg.Detailed)
	assertEqualInt(t, "Watch.DebounceMs", 200, cfg.Watch.DebounceMs)
	assertEqual(t, "RulesPath()", "", cfg.RulesPath())
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Should be identical to New()
	defaults := New()
	assertEqual(t, "Format", defaults.Format, cfg.Format)
	assertEqual(t, "MinGrade", defaults.MinGrade, cfg.MinGrade)
	assertEqualInt(t, "Watch.DebounceMs", defaults.Watch.DebounceMs, cfg.Watch.DebounceMs)
	assertEqual(t, "Dir", "", cfg.Dir)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
publish:
  url: [not valid yaml
    this is broken
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for invalid YAML")
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, `
format: markdown
`)

	child := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(child)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Format", "markdown", cfg.Format)
	assertEqual(t, "Dir", root, cfg.Dir)
	// Other defaults still populated
	assertEqual(t, "MinGrade", "C", cfg.MinGrade)
}

func TestLoad_StopsAfterTenLevels(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, `
format: json
`)

	child := root
	for i := 0; i < 11; i++ {
		child = filepath.Join(child, "d")
	}
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(child)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	assertEqual(t, "Format", "text", cfg.Format)
}

func TestRulesPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "rules.yaml")
	tests := []struct {
		name string
		cfg  ProjectConfig
		want string
	}{
		{"unset", ProjectConfig{Dir: "/proj"}, ""},
		{"relative", ProjectConfig{Rules: "r.yaml", Dir: "/proj"}, filepath.Join("/proj", "r.yaml")},
		{"absolute", ProjectConfig{Rules: abs, Dir: "/proj"}, abs},
		{"no config dir", ProjectConfig{Rules: "r.yaml"}, "r.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEqual(t, "RulesPath()", tt.want, tt.cfg.RulesPath())
		})
	}
}

func TestBoolPointerFields(t *testing.T) {
	t.Run("default preserved when not set in YAML", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, `
format: json
`)
		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		assertBoolPtr(t, "Detailed", false, cfg.Detailed)
	})

	t.Run("explicitly false", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, `
detailed: false
`)
		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		assertBoolPtr(t, "Detailed", false, cfg.Detailed)
	})

	t.Run("explicitly true", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, `
detailed: true
`)
		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		assertBoolPtr(t, "Detailed", true, cfg.Detailed)
	})
}

// --- test helpers ---

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}
