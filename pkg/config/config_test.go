package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Complexity.WarningThreshold != 10 {
		t.Errorf("Complexity.WarningThreshold = %d, want 10", cfg.Complexity.WarningThreshold)
	}
	if cfg.Complexity.ErrorThreshold != 20 {
		t.Errorf("Complexity.ErrorThreshold = %d, want 20", cfg.Complexity.ErrorThreshold)
	}
	if !cfg.Clones.Enabled {
		t.Error("Clones.Enabled should be true by default")
	}
	if cfg.Clones.MinTokens != 30 {
		t.Errorf("Clones.MinTokens = %d, want 30", cfg.Clones.MinTokens)
	}
	if cfg.Clones.Verify {
		t.Error("Clones.Verify should be false by default")
	}
	if !cfg.Files.RespectGitignore {
		t.Error("Files.RespectGitignore should be true by default")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}

	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "mccabre.toml")

	content := `
[complexity]
warning_threshold = 15
error_threshold = 30

[clones]
min_tokens = 50
enabled = false

[files]
respect_gitignore = false
exclude = ["generated/"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Complexity.WarningThreshold)
	assert.Equal(t, 30, cfg.Complexity.ErrorThreshold)
	assert.Equal(t, 50, cfg.Clones.MinTokens)
	assert.False(t, cfg.Clones.Enabled)
	assert.False(t, cfg.Files.RespectGitignore)
	assert.Equal(t, []string{"generated/"}, cfg.Files.Exclude)
	// untouched sections keep defaults
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "mccabre.yaml")

	content := `
complexity:
  warning_threshold: 12
clones:
  verify: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Complexity.WarningThreshold)
	assert.Equal(t, 20, cfg.Complexity.ErrorThreshold)
	assert.True(t, cfg.Clones.Verify)
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "mccabre.json")

	content := `{"clones": {"min_tokens": 40}, "output": {"format": "json"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Clones.MinTokens)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadFormatAliases(t *testing.T) {
	for _, format := range []string{"text", "txt", "json", "markdown", "md", "yaml", "yml", "toon"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mccabre.toml")
			require.NoError(t, os.WriteFile(path, []byte("[output]\nformat = \""+format+"\"\n"), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, format, cfg.Output.Format)
		})
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := Load("/nonexistent/path/mccabre.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown section", "[analysis]\nchurn = true\n"},
		{"unknown key", "[clones]\nmin_lines = 5\n"},
		{"zero min tokens", "[clones]\nmin_tokens = 0\n"},
		{"negative threshold", "[complexity]\nwarning_threshold = -1\n"},
		{"wrong type", "[clones]\nenabled = \"yes\"\n"},
		{"bad format", "[output]\nformat = \"xml\"\n"},
		{"error below warning", "[complexity]\nwarning_threshold = 30\nerror_threshold = 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mccabre.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "error %v should wrap ErrInvalidConfig", err)
		})
	}
}

func TestLoadConfig_Search(t *testing.T) {
	dir := t.TempDir()

	result, err := LoadConfig(WithSearchDir(dir))
	require.NoError(t, err)
	assert.Empty(t, result.Source)
	assert.Equal(t, DefaultConfig(), result.Config)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".mccabre"), 0755))
	path := filepath.Join(dir, ".mccabre", "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[clones]\nmin_tokens = 12\n"), 0644))

	result, err = LoadConfig(WithSearchDir(dir))
	require.NoError(t, err)
	assert.Equal(t, path, result.Source)
	assert.Equal(t, 12, result.Config.Clones.MinTokens)
}

func TestLoadConfig_ExplicitPathErrors(t *testing.T) {
	_, err := LoadConfig(WithPath(filepath.Join(t.TempDir(), "missing.toml")))
	assert.Error(t, err)
}

func TestMergeFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeFlags(Overrides{})
	assert.Equal(t, DefaultConfig(), cfg)

	cfg.MergeFlags(Overrides{Threshold: 25, MinTokens: 8, NoGitignore: true, Verify: true})
	assert.Equal(t, 25, cfg.Complexity.WarningThreshold)
	assert.Equal(t, 25, cfg.Complexity.ErrorThreshold)
	assert.Equal(t, 8, cfg.Clones.MinTokens)
	assert.False(t, cfg.Files.RespectGitignore)
	assert.True(t, cfg.Clones.Verify)
	assert.NoError(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mccabre.toml")

	cfg := DefaultConfig()
	cfg.Clones.MinTokens = 42
	cfg.Complexity.WarningThreshold = 7
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSchemaCompiles(t *testing.T) {
	_, err := compiledSchema()
	require.NoError(t, err)
	assert.Contains(t, Schema(), "min_tokens")
}
