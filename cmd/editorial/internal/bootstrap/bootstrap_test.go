package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	editorial "github.com/soygarfield/go-editorial"
)

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Source:     editorial.SourceMemory,
		OutputPath: "out/sitemap.xml",
		StaticDir:  "public",
	})
	require.NoError(t, err)
	assert.Equal(t, editorial.SourceMemory, cfg.Source.Provider)
	assert.Equal(t, "out/sitemap.xml", cfg.Sitemap.OutputPath)
	assert.Equal(t, "public", cfg.Static.OutputDir)
	assert.Equal(t, "https://soygarfield.com", cfg.Site.BaseURL)
}

func TestLoadConfigRequiredFileMustExist(t *testing.T) {
	_, err := LoadConfig(Options{
		ConfigPath:     filepath.Join(t.TempDir(), "missing.yaml"),
		ConfigRequired: true,
	})
	require.Error(t, err)
}

func TestLoadConfigValidatesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editorial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  name: Preview\n"), 0o600))

	cfg, err := LoadConfig(Options{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "Preview", cfg.Site.Name)

	_, err = LoadConfig(Options{ConfigPath: path, OutputPath: "sitemap.txt"})
	require.Error(t, err)
}

func TestBuildModuleUsesMemorySource(t *testing.T) {
	module, err := BuildModule(context.Background(), Options{
		Source:     editorial.SourceMemory,
		OutputPath: filepath.Join(t.TempDir(), "sitemap.xml"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = module.Close() })

	assert.Equal(t, editorial.SourceMemory, module.Config().Source.Provider)
}
