package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "groupcheck.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
[[group]]
file = "components.go"
type = "PlayerComponents"

[[group]]
file = "enemy.go"
`)

	m, err := loadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Groups, 2)
	assert.Equal(t, manifestGroup{File: "components.go", Type: "PlayerComponents"}, m.Groups[0])
	assert.Equal(t, manifestGroup{File: "enemy.go"}, m.Groups[1])
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, `
[[group]]
file = "components.go"
shape = "wrong"
`)

	_, err := loadManifest(path)
	assert.ErrorContains(t, err, "unknown keys")
}

func TestLoadManifestRequiresFile(t *testing.T) {
	path := writeManifest(t, `
[[group]]
type = "PlayerComponents"
`)

	_, err := loadManifest(path)
	assert.ErrorContains(t, err, "no file")
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := loadManifest(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
