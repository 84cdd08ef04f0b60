package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/cosmetics/internal/domain"
)

const jsonCatalog = `{
	"version": "1.0",
	"avatars": [
		{"id": "a1", "display_name": "Rookie", "unlock_type": "default", "is_default": true},
		{"id": "a2", "display_name": "Knight", "unlock_type": "soft_currency", "unlock_value": 100, "tag": "shop"}
	],
	"frames": [
		{"id": "f1", "display_name": "Plain", "unlock_type": "free", "is_default": true}
	]
}`

const yamlCatalog = `
version: "1.0"
avatars:
  - id: a1
    display_name: Rookie
    unlock_type: default
    is_default: true
  - id: a2
    display_name: Knight
    unlock_type: player_level
    unlock_value: 10
frames:
  - id: f1
    display_name: Plain
    unlock_type: free
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	loader := NewLoader()

	t.Run("valid JSON file", func(t *testing.T) {
		c, err := loader.Load(writeTempFile(t, "catalog.json", jsonCatalog))
		require.NoError(t, err)

		def, ok := c.Get("a2")
		require.True(t, ok)
		assert.Equal(t, domain.UnlockSoftCurrency, def.UnlockType)
		assert.Equal(t, 100, def.UnlockValue)
		assert.Equal(t, "shop", def.Tag)

		frame, ok := c.DefaultFrameOrFirst()
		require.True(t, ok)
		assert.Equal(t, domain.ItemID("f1"), frame.ID)
		assert.Equal(t, domain.UnlockFree, frame.UnlockType)
	})

	t.Run("valid YAML file", func(t *testing.T) {
		c, err := loader.Load(writeTempFile(t, "catalog.yaml", yamlCatalog))
		require.NoError(t, err)

		def, ok := c.Get("a2")
		require.True(t, ok)
		assert.Equal(t, domain.UnlockPlayerLevel, def.UnlockType)
		assert.Equal(t, 10, def.UnlockValue)

		avatar, ok := c.DefaultOrFirst()
		require.True(t, ok)
		assert.Equal(t, domain.ItemID("a1"), avatar.ID)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := loader.Load("/nonexistent/catalog.json")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read catalog file")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := loader.Load(writeTempFile(t, "catalog.toml", "x = 1"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported catalog format")
	})

	t.Run("schema rejects unknown unlock type", func(t *testing.T) {
		bad := `{"avatars": [{"id": "a1", "unlock_type": "lottery"}]}`
		_, err := loader.Load(writeTempFile(t, "catalog.json", bad))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("YAML rejects unknown unlock type", func(t *testing.T) {
		bad := "avatars:\n  - id: a1\n    unlock_type: lottery\n"
		_, err := loader.Load(writeTempFile(t, "catalog.yml", bad))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "/avatars/0/unlock_type")
	})

	t.Run("YAML rejects unknown property", func(t *testing.T) {
		bad := "avatars:\n  - id: a1\n    colour: red\n"
		_, err := loader.Load(writeTempFile(t, "catalog.yaml", bad))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "additionalProperties")
	})

	t.Run("malformed YAML", func(t *testing.T) {
		_, err := loader.Load(writeTempFile(t, "catalog.yaml", "avatars: [\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse catalog")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := loader.Load(writeTempFile(t, "catalog.json", `{invalid json}`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse JSON")
	})
}
