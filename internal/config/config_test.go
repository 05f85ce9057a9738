package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gamestore/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("CART_STORAGE_PATH", t.TempDir())

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, cart.DefaultKey, cfg.CartKey)
	assert.Equal(t, "dir", cfg.CartStorage)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.DBTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CATALOG_PAGE_SIZE", "8")
	t.Setenv("CART_STORAGE", "memory")
	t.Setenv("CART_STORAGE_PATH", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MIN_LOADING", "750ms")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, "memory", cfg.CartStorage)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 750*time.Millisecond, cfg.MinLoading)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Run("page size out of range", func(t *testing.T) {
		t.Setenv("CATALOG_PAGE_SIZE", "500")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("unknown storage", func(t *testing.T) {
		t.Setenv("CART_STORAGE", "redis")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("bad catalog url", func(t *testing.T) {
		t.Setenv("CATALOG_API_URL", "not a url")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, ".env")
	require.NoError(t, os.WriteFile(p, []byte("CART_KEY=from_file\n"), 0o644))

	t.Setenv("CART_KEY", "from_env")

	cwd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("CART_KEY"))
}
