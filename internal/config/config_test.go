package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/storechat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.Gateway.ImageTimeout)
	assert.Equal(t, 3, cfg.OpenAI.MaxRetries)
	assert.Equal(t, 20, cfg.OpenAI.HistorySize)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.NoError(t, err)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storechat.yaml")
	yamlBody := `
store:
  name: Dona Salgados
  contact: "+55 11 99999-0000"
  promotions:
    - Combo 25 for 20
keywords:
  back: [voltar, cancel]
catalog:
  path: ./data/catalog.yaml
  cache_ttl: 1m
  watch: true
openai:
  model: gpt-4o
http:
  addr: ":9000"
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	env := []string{
		"STORECHAT_OPENAI_API_KEY=sk-test",
		"STORECHAT_OPENAI_MAX_RETRIES=5",
		"STORECHAT_REDIS_LOCK_TTL=45s",
		"STORECHAT_HTTP_ADDR=:7000",
		"STORECHAT_KEYWORDS_HOME=inicio,menu",
		"UNRELATED=1",
	}

	cfg, err := config.Load(path, env)
	require.NoError(t, err)

	assert.Equal(t, "Dona Salgados", cfg.Store.Name)
	assert.Equal(t, []string{"Combo 25 for 20"}, cfg.Store.Promotions)
	assert.Equal(t, "./data/catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, time.Minute, cfg.Catalog.CacheTTL)
	assert.True(t, cfg.Catalog.Watch)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 5, cfg.OpenAI.MaxRetries)
	assert.Equal(t, 45*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, ":7000", cfg.HTTP.Addr, "env wins over file")

	assert.Equal(t, []string{"voltar", "cancel"}, cfg.Keywords.Back)
	assert.Equal(t, []string{"inicio", "menu"}, cfg.Keywords.Home)
	assert.Equal(t, []string{"checkout", "order", "place order", "finish", "finalize"}, cfg.Keywords.Checkout)
}

func TestLoad_Temperature(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.OpenAI.Temperature)
	assert.InDelta(t, 0.7, *cfg.OpenAI.Temperature, 1e-9)

	path := filepath.Join(t.TempDir(), "storechat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openai:\n  temperature: 0\n"), 0o644))
	cfg, err = config.Load(path, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.OpenAI.Temperature)
	assert.Zero(t, *cfg.OpenAI.Temperature, "explicit zero is kept")

	cfg, err = config.Load("", []string{"STORECHAT_OPENAI_TEMPERATURE=0.2"})
	require.NoError(t, err)
	require.NotNil(t, cfg.OpenAI.Temperature)
	assert.InDelta(t, 0.2, *cfg.OpenAI.Temperature, 1e-9)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unclosed"), 0o644))

	_, err := config.Load(path, nil)
	assert.Error(t, err)
}

func TestKeywords(t *testing.T) {
	k := config.DefaultKeywords()

	assert.True(t, k.IsHome("menu"))
	assert.True(t, k.IsHome(" MENU "))
	assert.False(t, k.IsHome("menus"))
	assert.True(t, k.IsBack("catalog"))
	assert.True(t, k.IsCancel("start"))
	assert.True(t, k.IsCancel("exit"))
	assert.True(t, k.IsCheckoutTrigger("place order"))
	assert.False(t, k.IsCheckoutTrigger("order please"))
	assert.False(t, k.IsHome(""))
}
