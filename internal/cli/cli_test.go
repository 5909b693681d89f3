package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/piitier/internal/logger"
	"github.com/ppiankov/piitier/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadConfig_Defaults(t *testing.T) {
	v := viper.New()
	configureViper(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "pattern", cfg.Engine.Backend)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.2, cfg.Detection.ScoreFloor)
	assert.True(t, cfg.Source.RespectRobots)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PIITIER_LLM_PROVIDER", "anthropic")
	t.Setenv("PIITIER_LLM_API_KEY", "sk-env")
	t.Setenv("PIITIER_SERVER_PORT", "9090")
	t.Setenv("PIITIER_CACHE_REDIS_URL", "redis://cache:6379/0")

	v := viper.New()
	configureViper(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis://cache:6379/0", cfg.Cache.RedisURL)
}

func TestLoadConfig_ProviderKeyFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	v := viper.New()
	configureViper(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.LLM.APIKey)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detection:\n  country: India\nlogging:\n  level: debug\n"), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	configureViper(v)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "India", cfg.Detection.Country)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "pattern", cfg.Engine.Backend)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PIITIER_ENGINE_BACKEND", "spacy")

	v := viper.New()
	configureViper(v)

	_, err := loadConfig(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid engine backend")
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# piitier configuration"))

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, model.DefaultConfig().Server.Port, cfg.Server.Port)

	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestShowConfig_MasksAPIKey(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.APIKey = "sk-secret"

	var buf bytes.Buffer
	require.NoError(t, showConfig(&buf, cfg))
	assert.NotContains(t, buf.String(), "sk-secret")
	assert.Contains(t, buf.String(), "****")
	assert.Equal(t, "sk-secret", cfg.LLM.APIKey)
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.pdf", "skip.png", ".hidden/c.txt", "sub/d.html"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	list := filepath.Join(dir, "inputs.list")
	require.NoError(t, os.WriteFile(list, []byte("# docs\nhttps://example.com/x.pdf\n"+filepath.Join(dir, "a.txt")+"\n"), 0o644))

	inputs, err := collectInputs([]string{dir}, list)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/x.pdf",
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "sub", "d.html"),
	}, inputs)

	_, err = collectInputs([]string{filepath.Join(dir, "missing")}, "")
	assert.Error(t, err)
}

func TestReportName(t *testing.T) {
	assert.Equal(t, "bank-statement", reportName("bank statement.pdf"))
	assert.Equal(t, "a_b", reportName("a:b.txt"))
	assert.Equal(t, "document", reportName(""))
}

func TestListEntities(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listEntities(&buf, ""))

	var got catalog
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Contains(t, got.Global, "EMAIL_ADDRESS")
	assert.Equal(t, []string{"IN_AADHAR_CARD_CUSTOM", "IN_AADHAAR"}, got.Aliases["IN_AADHAR"])

	buf.Reset()
	require.NoError(t, listEntities(&buf, "uk"))
	assert.Contains(t, buf.String(), "UK_NINO")

	assert.Error(t, listEntities(&buf, "Atlantis"))
}

func TestApplyLogLevel(t *testing.T) {
	log, err := logger.New(logger.Config{Level: "info", Format: "json", Output: &bytes.Buffer{}})
	require.NoError(t, err)

	v := viper.New()
	v.Set("logging.level", "debug")
	applyLogLevel(v, log)
	assert.Equal(t, "debug", log.Level().String())

	v.Set("logging.level", "loud")
	applyLogLevel(v, log)
	assert.Equal(t, "debug", log.Level().String())
}
