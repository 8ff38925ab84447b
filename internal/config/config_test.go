package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8620, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, []string{"./templates"}, cfg.Catalog.Paths)
	assert.Equal(t, "verbatim", cfg.Render.UnboundPolicy)
	assert.Equal(t, "en", cfg.Render.Locale)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("server.port", 3000)
	viper.Set("catalog.paths", []string{"a/", "b.yml"})
	viper.Set("render.unbound_policy", "sentinel")
	viper.Set("render.sentinel", "<?>")
	viper.Set("render.locale", "de")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, []string{"a/", "b.yml"}, cfg.Catalog.Paths)
	assert.Equal(t, "sentinel", cfg.Render.UnboundPolicy)
	assert.Equal(t, "<?>", cfg.Render.Sentinel)
	assert.Equal(t, "de", cfg.Render.Locale)
}

func TestValidateRejectsBadPort(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("server.port", 99999)
	_, err := Load()
	assert.ErrorContains(t, err, "server.port")
}

func TestValidateRejectsBadPolicy(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("render.unbound_policy", "explode")
	_, err := Load()
	assert.ErrorContains(t, err, "unbound_policy")
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("log-level", "shout")
	_, err := Load()
	assert.ErrorContains(t, err, "log-level")
}
