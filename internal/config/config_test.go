package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsSeedsBranding(t *testing.T) {
	cfg := &AppConfig{}
	applyDefaults(cfg)

	assert.Equal(t, "NISIO PORTFOLIO", cfg.Site.Name)
	assert.Equal(t, "NISIO PORTFOLIO", cfg.Site.Title)
	assert.Equal(t, "Personal portfolio and blog", cfg.Site.Description)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultEnv, cfg.Env)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &AppConfig{Site: Site{Name: "My Site"}}
	applyDefaults(cfg)

	assert.Equal(t, "My Site", cfg.Site.Name)
	assert.Equal(t, "NISIO PORTFOLIO", cfg.Site.Title)
}
