package config_test

import (
	"testing"
	"time"

	"github.com/limbo/habitlens/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("HABITLENS_ENV_FILE", "testdata/missing.env")
	cfg := config.New()
	t.Setenv("TEST_WINDOW", "30")
	t.Setenv("TEST_BROKEN_INT", "thirty")
	t.Setenv("TEST_TEMPERATURE", "0.2")
	t.Setenv("TEST_TTL", "2h")
	t.Setenv("TEST_EMPTY", "")

	assert.Equal(t, 30, cfg.GetInt("TEST_WINDOW", 90))
	assert.Equal(t, 90, cfg.GetInt("TEST_BROKEN_INT", 90))
	assert.Equal(t, 90, cfg.GetInt("TEST_UNSET", 90))
	assert.InDelta(t, 0.2, cfg.GetFloat("TEST_TEMPERATURE", 0.6), 1e-9)
	assert.Equal(t, 2*time.Hour, cfg.GetDuration("TEST_TTL", time.Hour))
	assert.Equal(t, time.Hour, cfg.GetDuration("TEST_WINDOW", time.Hour))
	assert.Equal(t, "fallback", cfg.GetStringOr("TEST_EMPTY", "fallback"))
	assert.Equal(t, "", cfg.GetString("TEST_UNSET"))
}
