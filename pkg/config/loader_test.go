package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casekit/casekit/pkg/config"
)

type testConfig struct {
	Name    string        `env:"TEST_APP_NAME" envDefault:"casekit"`
	Port    int           `env:"TEST_APP_PORT" envDefault:"8080"`
	Timeout time.Duration `env:"TEST_APP_TIMEOUT" envDefault:"5s"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "casekit", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TEST_APP_NAME", "override")
	t.Setenv("TEST_APP_PORT", "9090")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "override", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("TEST_APP_PORT", "not-a-number")

	var cfg testConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParse)
}

func TestLoad_NilPointer(t *testing.T) {
	t.Parallel()

	err := config.Load[testConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	t.Setenv("TEST_APP_PORT", "boom")

	var cfg testConfig
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}
