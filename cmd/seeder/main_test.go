package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hey-mailer/internal/config"
)

func TestReadAddresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.txt")
	content := "# sample recipients\ntest1@example.com\n\n  test2@example.com  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := readAddresses(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"test1@example.com", "test2@example.com"}, got)
}

func TestReadAddressesMissingFile(t *testing.T) {
	_, err := readAddresses(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestOverrideSuccessRate(t *testing.T) {
	cfg := &config.Config{
		DBDriver:            config.DriverPostgres,
		DeliveryBackend:     config.BackendRandom,
		DeliverySuccessRate: 0.8,
	}

	require.NoError(t, overrideSuccessRate(cfg, 0.25))
	assert.Equal(t, 0.25, cfg.DeliverySuccessRate)

	for _, rate := range []float64{1.5, -0.1} {
		assert.Error(t, overrideSuccessRate(cfg, rate))
		assert.Equal(t, 0.25, cfg.DeliverySuccessRate)
	}
}
