package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, BackendRandom, cfg.DeliveryBackend)
	assert.Equal(t, 0.8, cfg.DeliverySuccessRate)
	assert.Equal(t, "email_deliveries", cfg.AMQPQueue)
	assert.True(t, cfg.DBAutoMigrate)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DATABASE_URL", "file:mailer.db")
	t.Setenv("DELIVERY_BACKEND", "queue")
	t.Setenv("DELIVERY_SUCCESS_RATE", "1")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "file:mailer.db", cfg.DSN())
	assert.Equal(t, BackendQueue, cfg.DeliveryBackend)
	assert.Equal(t, 1.0, cfg.DeliverySuccessRate)
}

func TestDSNFromParts(t *testing.T) {
	cfg := &Config{
		DBUser:     "mailer",
		DBPassword: "p@ss",
		DBHost:     "db",
		DBPort:     5433,
		DBName:     "emails",
		DBSSLMode:  "disable",
	}
	assert.Equal(t, "postgres://mailer:p%40ss@db:5433/emails?sslmode=disable", cfg.DSN())
}

func TestValidate(t *testing.T) {
	valid := Config{DBDriver: DriverPostgres, DeliveryBackend: BackendRandom, DeliverySuccessRate: 0.8}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"unknown backend", func(c *Config) { c.DeliveryBackend = "smtp" }, true},
		{"rate above one", func(c *Config) { c.DeliverySuccessRate = 1.5 }, true},
		{"negative rate", func(c *Config) { c.DeliverySuccessRate = -0.1 }, true},
		{"sqlite without url", func(c *Config) { c.DBDriver = DriverSQLite }, true},
		{"sqlite with url", func(c *Config) { c.DBDriver = DriverSQLite; c.DatabaseURL = ":memory:" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
