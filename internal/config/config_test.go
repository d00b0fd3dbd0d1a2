package config

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []string{"gdpr"}, cfg.Risk.RequiredCompliance)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("RISK_HIGH_VALUE_THRESHOLD", "250000.50")
	t.Setenv("RISK_EXPIRY_WINDOW_DAYS", "14")
	t.Setenv("RISK_REQUIRED_COMPLIANCE", "GDPR, soc2,,")
	t.Setenv("MIGRATIONS", "no")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.App.Migrations)
	require.NoError(t, cfg.Validate())

	rules, err := cfg.Risk.Rules()
	require.NoError(t, err)
	assert.True(t, rules.HighValueThreshold.Equal(decimal.RequireFromString("250000.5")))
	assert.Equal(t, 14*24*time.Hour, rules.ExpiryWindow)
	assert.Equal(t, []string{"gdpr", "soc2"}, rules.RequiredCompliance)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"driver", "DB_DRIVER", "mysql"},
		{"log format", "LOG_FORMAT", "xml"},
		{"threshold", "RISK_HIGH_VALUE_THRESHOLD", "lots"},
		{"window", "RISK_EXPIRY_WINDOW_DAYS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			assert.Error(t, Load().Validate())
		})
	}

	t.Setenv("DB_DRIVER", "mysql")
	assert.True(t, errors.Is(Load().Validate(), ErrInvalidConfig))
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", d.DSN())
}
