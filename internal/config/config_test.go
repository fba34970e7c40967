package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse(`
[database]
host = "db"
dbname = "restrictions"
user = "svc"
password = "secret"

[pms_adapter]
url = "http://pms-adapter:8080"
`)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 500, cfg.Restrictions.BatchSize)
	assert.Equal(t, 60, cfg.Restrictions.AutomationLockTTLSeconds)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "host=db port=5432 user=svc password=secret dbname=restrictions sslmode=disable", cfg.Database.DSN())
}

func TestParse_MissingRequired(t *testing.T) {
	_, err := Parse(`
[database]
host = "db"
`)
	assert.Error(t, err)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(`
[database]
host = "db"
dbname = "restrictions"

[pms_adapter]
url = "http://pms"
timeout = 5

[restrictions]
batch_size = 1000
automation_lock_ttl_seconds = 120
`)
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Restrictions.BatchSize)
	assert.Equal(t, 120, cfg.Restrictions.AutomationLockTTLSeconds)
	assert.Equal(t, 5, cfg.PmsAdapter.Timeout)
}
