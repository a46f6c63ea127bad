package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NotEmpty(t, cfg.Roles)
	assert.Contains(t, cfg.Roles, cfg.DefaultRole)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
roles:
  stagehand:
    overtimeThresholdHours: 8
    minimumBreakMinutes: 45
defaultRole: stagehand
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	pol := cfg.PolicyFor("stagehand")
	assert.Equal(t, 8.0, pol.OvertimeThresholdHours)
	assert.Equal(t, 45*time.Minute, pol.MinimumBreak)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPolicyForUnknownRoleFallsBack(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, cfg.PolicyFor(cfg.DefaultRole), cfg.PolicyFor("never-heard-of-it"))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DSN", "user:pass@tcp(db:3306)/timecard")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "user:pass@tcp(db:3306)/timecard", cfg.Database.DSN)
}
