package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
owner: "0x0000000000000000000000000000000000000001"
pool:
  state_file: "/var/lib/pool/state.json"
attestation:
  endpoint: "https://attest.example.com/v1/records"
payout:
  endpoint: "https://gateway.example.com/payouts"
server:
  listen: ":9000"
schedule:
  snapshot_cron: "0 30 * * * *"
database:
  sqlite_path: "/var/lib/pool/events.db"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0x0000000000000000000000000000000000000001", cfg.Owner)
	assert.Equal(t, "/var/lib/pool/state.json", cfg.Pool.StateFile)
	assert.Equal(t, "https://attest.example.com/v1/records", cfg.Attestation.Endpoint)
	assert.Equal(t, "https://gateway.example.com/payouts", cfg.Payout.Endpoint)
	assert.Equal(t, ":9000", cfg.Server.Listen)
	assert.Equal(t, "0 30 * * * *", cfg.Schedule.SnapshotCron)
	assert.Equal(t, "/var/lib/pool/events.db", cfg.Database.SQLitePath)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data/pool_state.json", cfg.Pool.StateFile)
	assert.Equal(t, ":8547", cfg.Server.Listen)
	assert.Equal(t, "0 0 0 * * *", cfg.Schedule.SnapshotCron)
	assert.Equal(t, "data/repute_pool.db", cfg.Database.SQLitePath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("POOL_OWNER", "0x00000000000000000000000000000000000000ff")
	t.Setenv("PAYOUT_ENDPOINT", "https://other-gateway.example.com")
	t.Setenv("POOL_LISTEN", ":7000")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "0x00000000000000000000000000000000000000ff", cfg.Owner)
	assert.Equal(t, "https://other-gateway.example.com", cfg.Payout.Endpoint)
	assert.Equal(t, ":7000", cfg.Server.Listen)
	// Untouched values still come from the file.
	assert.Equal(t, "https://attest.example.com/v1/records", cfg.Attestation.Endpoint)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.ErrorContains(t, cfg.Validate(), "owner is required")

	cfg.Owner = "not-hex"
	assert.ErrorContains(t, cfg.Validate(), "hex address")

	cfg.Owner = "0x0000000000000000000000000000000000000001"
	assert.ErrorContains(t, cfg.Validate(), "payout.endpoint")

	cfg.Payout.Endpoint = "https://gateway.example.com"
	assert.NoError(t, cfg.Validate())
}

func TestOwnerAddress(t *testing.T) {
	cfg := &Config{Owner: "0x00000000000000000000000000000000000000AA"}
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000000aa"), cfg.OwnerAddress())
}
