package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: underwriting
    user: worker
  redis:
    address: localhost:6379
workers:
  evaluate-submission:
    timeout: 10000
`

// ==========================
// LoadFromFile
// ==========================

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, "label_encoder.json", cfg.Artifacts.LabelEncoder)
	assert.Equal(t, int64(300_000_000), cfg.Eligibility.RevenueLimit)
	assert.Equal(t, 3, cfg.Eligibility.LineClaimsLimit)
	assert.Equal(t, 3600, cfg.Underwriting.DecisionCacheTTL)
	assert.Equal(t, "underwriting-decisions", cfg.Underwriting.DecisionIndex)
	assert.Equal(t, ":8080", cfg.Server.Address)

	worker := GetWorkerConfig(cfg, "evaluate-submission")
	assert.Equal(t, 10000, worker.Timeout)
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 3, worker.MaxRetries)
}

func TestLoadFromFile_ExpandsEnvironment(t *testing.T) {
	t.Setenv("UW_TEST_BROKER", "zeebe:26500")
	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: ${UW_TEST_BROKER}
database:
  postgres:
    host: db
    database: underwriting
    user: worker
  redis:
    address: redis:6379
`))
	require.NoError(t, err)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{
			name: "sns without topic",
			extra: `
integrations:
  aws:
    sns:
      enabled: true
`,
			wantErr: "decision_topic_arn",
		},
		{
			name: "short naics",
			extra: `
eligibility:
  excluded_naics: ["5221"]
`,
			wantErr: "6-digit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DECISION_TOPIC_ARN", "")
			_, err := LoadFromFile(writeConfig(t, minimalConfig+tt.extra))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingBroker(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, `
database:
  postgres:
    host: localhost
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camunda.broker_address")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// ==========================
// Helpers
// ==========================

func TestGetWorkerConfig_Fallback(t *testing.T) {
	w := GetWorkerConfig(&Config{}, "unknown")
	assert.True(t, w.Enabled)
	assert.Equal(t, 30000, w.Timeout)
}

func TestArtifactPath(t *testing.T) {
	a := ArtifactsConfig{Dir: "/models"}
	assert.Equal(t, filepath.Join("/models", "scaler.json"), a.ArtifactPath("scaler.json"))
	assert.Equal(t, "/abs/classifier.json", a.ArtifactPath("/abs/classifier.json"))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "1.5s", GetDuration(1500).String())
}
