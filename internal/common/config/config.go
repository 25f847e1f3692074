// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Artifacts    ArtifactsConfig         `mapstructure:"artifacts"`
	Eligibility  EligibilityConfig       `mapstructure:"eligibility"`
	Underwriting UnderwritingConfig      `mapstructure:"underwriting"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Server       ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Underwriting Configuration ---

// ArtifactsConfig locates the pre-fitted model exports. File names are
// resolved relative to Dir unless absolute.
type ArtifactsConfig struct {
	Dir          string `mapstructure:"dir"`
	LabelEncoder string `mapstructure:"label_encoder"`
	Scaler       string `mapstructure:"scaler"`
	Classifier   string `mapstructure:"classifier"`
}

// EligibilityConfig holds the gate thresholds and the excluded NAICS codes.
type EligibilityConfig struct {
	ExcludedNAICS      []string `mapstructure:"excluded_naics"`
	RevenueLimit       int64    `mapstructure:"revenue_limit"`
	EmployeeLimit      int64    `mapstructure:"employee_limit"`
	PaidClaimsLimit    int64    `mapstructure:"paid_claims_limit"`
	LineClaimsLimit    int      `mapstructure:"line_claims_limit"`
	AccountClaimsLimit int      `mapstructure:"account_claims_limit"`
}

type UnderwritingConfig struct {
	DecisionCacheTTL   int    `mapstructure:"decision_cache_ttl"` // seconds
	EnforceEligibility bool   `mapstructure:"enforce_eligibility"`
	DecisionIndex      string `mapstructure:"decision_index"`
	DecisionTopicARN   string `mapstructure:"decision_topic_arn"`
}

// IntegrationConfig holds settings for external services.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SNS    struct {
			Enabled bool `mapstructure:"enabled"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig is the health/metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}
