package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	S3            S3Config
	Understanding UnderstandingConfig
	Containers    ContainersConfig
	Log           LogConfig
	CORS          CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// S3Config holds object storage connection settings. The bucket is
// selected per request by the storage_account_name parameter, so only
// connection settings live here.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// UnderstandingConfig holds content-understanding service settings.
type UnderstandingConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	APIVersion        string        `mapstructure:"api_version"`
	SubscriptionKey   string        `mapstructure:"subscription_key"`
	ClientID          string        `mapstructure:"client_id"`
	ClientSecret      string        `mapstructure:"client_secret"`
	TenantID          string        `mapstructure:"tenant_id"`
	TokenURL          string        `mapstructure:"token_url"`
	Scope             string        `mapstructure:"scope"`
	DefaultClassifier string        `mapstructure:"default_classifier"`
	PollTimeout       time.Duration `mapstructure:"poll_timeout"`
	PollInterval      time.Duration `mapstructure:"poll_interval"`
}

// ContainersConfig names the working containers (key prefixes) within a
// storage account bucket.
type ContainersConfig struct {
	Incoming    string   `mapstructure:"incoming"`
	Results     string   `mapstructure:"results"`
	Summary     string   `mapstructure:"summary"`
	Spreadsheet string   `mapstructure:"spreadsheet"`
	Processed   string   `mapstructure:"processed"`
	Cleanup     []string `mapstructure:"cleanup"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the DOCPIPE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")

	// Content-understanding defaults
	v.SetDefault("understanding.endpoint", "")
	v.SetDefault("understanding.api_version", "2025-05-01-preview")
	v.SetDefault("understanding.subscription_key", "")
	v.SetDefault("understanding.client_id", "")
	v.SetDefault("understanding.client_secret", "")
	v.SetDefault("understanding.tenant_id", "")
	v.SetDefault("understanding.token_url", "")
	v.SetDefault("understanding.scope", "https://cognitiveservices.azure.com/.default")
	v.SetDefault("understanding.default_classifier", "")
	v.SetDefault("understanding.poll_timeout", "920s")
	v.SetDefault("understanding.poll_interval", "25s")

	// Container defaults mirror the deployed container layout.
	v.SetDefault("containers.incoming", "incoming-docs")
	v.SetDefault("containers.results", "enhanced-results")
	v.SetDefault("containers.summary", "summary-reports")
	v.SetDefault("containers.spreadsheet", "excel-result")
	v.SetDefault("containers.processed", "processed-docs")
	v.SetDefault("containers.cleanup", "enhanced-results,summary-reports,excel-result")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "DOCPIPE_SERVER_PORT",
		"server.read_timeout":              "DOCPIPE_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "DOCPIPE_SERVER_WRITE_TIMEOUT",
		"server.environment":               "DOCPIPE_SERVER_ENVIRONMENT",
		"s3.region":                        "DOCPIPE_S3_REGION",
		"s3.endpoint":                      "DOCPIPE_S3_ENDPOINT",
		"s3.access_key":                    "DOCPIPE_S3_ACCESS_KEY",
		"s3.secret_key":                    "DOCPIPE_S3_SECRET_KEY",
		"understanding.endpoint":           "DOCPIPE_UNDERSTANDING_ENDPOINT",
		"understanding.api_version":        "DOCPIPE_UNDERSTANDING_API_VERSION",
		"understanding.subscription_key":   "DOCPIPE_UNDERSTANDING_SUBSCRIPTION_KEY",
		"understanding.client_id":          "DOCPIPE_UNDERSTANDING_CLIENT_ID",
		"understanding.client_secret":      "DOCPIPE_UNDERSTANDING_CLIENT_SECRET",
		"understanding.tenant_id":          "DOCPIPE_UNDERSTANDING_TENANT_ID",
		"understanding.token_url":          "DOCPIPE_UNDERSTANDING_TOKEN_URL",
		"understanding.scope":              "DOCPIPE_UNDERSTANDING_SCOPE",
		"understanding.default_classifier": "DOCPIPE_UNDERSTANDING_DEFAULT_CLASSIFIER",
		"understanding.poll_timeout":       "DOCPIPE_UNDERSTANDING_POLL_TIMEOUT",
		"understanding.poll_interval":      "DOCPIPE_UNDERSTANDING_POLL_INTERVAL",
		"containers.incoming":              "DOCPIPE_CONTAINERS_INCOMING",
		"containers.results":               "DOCPIPE_CONTAINERS_RESULTS",
		"containers.summary":               "DOCPIPE_CONTAINERS_SUMMARY",
		"containers.spreadsheet":           "DOCPIPE_CONTAINERS_SPREADSHEET",
		"containers.processed":             "DOCPIPE_CONTAINERS_PROCESSED",
		"containers.cleanup":               "DOCPIPE_CONTAINERS_CLEANUP",
		"log.level":                        "DOCPIPE_LOG_LEVEL",
		"log.format":                       "DOCPIPE_LOG_FORMAT",
		"cors.allowed_origins":             "DOCPIPE_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DOCPIPE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCPIPE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Understanding = UnderstandingConfig{
		Endpoint:          v.GetString("understanding.endpoint"),
		APIVersion:        v.GetString("understanding.api_version"),
		SubscriptionKey:   v.GetString("understanding.subscription_key"),
		ClientID:          v.GetString("understanding.client_id"),
		ClientSecret:      v.GetString("understanding.client_secret"),
		TenantID:          v.GetString("understanding.tenant_id"),
		TokenURL:          v.GetString("understanding.token_url"),
		Scope:             v.GetString("understanding.scope"),
		DefaultClassifier: v.GetString("understanding.default_classifier"),
		PollTimeout:       v.GetDuration("understanding.poll_timeout"),
		PollInterval:      v.GetDuration("understanding.poll_interval"),
	}
	cfg.Containers = ContainersConfig{
		Incoming:    v.GetString("containers.incoming"),
		Results:     v.GetString("containers.results"),
		Summary:     v.GetString("containers.summary"),
		Spreadsheet: v.GetString("containers.spreadsheet"),
		Processed:   v.GetString("containers.processed"),
		Cleanup:     splitList(v.GetString("containers.cleanup")),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	return cfg, nil
}

// splitList parses a comma-separated string into a trimmed slice.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
