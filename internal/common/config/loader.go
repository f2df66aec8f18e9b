// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	// Load .env file if present. Real environment variables win.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine, defaults plus environment carry us.
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		value := v.GetString(key)
		if strings.Contains(value, "${") {
			v.Set(key, os.ExpandEnv(value))
		}
	}
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "medical-qa-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 120000)

	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "medqa")
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.max_connections", 10)
	v.SetDefault("database.postgres.max_idle", 5)
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("database.elasticsearch.addresses", []string{"http://localhost:9200"})

	v.SetDefault("apis.gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("apis.gemini.model", "gemini-2.0-flash")
	v.SetDefault("apis.gemini.temperature", 0.3)
	v.SetDefault("apis.gemini.max_tokens", 1000)
	v.SetDefault("apis.gemini.timeout", 60000)

	v.SetDefault("apis.deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("apis.deepseek.model", "deepseek-reasoner")
	v.SetDefault("apis.deepseek.temperature", 0.7)
	v.SetDefault("apis.deepseek.max_tokens", 1000)
	v.SetDefault("apis.deepseek.timeout", 120000)

	v.SetDefault("apis.openai.base_url", "https://api.openai.com")
	v.SetDefault("apis.openai.model", "gpt-4o-mini")
	v.SetDefault("apis.openai.temperature", 0.3)
	v.SetDefault("apis.openai.max_tokens", 1000)
	v.SetDefault("apis.openai.timeout", 60000)

	v.SetDefault("apis.serpapi.base_url", "https://serpapi.com/search")
	v.SetDefault("apis.serpapi.engine", "google")
	v.SetDefault("apis.serpapi.max_results", 5)
	v.SetDefault("apis.serpapi.timeout", 15000)

	v.SetDefault("apis.pubmed.search_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi")
	v.SetDefault("apis.pubmed.fetch_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi")
	v.SetDefault("apis.pubmed.max_results", 5)
	v.SetDefault("apis.pubmed.timeout", 15000)

	v.SetDefault("pipeline.stage_timeout", 60000)
	v.SetDefault("pipeline.max_retries", 3)
	v.SetDefault("pipeline.cache_ttl", 1800)
	v.SetDefault("pipeline.registry_path", "configs/agents.json")
	v.SetDefault("pipeline.search_keyword", "medical")
	v.SetDefault("pipeline.caching_enabled", true)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.table", "answer_history")
	v.SetDefault("history.index", "medical-answers")
	v.SetDefault("history.max_recent", 20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// overrideEmptyConfig fills secrets from plain environment variables when
// the config file left them empty. Keeps api keys out of checked-in yaml.
func overrideEmptyConfig(cfg *Config) {
	if cfg.APIs.Gemini.APIKey == "" {
		cfg.APIs.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIs.DeepSeek.APIKey == "" {
		cfg.APIs.DeepSeek.APIKey = os.Getenv("DEEPSEEK_API_KEY")
	}
	if cfg.APIs.OpenAI.APIKey == "" {
		cfg.APIs.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIs.SerpAPI.APIKey == "" {
		cfg.APIs.SerpAPI.APIKey = os.Getenv("SERPAPI_KEY")
	}
	if cfg.Database.Postgres.Password == "" {
		cfg.Database.Postgres.Password = os.Getenv("POSTGRES_PASSWORD")
	}
	if cfg.Database.Redis.Password == "" {
		cfg.Database.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Address = ":" + v
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if cfg.APIs.Gemini.APIKey == "" {
		return fmt.Errorf("apis.gemini.api_key is required (set GEMINI_API_KEY)")
	}
	if cfg.Pipeline.MaxRetries < 1 {
		return fmt.Errorf("pipeline.max_retries must be at least 1")
	}
	if cfg.History.Enabled && cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required when history is enabled")
	}
	return nil
}

// GetDuration converts a millisecond config value to a time.Duration.
func GetDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
