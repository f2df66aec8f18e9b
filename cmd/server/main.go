// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/starksinclair/Multi-LLM-Agent-system/internal/common/config"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/common/database"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/common/logger"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/common/observability"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/history"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/llm"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/pipeline"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/server"
	"github.com/starksinclair/Multi-LLM-Agent-system/pkg/registry"

	refinequery "github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/refine-query"
	"github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/research"
	validateanswer "github.com/starksinclair/Multi-LLM-Agent-system/internal/agents/validate-answer"
	pubmedsearch "github.com/starksinclair/Multi-LLM-Agent-system/internal/search/pubmed-search"
	websearch "github.com/starksinclair/Multi-LLM-Agent-system/internal/search/web-search"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting medical qa service", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// Redis backs the search-result cache. The service runs without it.
	var cache *redis.Client
	if cfg.Pipeline.CachingEnabled {
		redisClient, err := retryWithBackoff(log, "redis", func() (*database.RedisClient, error) {
			c, err := database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return nil, err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.Ping(ctx); err != nil {
				c.Close()
				return nil, err
			}
			return c, nil
		})
		if err != nil {
			log.Warn("redis unavailable, search caching disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = redisClient.GetClient()
			defer redisClient.Close()
		}
	}

	// Postgres and Elasticsearch back the answer history. Both optional.
	var (
		store       *history.Store
		index       *history.Index
		readyChecks = map[string]server.HealthChecker{}
	)
	if cache != nil {
		readyChecks["redis"] = func(ctx context.Context) error {
			return cache.Ping(ctx).Err()
		}
	}
	if cfg.History.Enabled {
		pg, err := retryWithBackoff(log, "postgres", func() (*database.PostgresClient, error) {
			c, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return nil, err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.Ping(ctx); err != nil {
				c.Close()
				return nil, err
			}
			return c, nil
		})
		if err != nil {
			log.Error("postgres unavailable, history disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer pg.Close()
			store = history.NewStore(pg.GetDB(), cfg.History.Table)
			readyChecks["postgres"] = pg.Ping
		}

		es, err := retryWithBackoff(log, "elasticsearch", func() (*database.ElasticsearchClient, error) {
			c, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return nil, err
			}
			if err := c.Ping(); err != nil {
				return nil, err
			}
			return c, nil
		})
		if err != nil {
			log.Error("elasticsearch unavailable, history search disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			index = history.NewIndex(es.Client, cfg.History.Index)
			readyChecks["elasticsearch"] = es.Info
		}
	}

	providers := buildProviders(cfg, log)

	stageTimeout := config.GetDuration(cfg.Pipeline.StageTimeout)

	refineConfig := refinequery.DefaultConfig()
	refineConfig.MaxRetries = cfg.Pipeline.MaxRetries
	refineConfig.Timeout = stageTimeout
	refiner := refinequery.NewHandler(refineConfig, providers["query-refiner"], refineLog{base(log)})

	webConfig := websearch.DefaultConfig()
	webConfig.BaseURL = cfg.APIs.SerpAPI.BaseURL
	webConfig.APIKey = cfg.APIs.SerpAPI.APIKey
	webConfig.Engine = cfg.APIs.SerpAPI.Engine
	webConfig.MaxResults = cfg.APIs.SerpAPI.MaxResults
	webConfig.Timeout = config.GetDuration(cfg.APIs.SerpAPI.Timeout)
	webConfig.CacheTTL = time.Duration(cfg.Pipeline.CacheTTL) * time.Second
	webConfig.Keyword = cfg.Pipeline.SearchKeyword
	webSearch := websearch.NewHandler(webConfig, cache, webLog{base(log)})

	pubmedConfig := pubmedsearch.DefaultConfig()
	pubmedConfig.SearchURL = cfg.APIs.PubMed.SearchURL
	pubmedConfig.FetchURL = cfg.APIs.PubMed.FetchURL
	pubmedConfig.MaxResults = cfg.APIs.PubMed.MaxResults
	pubmedConfig.CacheTTL = time.Duration(cfg.Pipeline.CacheTTL) * time.Second
	litSearch := pubmedsearch.NewHandler(pubmedConfig, cache, pubmedLog{base(log)})

	researchConfig := research.DefaultConfig()
	researchConfig.MaxRetries = cfg.Pipeline.MaxRetries
	researchConfig.Timeout = stageTimeout
	researcher := research.NewHandler(researchConfig, providers["researcher"], researchLog{base(log)})

	validatorConfig := validateanswer.DefaultConfig()
	validatorConfig.MaxRetries = cfg.Pipeline.MaxRetries
	validatorConfig.Timeout = stageTimeout
	validator := validateanswer.NewHandler(validatorConfig, providers["validator"], validateLog{base(log)})

	var recorder pipeline.Recorder
	if store != nil || index != nil {
		recorder = history.NewRecorder(store, index, historyLog{base(log)})
	}

	controller := pipeline.NewController(
		refiner, webSearch, litSearch, researcher, validator, recorder, obs,
		pipelineLog{base(log)},
	)

	srv := server.New(server.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		MaxRecent:    cfg.History.MaxRecent,
	}, controller, store, index, readyChecks, serverLog{base(log)})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("http server failed", map[string]interface{}{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.Error("graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	log.Info("service stopped", nil)
}

// buildProviders assigns an LLM provider to each pipeline role. The role
// registry file overrides the defaults; missing provider keys fall back
// to Gemini so the service stays operational.
func buildProviders(cfg *config.Config, log logger.Logger) map[string]llm.Provider {
	gemini := llm.NewGemini(llm.GeminiConfig{
		BaseURL:     cfg.APIs.Gemini.BaseURL,
		APIKey:      cfg.APIs.Gemini.APIKey,
		Model:       cfg.APIs.Gemini.Model,
		Temperature: cfg.APIs.Gemini.Temperature,
		MaxTokens:   cfg.APIs.Gemini.MaxTokens,
		Timeout:     config.GetDuration(cfg.APIs.Gemini.Timeout),
	})

	byName := map[string]llm.Provider{"gemini": gemini}

	if cfg.APIs.DeepSeek.APIKey != "" {
		byName["deepseek"] = llm.NewDeepSeek(llm.ChatConfig{
			BaseURL:     cfg.APIs.DeepSeek.BaseURL,
			APIKey:      cfg.APIs.DeepSeek.APIKey,
			Model:       cfg.APIs.DeepSeek.Model,
			Temperature: cfg.APIs.DeepSeek.Temperature,
			MaxTokens:   cfg.APIs.DeepSeek.MaxTokens,
			Timeout:     config.GetDuration(cfg.APIs.DeepSeek.Timeout),
		})
	}
	if cfg.APIs.OpenAI.APIKey != "" {
		byName["openai"] = llm.NewOpenAI(llm.ChatConfig{
			BaseURL:     cfg.APIs.OpenAI.BaseURL,
			APIKey:      cfg.APIs.OpenAI.APIKey,
			Model:       cfg.APIs.OpenAI.Model,
			Temperature: cfg.APIs.OpenAI.Temperature,
			MaxTokens:   cfg.APIs.OpenAI.MaxTokens,
			Timeout:     config.GetDuration(cfg.APIs.OpenAI.Timeout),
		})
	}

	// Default role assignment: Gemini refines and validates, DeepSeek
	// researches.
	roles := map[string]string{
		"query-refiner": "gemini",
		"researcher":    "deepseek",
		"validator":     "gemini",
	}

	if reg, err := registry.LoadRegistry(cfg.Pipeline.RegistryPath); err == nil {
		for _, agent := range reg.Agents {
			if agent.Provider != "" {
				roles[agent.Role] = agent.Provider
			}
		}
	} else {
		log.Warn("agent registry not loaded, using default role assignment", map[string]interface{}{
			"path":  cfg.Pipeline.RegistryPath,
			"error": err.Error(),
		})
	}

	assigned := map[string]llm.Provider{}
	for role, name := range roles {
		provider, ok := byName[name]
		if !ok {
			log.Warn("provider not configured for role, falling back to gemini", map[string]interface{}{
				"role":     role,
				"provider": name,
			})
			provider = gemini
		}
		assigned[role] = provider
	}
	return assigned
}

// retryWithBackoff retries client initialization with exponential backoff.
func retryWithBackoff[T any](log logger.Logger, name string, init func() (T, error)) (T, error) {
	var client T
	var err error

	for attempt := 1; attempt <= 5; attempt++ {
		client, err = init()
		if err == nil {
			return client, nil
		}
		backoff := time.Duration(500*(1<<(attempt-1))) * time.Millisecond
		log.Warn("client initialization failed, retrying", map[string]interface{}{
			"client":  name,
			"attempt": attempt,
			"backoff": backoff.String(),
			"error":   err.Error(),
		})
		time.Sleep(backoff)
	}
	return client, err
}
