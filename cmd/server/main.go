package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yangwenmai/listdo/internal/api"
	"github.com/yangwenmai/listdo/internal/assistant"
	"github.com/yangwenmai/listdo/internal/config"
	"github.com/yangwenmai/listdo/internal/engine"
	"github.com/yangwenmai/listdo/internal/executor"
	"github.com/yangwenmai/listdo/internal/identity"
	"github.com/yangwenmai/listdo/internal/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log.Development)
	defer logger.Sync()

	// Open SQLite.
	db, err := store.OpenSQLite(cfg.DB.Path)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	// Initialize store.
	s, err := store.New(db)
	if err != nil {
		logger.Fatal("init store", zap.Error(err))
	}

	mc := newModelClient(cfg, logger)

	asst := assistant.New(s,
		engine.NewClassifier(mc, logger),
		executor.New(s, logger),
		engine.NewSuggester(mc, cfg.Suggestions.Max, logger),
		cfg.LLM.Timeout,
		logger)

	srv := api.New(asst, s, newResolver(cfg), logger)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
	}()

	fmt.Printf("listdo server listening on http://localhost:%s\n", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(development bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// newModelClient builds the configured provider client, falling back to
// the stub when no API key is available.
func newModelClient(cfg *config.Config, logger *zap.Logger) engine.ModelClient {
	if cfg.UseStubs() {
		logger.Info("no model API key configured, using stub client")
		return &engine.StubModelClient{}
	}

	switch cfg.LLM.Provider {
	case "claude":
		var opts []engine.ClaudeOption
		if cfg.LLM.Model != "" {
			opts = append(opts, engine.WithClaudeModel(cfg.LLM.Model))
		}
		logger.Info("using Claude model client")
		return engine.NewClaudeClient(cfg.LLM.APIKey, opts...)
	case "gemini":
		var opts []engine.GeminiOption
		if cfg.LLM.Model != "" {
			opts = append(opts, engine.WithGeminiModel(cfg.LLM.Model))
		}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, engine.WithGeminiBaseURL(cfg.LLM.BaseURL))
		}
		logger.Info("using Gemini model client")
		return engine.NewGeminiClient(cfg.LLM.APIKey, opts...)
	case "ollama":
		var opts []engine.OllamaOption
		if cfg.LLM.Model != "" {
			opts = append(opts, engine.WithOllamaModel(cfg.LLM.Model))
		}
		logger.Info("using Ollama model client")
		return engine.NewOllamaClient(cfg.LLM.BaseURL, opts...)
	default:
		var opts []engine.OpenAIOption
		if cfg.LLM.Model != "" {
			opts = append(opts, engine.WithModel(cfg.LLM.Model))
		}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, engine.WithBaseURL(cfg.LLM.BaseURL))
		}
		logger.Info("using OpenAI model client")
		return engine.NewOpenAIClient(cfg.LLM.APIKey, opts...)
	}
}

// newResolver picks the identity strategy. Header mode expects an
// authenticating proxy to set the configured header.
func newResolver(cfg *config.Config) identity.Resolver {
	if cfg.Identity.Mode == "header" {
		return identity.Header{Name: cfg.Identity.Header}
	}
	return identity.Static{Owner: cfg.Identity.Owner}
}
