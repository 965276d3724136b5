package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"evaluator/internal/config"
	"evaluator/internal/dialogue"
	"evaluator/internal/handler"
	"evaluator/internal/logging"
	"evaluator/internal/repository"
	"evaluator/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "evaluator server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("privacy evaluator",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)
	for _, w := range cfg.Warnings {
		logger.Warn("configuration", zap.String("warning", w))
	}

	// Initialize the evaluation log
	var evaluations service.EvaluationRepository
	if cfg.EvaluationLogEnabled() {
		repo, err := repository.Open(cfg)
		if err != nil {
			return fmt.Errorf("failed to open evaluation log: %w", err)
		}
		defer repo.Close()
		evaluations = repo
		logger.Info("evaluation log enabled", zap.String("driver", cfg.Store.Driver))
	} else {
		logger.Info("evaluation log disabled", zap.String("hint", "set EVALUATION_LOG_DRIVER to postgres or sqlite"))
	}

	// Initialize OpenAI client
	openaiClient := service.NewOpenAIClient(&cfg.OpenAI, logger)
	if cfg.OpenAI.Enabled {
		logger.Info("language model enabled",
			zap.String("api_base", cfg.OpenAI.APIBase),
			zap.String("chat_model", cfg.OpenAI.ChatModel),
			zap.Float64("chat_temperature", cfg.OpenAI.ChatTemperature),
			zap.Int("chat_max_tokens", cfg.OpenAI.ChatMaxTokens),
		)
	} else {
		logger.Warn("language model disabled, answers are matched by phrase rules",
			zap.String("hint", "set OPENAI_API_KEY to enable extraction and explanations"))
	}

	// Initialize services
	store := dialogue.NewStore(cfg.Session.TTL, logger.Named("store"))
	chat := service.NewEvaluator(openaiClient, nil, store, evaluations, logger)
	defer chat.Close()

	router := newRouter(cfg, chat, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("api", "/api/v1"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return store.Run(ctx, cfg.Session.SweepInterval)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newRouter builds the gin engine with middleware, health endpoints, the API and the web page
func newRouter(cfg *config.Config, chat *service.ChatService, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger.Named("http")))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "healthy",
			"service":       "privacy-evaluator",
			"version":       Version,
			"build_time":    BuildTime,
			"git_commit":    GitCommit,
			"llm_enabled":   cfg.OpenAI.Enabled,
			"evaluation_db": cfg.Store.Driver,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	handler.Register(router.Group("/api/v1"), chat, logger)

	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router, logger)

	return router
}

// requestLogger logs each request with zap
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
