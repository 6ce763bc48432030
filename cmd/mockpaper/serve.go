package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/mockpaper/internal/handler"
	appI18n "github.com/pavelanni/mockpaper/internal/i18n"
	"github.com/pavelanni/mockpaper/internal/llm"
	"github.com/pavelanni/mockpaper/internal/metrics"
	"github.com/pavelanni/mockpaper/internal/ratelimit"
	"github.com/pavelanni/mockpaper/internal/store"
)

// shutdownMargin is added to the generation timeout so in-flight
// generations can finish before the server stops.
const shutdownMargin = 10 * time.Second

func shutdownTimeout(llmTimeout time.Duration) time.Duration {
	if llmTimeout <= 0 {
		llmTimeout = handler.DefaultGenerateTimeout
	}
	return llmTimeout + shutdownMargin
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "mockpaper.db", "SQLite database path for generated papers (empty disables storage)")
	f.String("llm-url", llm.DefaultBaseURL, "OpenAI-compatible API base URL")
	f.String("llm-key", "", "API key (or set ANTHROPIC_API_KEY)")
	f.String("llm-model", llm.DefaultModel, "Model name")
	f.Int("llm-max-tokens", llm.DefaultMaxTokens, "Maximum tokens per reply")
	f.Duration("llm-timeout", handler.DefaultGenerateTimeout, "Timeout for a single generation call")
	f.Int("rate-limit", ratelimit.DefaultLimit, "Generations allowed per client per window")
	f.Duration("rate-window", ratelimit.DefaultWindow, "Rate limit window")
	f.Int("rate-max-keys", 10000, "Clients tracked by the in-memory limiter (0 = unbounded)")
	f.String("redis-addr", "", "Redis address for a shared rate limiter (empty = in-memory)")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database number")
	f.String("admin-password", "", "Password for the /admin routes (empty disables them)")
	f.StringP("lang", "l", "en", "UI language (en, ru)")
	addLogFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	if v.GetString("llm-key") == "" {
		slog.Warn("no API key configured, generation requests will fail",
			"hint", "set ANTHROPIC_API_KEY or --llm-key")
	}
	llmClient := llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
		v.GetInt("llm-max-tokens"),
	)

	var db *store.Store
	if path := v.GetString("db"); path != "" {
		var err error
		db, err = store.New(path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.SetMetadata("llm_model", llmClient.Model()); err != nil {
			return fmt.Errorf("record model: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	limiter, err := newLimiter(ctx, v, m)
	if err != nil {
		return err
	}

	var adminHash []byte
	if pw := v.GetString("admin-password"); pw != "" {
		adminHash, err = handler.HashAdminPassword(pw)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
	}

	h := handler.New(db, llmClient, limiter, m, handler.Config{
		GenerateTimeout:   v.GetDuration("llm-timeout"),
		AdminPasswordHash: adminHash,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	addr := v.GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("starting server",
		"addr", addr,
		"model", llmClient.Model(),
		"llm_url", v.GetString("llm-url"),
		"lang", lang,
		"rate_limit", v.GetInt("rate-limit"),
		"rate_window", v.GetDuration("rate-window"),
		"storage", db != nil,
		"admin", adminHash != nil,
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	grace := shutdownTimeout(v.GetDuration("llm-timeout"))
	slog.Info("shutting down", "grace", grace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newLimiter returns a Redis limiter when redis-addr is set, otherwise an
// in-memory limiter swept in the background until ctx ends.
func newLimiter(ctx context.Context, v *viper.Viper, m *metrics.Metrics) (ratelimit.Limiter, error) {
	opts := []ratelimit.Option{
		ratelimit.WithLimit(v.GetInt("rate-limit")),
		ratelimit.WithWindow(v.GetDuration("rate-window")),
		ratelimit.WithMaxKeys(v.GetInt("rate-max-keys")),
	}

	if addr := v.GetString("redis-addr"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: v.GetString("redis-password"),
			DB:       v.GetInt("redis-db"),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
		}
		go func() {
			<-ctx.Done()
			_ = client.Close()
		}()
		slog.Info("using redis rate limiter", "addr", addr)
		return ratelimit.NewRedis(client, opts...), nil
	}

	mem := ratelimit.NewMemory(opts...)
	m.TrackKeys(mem.Len)
	go mem.Run(ctx, time.Minute)
	return mem, nil
}
