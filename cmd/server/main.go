package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"keywatch/internal/custody"
	"keywatch/internal/engine"
	"keywatch/internal/menu"
	"keywatch/internal/notify/dispatch"
	"keywatch/internal/notify/sender/logsender"
	"keywatch/internal/notify/sender/redisoutbox"
	"keywatch/internal/platform/config"
	"keywatch/internal/platform/httpserver"
	"keywatch/internal/platform/logger"
	"keywatch/internal/platform/metrics"
	redisclient "keywatch/internal/platform/redis"
	"keywatch/internal/presence/registry"
	"keywatch/internal/scheduler"
	httptransport "keywatch/internal/transport/http"
)

// main wires dependencies, serves HTTP and runs the reset scheduler until a
// signal arrives.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	fs := pflag.NewFlagSet("keywatch", pflag.ExitOnError)
	cfg.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	handlerOpts := []httptransport.Option{
		httptransport.WithLogger(log),
		httptransport.WithMetrics(m, reg),
	}

	var sender dispatch.Sender = logsender.New(log)
	if cfg.Sender == config.SenderRedis {
		rc, err := redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rc.Close()
		sender = redisoutbox.New(rc.Client,
			redisoutbox.WithStream(cfg.Outbox.Stream),
			redisoutbox.WithDedupeTTL(cfg.Outbox.DedupeTTL),
		)
		handlerOpts = append(handlerOpts, httptransport.WithHealthCheck("redis", rc.Health))
	}

	dispatcher, err := dispatch.New(sender,
		dispatch.WithLogger(log),
		dispatch.WithMetrics(m),
		dispatch.WithRetry(cfg.Dispatch.MaxRetries, cfg.Dispatch.InitialBackoff, cfg.Dispatch.MaxBackoff),
		dispatch.WithParallelism(cfg.Dispatch.Parallelism),
		dispatch.WithAsyncBuffer(cfg.Dispatch.Buffer),
	)
	if err != nil {
		return err
	}

	selector, err := loadMenu(cfg.Menu)
	if err != nil {
		return err
	}

	eng, err := engine.New(registry.New(), custody.NewTable(), dispatcher,
		engine.WithLogger(log),
		engine.WithMetrics(m),
		engine.WithMenuSelector(selector),
	)
	if err != nil {
		return err
	}

	tz, err := cfg.Location()
	if err != nil {
		return err
	}
	sched, err := scheduler.New(eng,
		scheduler.WithLogger(log),
		scheduler.WithSchedule(cfg.Reset.Schedule),
		scheduler.WithLocation(tz),
	)
	if err != nil {
		return err
	}
	sched.Start()

	srv := httpserver.New(cfg.Addr, httptransport.New(eng, handlerOpts...).Router())
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting keywatch", "addr", cfg.Addr, "sender", cfg.Sender, "next_reset", sched.Next())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Error("scheduler stop timed out", "error", err)
	}
	// Drain queued notifications after the last request has committed.
	dispatcher.Close()
	return nil
}

func loadMenu(cfg config.MenuConfig) (*menu.Selector, error) {
	table := menu.DefaultTable()
	if cfg.TablePath != "" {
		var err error
		if table, err = menu.LoadFile(cfg.TablePath, true); err != nil {
			return nil, err
		}
	}
	return menu.NewSelector(table)
}
