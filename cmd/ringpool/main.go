// Command ringpool drives a worker pool with synthetic producers and reports
// how many tasks were accepted, shed, and executed.
//
// Usage:
//
//	go run ./cmd/ringpool -threads 4 -capacity 64 -producers 8 -n 10000
//	go run ./cmd/ringpool -config ringpool.yaml -metrics :9102
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/KimMachineGun/automemlimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/ringpool/internal/config"
	"github.com/randomizedcoder/ringpool/internal/pool"
	"github.com/randomizedcoder/ringpool/internal/tick"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ringpool:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(cfg.LogLevel).
		With().Timestamp().Logger()

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug().Msgf(format, args...)
	}))
	defer undo()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to set GOMAXPROCS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p, err := pool.New(cfg.Threads, cfg.Capacity,
		pool.WithLogger(logger),
		pool.WithRegisterer(reg),
		pool.WithContext(ctx),
	)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
	}

	fmt.Printf("Driving worker pool (%d workers, capacity=%d, %d producers x %d tasks)\n",
		p.Workers(), p.Capacity(), cfg.Producers, cfg.Tasks)
	fmt.Println("─────────────────────────────────────────────────")

	st := &stats{}
	ticker := tick.NewAtomicTicker(cfg.Report)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for id := range cfg.Producers {
		g.Go(func() error {
			return produce(gctx, p, cfg, id, ticker, st, logger)
		})
	}
	prodErr := g.Wait()

	p.Join()
	elapsed := time.Since(start)

	failures := p.Failures()
	for _, f := range failures {
		logger.Warn().Err(f).Msg("task failure")
	}

	st.print(elapsed, len(failures))

	switch {
	case prodErr == nil:
	case errors.Is(prodErr, context.Canceled), errors.Is(prodErr, pool.ErrPoolClosed):
		// accepted tasks still ran, so the accounting below holds
		logger.Warn().Msg("interrupted before all tasks were submitted")
	default:
		return prodErr
	}

	if lost := st.accepted.Load() - st.executed.Load() - int64(len(failures)); lost != 0 {
		return fmt.Errorf("%d accepted tasks never completed", lost)
	}
	return nil
}

// loadConfig starts from the config file (or defaults) and applies any flags
// given explicitly on the command line.
func loadConfig() (config.Config, error) {
	configPath := flag.String("config", "", "YAML config file")
	threads := flag.Int("threads", 0, "worker count (0 = GOMAXPROCS)")
	capacity := flag.Int("capacity", 0, "queue capacity including the guard slot")
	producers := flag.Int("producers", 0, "concurrent producers")
	tasks := flag.Int("n", 0, "tasks per producer")
	rps := flag.Float64("rate", 0, "submits per second per producer (0 = unlimited)")
	taskDuration := flag.Duration("task-duration", 0, "simulated work per task")
	shed := flag.Bool("shed", false, "drop tasks on a full queue instead of retrying")
	level := flag.String("log-level", "", "log level (debug, info, warn, error)")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address")
	report := flag.Duration("report", 0, "progress report interval")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}

	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threads":
			cfg.Threads = *threads
		case "capacity":
			cfg.Capacity = *capacity
		case "producers":
			cfg.Producers = *producers
		case "n":
			cfg.Tasks = *tasks
		case "rate":
			cfg.Rate = *rps
		case "task-duration":
			cfg.TaskDuration = *taskDuration
		case "shed":
			cfg.Retry = !*shed
		case "log-level":
			lvl, err := zerolog.ParseLevel(*level)
			if err != nil {
				flagErr = fmt.Errorf("invalid -log-level: %w", err)
				return
			}
			cfg.LogLevel = lvl
		case "metrics":
			cfg.MetricsAddr = *metricsAddr
		case "report":
			cfg.Report = *report
		}
	})
	if flagErr != nil {
		return cfg, flagErr
	}
	return cfg, cfg.Validate()
}
