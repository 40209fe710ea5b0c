package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/hupe1980/memcore"
	"github.com/hupe1980/memcore/internal/pause"
	"github.com/hupe1980/memcore/internal/stress"
	"github.com/hupe1980/memcore/memory"
	"github.com/hupe1980/memcore/metrics"
	"github.com/hupe1980/memcore/spinlock"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "memstress",
		Usage: "Stress a memcore allocator",
		Commands: []*cli.Command{
			cmdRun,
			cmdInfo,
		},
	}
}

var cmdRun = &cli.Command{
	Name:  "run",
	Usage: "Run the allocation workload and verify the result",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "system, runtime, pages or tiered",
		},
		&cli.BoolFlag{
			Name:  "tracking",
			Usage: "Account current and peak bytes",
		},
		&cli.StringFlag{
			Name:  "memory-limit",
			Usage: "Cap on live bytes, e.g. 256MiB",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		&cli.IntFlag{
			Name:    "goroutines",
			Aliases: []string{"g"},
			Usage:   "Concurrent workers (default GOMAXPROCS)",
		},
		&cli.IntFlag{
			Name:    "iterations",
			Aliases: []string{"n"},
			Value:   1000,
			Usage:   "Iterations per worker",
		},
		&cli.StringFlag{
			Name:  "max-size",
			Value: "64KiB",
			Usage: "Largest plain request",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "Base random seed",
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "Serve Prometheus metrics on this address while running",
		},
	},
	Action: runStress,
}

var cmdInfo = &cli.Command{
	Name:  "info",
	Usage: "Print block layout and platform parameters",
	Action: func(c *cli.Context) error {
		w := c.App.Writer
		fmt.Fprintf(w, "max align:    %d\n", memory.MaxAlign)
		fmt.Fprintf(w, "data offset:  %d\n", memory.DataOffset)
		fmt.Fprintf(w, "cache line:   %d\n", spinlock.CacheLineSize)
		fmt.Fprintf(w, "spin hint:    %s\n", pause.Instruction)
		fmt.Fprintf(w, "available:    %s\n", available())
		return nil
	},
}

func available() string {
	n := memory.Available()
	if n == ^uint64(0) {
		return "unknown"
	}
	return humanize.IBytes(n)
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(c *cli.Context) (memcore.Config, error) {
	cfg := memcore.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = memcore.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	cfg, err := memcore.ConfigFromEnv(cfg)
	if err != nil {
		return cfg, err
	}

	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("tracking") {
		cfg.Tracking = c.Bool("tracking")
	}
	if c.IsSet("memory-limit") {
		n, err := memcore.ParseSize(c.String("memory-limit"))
		if err != nil {
			return cfg, fmt.Errorf("--memory-limit: %w", err)
		}
		cfg.MemoryLimit = n
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return cfg, cfg.Validate()
}

func runStress(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	maxSize, err := memcore.ParseSize(c.String("max-size"))
	if err != nil {
		return fmt.Errorf("--max-size: %w", err)
	}

	collector := metrics.NewCollector("memcore")
	m, err := memcore.New(cfg, memcore.WithMetrics(collector))
	if err != nil {
		return err
	}
	collector.Observe(m.Allocator)

	if addr := c.String("metrics-addr"); addr != "" {
		srv, err := serveMetrics(addr, collector, m.Logger())
		if err != nil {
			_ = m.Close()
			return err
		}
		defer srv.Close()
	}

	report, runErr := stress.Run(c.Context, m.Allocator, stress.Config{
		Goroutines: c.Int("goroutines"),
		Iterations: c.Int("iterations"),
		MaxSize:    int(maxSize),
		Seed:       c.Int64("seed"),
	})
	fmt.Fprintln(c.App.Writer, report)
	m.LogUsage(c.Context)

	if err := errors.Join(runErr, m.Close()); err != nil {
		return err
	}
	if !report.OK() {
		return cli.Exit("stress check failed", 2)
	}
	return nil
}

func serveMetrics(addr string, collector prometheus.Collector, logger *memcore.Logger) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())
	return srv, nil
}
