package main

import (
	"fmt"
	"net"

	scribehttp "github.com/fwojciec/scribe/http"
	"github.com/fwojciec/scribe/log"
	"github.com/fwojciec/scribe/pipeline"
	scribeprom "github.com/fwojciec/scribe/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type serveFlags struct {
	addr        string
	metricsAddr string
	provider    string
	model       string
	baseURL     string
	prices      string
}

func newServeCmd(a *app) *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generate endpoint over HTTP",
		Long: `Serve POST /api/generate as a server-sent event stream.

Each request carries its own API key. Metrics are served on GET /metrics,
or on a separate listener with --metrics-addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, a, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.addr, "addr", ":8080", "Listen address")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "Separate listen address for metrics")
	fl.StringVar(&f.provider, "provider", providerOpenAI, "Provider: openai, anthropic, gemini")
	fl.StringVar(&f.model, "model", "", "Model ID (default: provider default)")
	fl.StringVar(&f.baseURL, "base-url", "", "Provider API base URL (default: provider default)")
	fl.StringVar(&f.prices, "prices", "", "Glob of YAML price files overlaid on the built-in table")
	return cmd
}

func runServe(cmd *cobra.Command, a *app, f serveFlags) error {
	logCfg := log.FromEnv(a.getenv)
	logCfg.Output = cmd.ErrOrStderr()
	logger := log.New(logCfg)

	gen, err := newGenerator(f.provider, f.model, f.baseURL)
	if err != nil {
		return err
	}
	prices, err := loadPrices(f.prices)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := pipeline.New(gen,
		pipeline.WithPrices(prices),
		pipeline.WithLogger(log.WithProvider(logger, f.provider)),
		pipeline.WithRecorder(scribeprom.New(reg)),
	)
	opts := []scribehttp.ServerOption{scribehttp.WithLogger(logger)}
	if f.metricsAddr == "" {
		opts = append(opts, scribehttp.WithGatherer(reg))
	}
	srv := scribehttp.NewServer(engine, opts...)

	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	var metricsLn net.Listener
	if f.metricsAddr != "" {
		if metricsLn, err = net.Listen("tcp", f.metricsAddr); err != nil {
			ln.Close()
			return fmt.Errorf("listen metrics: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return srv.Serve(ctx, ln) })
	if metricsLn != nil {
		logger.Info("serving metrics", "addr", metricsLn.Addr().String())
		g.Go(func() error {
			return scribehttp.Serve(ctx, metricsLn, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		})
	}
	err = g.Wait()
	logger.Info("server stopped")
	return err
}
