package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fwojciec/scribe"
	bt "github.com/fwojciec/scribe/bubbletea"
	"github.com/fwojciec/scribe/content"
	scribehttp "github.com/fwojciec/scribe/http"
	"github.com/fwojciec/scribe/log"
	"github.com/fwojciec/scribe/pipeline"
	"github.com/fwojciec/scribe/sse"
	"github.com/fwojciec/scribe/yaml"
	"github.com/spf13/cobra"
)

const (
	formatMarkdown = "markdown"
	formatSSE      = "sse"
)

type generateFlags struct {
	optionsPath string
	provider    string
	model       string
	baseURL     string
	apiKey      string
	prices      string
	server      string
	format      string
	out         string
	noTUI       bool

	tone      string
	style     string
	length    string
	language  string
	audience  string
	wordCount string
	factCheck bool
	humanize  bool
	seo       bool
	metadata  bool
	images    bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate [keyword]",
		Short: "Generate an article",
		Long: `Generate an article for a keyword.

Options come from the built-in defaults, then the --options YAML file, then
flags. On a terminal a live progress view is shown; otherwise the final
article is printed as markdown, or every event as SSE with --format sse.

With --server the run executes on a scribe server instead of locally.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, args)
			if err != nil {
				return err
			}
			return runGenerate(cmd, a, f, opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.optionsPath, "options", "", "Path to a YAML options file")
	fl.StringVar(&f.provider, "provider", providerOpenAI, "Provider: openai, anthropic, gemini")
	fl.StringVar(&f.model, "model", "", "Model ID (default: provider default)")
	fl.StringVar(&f.baseURL, "base-url", "", "Provider API base URL (default: provider default)")
	fl.StringVar(&f.apiKey, "api-key", "", "API key (overrides the provider's environment variable)")
	fl.StringVar(&f.prices, "prices", "", "Glob of YAML price files overlaid on the built-in table")
	fl.StringVar(&f.server, "server", "", "Base URL of a scribe server to run on")
	fl.StringVar(&f.format, "format", formatMarkdown, "Output without a terminal: markdown, sse")
	fl.StringVar(&f.out, "out", "", "Write the final article to this file")
	fl.BoolVar(&f.noTUI, "no-tui", false, "Disable the progress view")

	fl.StringVar(&f.tone, "tone", "", "Writing tone")
	fl.StringVar(&f.style, "style", "", "Article style")
	fl.StringVar(&f.length, "length", "", "Article length: short, medium, long")
	fl.StringVar(&f.language, "language", "", "Output language")
	fl.StringVar(&f.audience, "audience", "", "Target audience")
	fl.StringVar(&f.wordCount, "word-count", "", "Target word count")
	fl.BoolVar(&f.factCheck, "fact-check", true, "Run the fact-check stage")
	fl.BoolVar(&f.humanize, "humanize", true, "Run the humanize stage")
	fl.BoolVar(&f.seo, "seo", true, "Run the SEO stage")
	fl.BoolVar(&f.metadata, "metadata", true, "Generate metadata")
	fl.BoolVar(&f.images, "images", true, "Generate image instructions")

	return cmd
}

// options layers defaults, the options file and changed flags.
func (f generateFlags) options(cmd *cobra.Command, args []string) (content.Options, error) {
	opts := content.DefaultOptions()
	if f.optionsPath != "" {
		var err error
		if opts, err = yaml.LoadOptions(f.optionsPath); err != nil {
			return content.Options{}, err
		}
	}
	if len(args) > 0 {
		opts.Keyword = args[0]
	}

	changed := cmd.Flags().Changed
	strs := []struct {
		name string
		dst  *string
		val  string
	}{
		{"tone", &opts.Tone, f.tone},
		{"style", &opts.Style, f.style},
		{"length", &opts.Length, f.length},
		{"language", &opts.Language, f.language},
		{"audience", &opts.TargetAudience, f.audience},
		{"word-count", &opts.TargetWordCount, f.wordCount},
	}
	for _, s := range strs {
		if changed(s.name) {
			*s.dst = s.val
		}
	}
	bools := []struct {
		name string
		dst  *bool
		val  bool
	}{
		{"fact-check", &opts.FactCheck, f.factCheck},
		{"humanize", &opts.Humanize, f.humanize},
		{"seo", &opts.SEOFocus, f.seo},
		{"metadata", &opts.IncludeMetadata, f.metadata},
		{"images", &opts.IncludeImages, f.images},
	}
	for _, b := range bools {
		if changed(b.name) {
			*b.dst = b.val
		}
	}
	return opts, nil
}

func runGenerate(cmd *cobra.Command, a *app, f generateFlags, opts content.Options) error {
	if f.format != formatMarkdown && f.format != formatSSE {
		return fmt.Errorf("unknown format %q: must be %q or %q", f.format, formatMarkdown, formatSSE)
	}

	// The plan is built locally in both modes: it validates the options and
	// names the steps for the progress view.
	plan, err := content.Plan(opts)
	if err != nil {
		return err
	}
	key, err := resolveKey(f.provider, f.apiKey, opts.APIKey, a.getenv(keyEnvVar(f.provider)))
	if err != nil {
		return err
	}

	useTUI := a.isTerminal() && !f.noTUI
	logCfg := log.FromEnv(a.getenv)
	logCfg.Output = cmd.ErrOrStderr()
	if useTUI {
		// The progress view owns the terminal.
		logCfg.Output = io.Discard
	}
	logger := log.New(logCfg)

	var run bt.RunFunc
	results := &collector{logger: log.Discard()}
	if f.server != "" {
		results.logger = logger
		opts.APIKey = key
		client := scribehttp.NewClient(f.server)
		run = func(ctx context.Context, sink scribe.Sink) error {
			return client.Generate(ctx, opts, sink)
		}
	} else {
		gen, err := newGenerator(f.provider, f.model, f.baseURL)
		if err != nil {
			return err
		}
		prices, err := loadPrices(f.prices)
		if err != nil {
			return err
		}
		engine := pipeline.New(gen,
			pipeline.WithPrices(prices),
			pipeline.WithLogger(log.WithProvider(logger, f.provider)),
		)
		run = func(ctx context.Context, sink scribe.Sink) error {
			report := engine.Run(ctx, plan, key, sink)
			if report.State != scribe.StateCompleted {
				return report.Err
			}
			return nil
		}
	}

	ctx := cmd.Context()
	finalKey := content.FinalKey(opts)

	switch {
	case useTUI:
		m := bt.New(ctx, tee(run, results), plan, scribe.DefaultTheme(),
			bt.WithTitle("scribe · "+opts.Keyword),
			bt.WithFinalKey(finalKey),
		)
		if err := bt.Run(ctx, m); err != nil {
			return fmt.Errorf("TUI: %w", err)
		}
		if f.out == "" {
			return nil
		}
		return writeFinal(results, finalKey, f.out, nil)

	case f.format == formatSSE:
		return tee(run, results)(ctx, sse.NewWriter(cmd.OutOrStdout()))

	default:
		if err := run(ctx, results); err != nil {
			return err
		}
		return writeFinal(results, finalKey, f.out, cmd.OutOrStdout())
	}
}

// writeFinal writes the final article to path, or to w when path is empty.
func writeFinal(c *collector, key, path string, w io.Writer) error {
	text, ok := c.result(key)
	if !ok {
		return fmt.Errorf("no final article: %s step produced no result: %w", key, scribe.ErrNoResult)
	}
	if path != "" {
		if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("write article: %w", err)
		}
		return nil
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// tee wraps run so that every event also reaches c.
func tee(run bt.RunFunc, c *collector) bt.RunFunc {
	return func(ctx context.Context, sink scribe.Sink) error {
		return run(ctx, scribe.SinkFunc(func(e scribe.Event) error {
			if err := c.Emit(e); err != nil {
				return err
			}
			return sink.Emit(e)
		}))
	}
}

// collector keeps each step's result and logs progress for remote runs.
type collector struct {
	logger *slog.Logger

	mu      sync.Mutex
	results map[string]string
}

func (c *collector) Emit(e scribe.Event) error {
	switch e := e.(type) {
	case scribe.EventStep:
		c.mu.Lock()
		if c.results == nil {
			c.results = make(map[string]string)
		}
		c.results[e.ResultKey] = e.Text
		c.mu.Unlock()
		c.logger.Info("step complete",
			log.StepKey, e.EventName,
			log.ModelKey, e.Usage.Model,
			"estimated_cost", e.Usage.Cost.String(),
		)
	case scribe.EventError:
		if e.Fatal {
			c.logger.Error("run failed", log.StepKey, e.Step, "error", e.Message)
		} else {
			c.logger.Warn("step failed", log.StepKey, e.Step, "error", e.Message)
		}
	}
	return nil
}

func (c *collector) result(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.results[key]
	return text, ok
}
