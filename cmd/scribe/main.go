// Command scribe generates long-form articles with a multi-step LLM
// pipeline, either locally or through a scribe server.
//
// Usage:
//
//	OPENAI_API_KEY=sk-... scribe generate "solar panels"
//	scribe generate --server http://localhost:8080 --api-key sk-... "solar panels"
//	scribe serve --addr :8080
//	scribe prices --prices 'prices/**/*.yaml'
//
// Logging is configured with SCRIBE_LOG_LEVEL, SCRIBE_LOG_FORMAT and
// SCRIBE_DEBUG.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{
		getenv:     os.Getenv,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scribe: %v\n", err)
		os.Exit(1)
	}
}

// app carries the process environment. Only main reads it; commands get
// values through these fields.
type app struct {
	getenv     func(string) string
	isTerminal func() bool
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scribe",
		Short:         "scribe - multi-step article generation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newGenerateCmd(a),
		newServeCmd(a),
		newPricesCmd(),
	)
	return cmd
}
