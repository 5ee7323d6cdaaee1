// Package mock provides test doubles for scribe interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/scribe"
)

// Interface compliance checks.
var (
	_ scribe.Generator = (*Generator)(nil)
	_ scribe.Runner    = (*Runner)(nil)
)

// Generator is a test double for scribe.Generator.
// Set GenerateFn before calling Generate.
type Generator struct {
	GenerateFn func(ctx context.Context, req scribe.GenerateRequest) (scribe.Generation, error)
}

// Generate delegates to GenerateFn.
func (g *Generator) Generate(ctx context.Context, req scribe.GenerateRequest) (scribe.Generation, error) {
	return g.GenerateFn(ctx, req)
}

// Runner is a test double for scribe.Runner.
// Set RunFn before calling Run.
type Runner struct {
	RunFn func(ctx context.Context, plan scribe.Plan, credential string, sink scribe.Sink) scribe.Report
}

// Run delegates to RunFn.
func (r *Runner) Run(ctx context.Context, plan scribe.Plan, credential string, sink scribe.Sink) scribe.Report {
	return r.RunFn(ctx, plan, credential, sink)
}
