package scribe

import (
	"context"
	"fmt"
)

// GenerateRequest carries one generation call.
type GenerateRequest struct {
	Instruction string // system instruction
	Input       string // user payload
	Credential  string
}

// Generation is the result of a successful generation call.
type Generation struct {
	Text         string
	Model        string // model identifier reported by the backend
	InputTokens  int
	OutputTokens int
}

// Generator is a strategy pattern interface for text-generation backends.
// Implementations bound their own latency; the engine imposes no timeout.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (Generation, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (Generation, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (Generation, error) {
	return f(ctx, req)
}

// Outcome is a sealed interface for the result of one step's generation
// call: either Succeeded or Failed.
type Outcome interface {
	outcome()
}

// Succeeded carries the generation of a successful call.
type Succeeded struct {
	Generation Generation
}

func (Succeeded) outcome() {}

// Failed carries the reason a call produced no result.
type Failed struct {
	Reason error
}

func (Failed) outcome() {}

// Interface compliance checks.
var (
	_ Outcome = Succeeded{}
	_ Outcome = Failed{}
)

// Invoke calls g and folds every failure mode into Failed: an empty
// credential (g is not called), a returned error, and a panic inside g.
// Invoke never panics and never returns nil.
func Invoke(ctx context.Context, g Generator, req GenerateRequest) (out Outcome) {
	if req.Credential == "" {
		return Failed{Reason: ErrMissingCredential}
	}
	defer func() {
		if r := recover(); r != nil {
			out = Failed{Reason: fmt.Errorf("generator panic: %v", r)}
		}
	}()
	gen, err := g.Generate(ctx, req)
	if err != nil {
		return Failed{Reason: err}
	}
	return Succeeded{Generation: gen}
}
