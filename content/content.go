// Package content compiles article options into a scribe.Plan.
//
// Every plan starts with research, outline and content. Fact checking,
// humanizing, SEO, metadata and image instructions follow when enabled, in
// that order. Each step's input is a JSON object holding the option fields
// it needs and the earlier results it builds on. A result that is absent
// because its step failed is omitted from the object.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/fwojciec/scribe"
)

// Result keys.
const (
	KeyResearch          = "research"
	KeyOutline           = "outline"
	KeyContent           = "content"
	KeyFactChecked       = "factChecked"
	KeyHumanizedContent  = "humanizedContent"
	KeySEOOptimized      = "seoOptimized"
	KeyMetadata          = "metadata"
	KeyImageInstructions = "imageInstructions"
)

// Event names.
const (
	EventResearch  = "research-complete"
	EventOutline   = "outline-complete"
	EventContent   = "content-complete"
	EventFactCheck = "fact-check-complete"
	EventHumanize  = "humanize-complete"
	EventSEO       = "seo-complete"
	EventMetadata  = "metadata-complete"
	EventImages    = "images-complete"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"lower": strings.ToLower}).
		ParseFS(promptFS, "prompts/*.tmpl"),
)

// stage is one entry of the step catalogue.
type stage struct {
	template  string
	resultKey string
	eventName string
	enabled   func(Options) bool
	input     func(Options, scribe.Results) any
}

func always(Options) bool { return true }

var stages = []stage{
	{"research.tmpl", KeyResearch, EventResearch, always, researchInput},
	{"outline.tmpl", KeyOutline, EventOutline, always, outlineInput},
	{"content.tmpl", KeyContent, EventContent, always, contentInput},
	{"factcheck.tmpl", KeyFactChecked, EventFactCheck, func(o Options) bool { return o.FactCheck }, factCheckInput},
	{"humanize.tmpl", KeyHumanizedContent, EventHumanize, func(o Options) bool { return o.Humanize }, humanizeInput},
	{"seo.tmpl", KeySEOOptimized, EventSEO, func(o Options) bool { return o.SEOFocus }, seoInput},
	{"metadata.tmpl", KeyMetadata, EventMetadata, func(o Options) bool { return o.IncludeMetadata }, metadataInput},
	{"images.tmpl", KeyImageInstructions, EventImages, func(o Options) bool { return o.IncludeImages }, imagesInput},
}

// Plan validates o and returns the steps it enables. Instructions are
// rendered once, here; input builders run later against each snapshot.
func Plan(o Options) (scribe.Plan, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var plan scribe.Plan
	for _, s := range stages {
		if !s.enabled(o) {
			continue
		}
		instruction, err := render(s.template, o)
		if err != nil {
			return nil, err
		}
		plan = append(plan, scribe.Step{
			Input:       jsonInput(o, s.input),
			Instruction: instruction,
			ResultKey:   s.resultKey,
			EventName:   s.eventName,
		})
	}
	return plan, nil
}

func render(name string, o Options) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, o); err != nil {
		return "", fmt.Errorf("content: render %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}

func jsonInput(o Options, build func(Options, scribe.Results) any) scribe.InputBuilder {
	return func(r scribe.Results) (string, error) {
		data, err := json.Marshal(build(o, r))
		if err != nil {
			return "", fmt.Errorf("content: marshal input: %w", err)
		}
		return string(data), nil
	}
}
