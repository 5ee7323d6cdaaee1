package content

import (
	"fmt"
	"strings"

	"github.com/fwojciec/scribe"
)

// Options configures an article run. Field names match the JSON body of the
// generate endpoint.
type Options struct {
	APIKey string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`

	// Research
	Keyword               string `json:"keyword" yaml:"keyword"`
	URL                   string `json:"url,omitempty" yaml:"url,omitempty"`
	Title                 string `json:"title,omitempty" yaml:"title,omitempty"`
	GeoFocus              string `json:"geoFocus,omitempty" yaml:"geoFocus,omitempty"`
	TargetAudience        string `json:"targetAudience,omitempty" yaml:"targetAudience,omitempty"`
	Category              string `json:"category,omitempty" yaml:"category,omitempty"`
	Language              string `json:"language,omitempty" yaml:"language,omitempty"`
	IncludeTrendingTopics bool   `json:"includeTrendingTopics" yaml:"includeTrendingTopics"`
	CompetitorAnalysis    bool   `json:"competitorAnalysis" yaml:"competitorAnalysis"`
	ContentFreshness      string `json:"contentFreshness,omitempty" yaml:"contentFreshness,omitempty"`
	CustomInstructions    string `json:"customInstructions,omitempty" yaml:"customInstructions,omitempty"`

	// Outline and body
	TargetWordCount  string `json:"targetWordCount,omitempty" yaml:"targetWordCount,omitempty"`
	IncludeSubtopics bool   `json:"includeSubtopics" yaml:"includeSubtopics"`
	ReadingLevel     string `json:"readingLevel,omitempty" yaml:"readingLevel,omitempty"`
	Style            string `json:"style,omitempty" yaml:"style,omitempty"`
	Tone             string `json:"tone,omitempty" yaml:"tone,omitempty"`
	Length           string `json:"length,omitempty" yaml:"length,omitempty"`
	AuthorName       string `json:"authorName,omitempty" yaml:"authorName,omitempty"`
	PublicationDate  string `json:"publicationDate,omitempty" yaml:"publicationDate,omitempty"`
	ExternalLinking  bool   `json:"externalLinking" yaml:"externalLinking"`
	InternalLinking  bool   `json:"internalLinking" yaml:"internalLinking"`

	// Optional stages
	FactCheck               bool   `json:"factCheck" yaml:"factCheck"`
	Humanize                bool   `json:"humanize" yaml:"humanize"`
	SEOFocus                bool   `json:"seoFocus" yaml:"seoFocus"`
	SocialMediaOptimization bool   `json:"socialMediaOptimization" yaml:"socialMediaOptimization"`
	IncludeMetadata         bool   `json:"includeMetadata" yaml:"includeMetadata"`
	IncludeImages           bool   `json:"includeImages" yaml:"includeImages"`
	ImageStyle              string `json:"imageStyle,omitempty" yaml:"imageStyle,omitempty"`
}

// DefaultOptions returns the settings a new article starts from: every
// optional stage except social media tuning is enabled.
func DefaultOptions() Options {
	return Options{
		Tone:             "professional",
		Style:            "news",
		Length:           "medium",
		TargetAudience:   "general",
		Language:         "english",
		Category:         "breaking-news",
		GeoFocus:         "global",
		ReadingLevel:     "high-school",
		ContentFreshness: "week",
		ImageStyle:       "professional",
		IncludeSubtopics: true,
		ExternalLinking:  true,
		FactCheck:        true,
		Humanize:         true,
		SEOFocus:         true,
		IncludeMetadata:  true,
		IncludeImages:    true,
	}
}

// Validate checks that the options can produce a plan. The API key is not
// checked here; the engine reports a missing credential itself.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Keyword) == "" {
		return fmt.Errorf("content: keyword is required: %w", scribe.ErrValidation)
	}
	return nil
}
