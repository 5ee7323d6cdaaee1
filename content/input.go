package content

import "github.com/fwojciec/scribe"

// Input payloads. Result fields are pointers so that an absent result is
// omitted rather than sent as an empty string.

type researchPayload struct {
	Keyword               string `json:"keyword"`
	URL                   string `json:"url,omitempty"`
	GeoFocus              string `json:"geoFocus,omitempty"`
	TargetAudience        string `json:"targetAudience,omitempty"`
	Category              string `json:"category,omitempty"`
	IncludeTrendingTopics bool   `json:"includeTrendingTopics"`
	CompetitorAnalysis    bool   `json:"competitorAnalysis"`
	ContentFreshness      string `json:"contentFreshness,omitempty"`
	CustomInstructions    string `json:"customInstructions,omitempty"`
}

func researchInput(o Options, _ scribe.Results) any {
	return researchPayload{
		Keyword:               o.Keyword,
		URL:                   o.URL,
		GeoFocus:              o.GeoFocus,
		TargetAudience:        o.TargetAudience,
		Category:              o.Category,
		IncludeTrendingTopics: o.IncludeTrendingTopics,
		CompetitorAnalysis:    o.CompetitorAnalysis,
		ContentFreshness:      o.ContentFreshness,
		CustomInstructions:    o.CustomInstructions,
	}
}

type outlinePayload struct {
	Research         *string `json:"research,omitempty"`
	Keyword          string  `json:"keyword"`
	Title            string  `json:"title,omitempty"`
	TargetWordCount  string  `json:"targetWordCount,omitempty"`
	IncludeSubtopics bool    `json:"includeSubtopics"`
	ReadingLevel     string  `json:"readingLevel,omitempty"`
	Style            string  `json:"style,omitempty"`
}

func outlineInput(o Options, r scribe.Results) any {
	return outlinePayload{
		Research:         r.Lookup(KeyResearch),
		Keyword:          o.Keyword,
		Title:            o.Title,
		TargetWordCount:  o.TargetWordCount,
		IncludeSubtopics: o.IncludeSubtopics,
		ReadingLevel:     o.ReadingLevel,
		Style:            o.Style,
	}
}

type contentPayload struct {
	Research           *string `json:"research,omitempty"`
	Outline            *string `json:"outline,omitempty"`
	Keyword            string  `json:"keyword"`
	Title              string  `json:"title"`
	Tone               string  `json:"tone,omitempty"`
	Style              string  `json:"style,omitempty"`
	Length             string  `json:"length,omitempty"`
	TargetAudience     string  `json:"targetAudience,omitempty"`
	ReadingLevel       string  `json:"readingLevel,omitempty"`
	AuthorName         string  `json:"authorName,omitempty"`
	PublicationDate    string  `json:"publicationDate,omitempty"`
	ExternalLinking    bool    `json:"externalLinking"`
	InternalLinking    bool    `json:"internalLinking"`
	CustomInstructions string  `json:"customInstructions,omitempty"`
}

func contentInput(o Options, r scribe.Results) any {
	title := o.Title
	if title == "" {
		title = "Auto-generated"
	}
	return contentPayload{
		Research:           r.Lookup(KeyResearch),
		Outline:            r.Lookup(KeyOutline),
		Keyword:            o.Keyword,
		Title:              title,
		Tone:               o.Tone,
		Style:              o.Style,
		Length:             o.Length,
		TargetAudience:     o.TargetAudience,
		ReadingLevel:       o.ReadingLevel,
		AuthorName:         o.AuthorName,
		PublicationDate:    o.PublicationDate,
		ExternalLinking:    o.ExternalLinking,
		InternalLinking:    o.InternalLinking,
		CustomInstructions: o.CustomInstructions,
	}
}

type factCheckPayload struct {
	Content  *string `json:"content,omitempty"`
	Research *string `json:"research,omitempty"`
	Keyword  string  `json:"keyword"`
}

func factCheckInput(o Options, r scribe.Results) any {
	return factCheckPayload{
		Content:  r.Lookup(KeyContent),
		Research: r.Lookup(KeyResearch),
		Keyword:  o.Keyword,
	}
}

type humanizePayload struct {
	Content        *string `json:"content,omitempty"`
	Tone           string  `json:"tone,omitempty"`
	TargetAudience string  `json:"targetAudience,omitempty"`
	ReadingLevel   string  `json:"readingLevel,omitempty"`
}

// humanizeInput reads the fact-checked text when fact checking is enabled,
// even if that step failed.
func humanizeInput(o Options, r scribe.Results) any {
	src := KeyContent
	if o.FactCheck {
		src = KeyFactChecked
	}
	return humanizePayload{
		Content:        r.Lookup(src),
		Tone:           o.Tone,
		TargetAudience: o.TargetAudience,
		ReadingLevel:   o.ReadingLevel,
	}
}

type seoPayload struct {
	Content                 *string `json:"content,omitempty"`
	Keyword                 string  `json:"keyword"`
	TargetAudience          string  `json:"targetAudience,omitempty"`
	GeoFocus                string  `json:"geoFocus,omitempty"`
	SocialMediaOptimization bool    `json:"socialMediaOptimization"`
}

// seoInput reads the output of the last enabled rewriting stage.
func seoInput(o Options, r scribe.Results) any {
	src := KeyContent
	if o.FactCheck {
		src = KeyFactChecked
	}
	if o.Humanize {
		src = KeyHumanizedContent
	}
	return seoPayload{
		Content:                 r.Lookup(src),
		Keyword:                 o.Keyword,
		TargetAudience:          o.TargetAudience,
		GeoFocus:                o.GeoFocus,
		SocialMediaOptimization: o.SocialMediaOptimization,
	}
}

// FinalKey returns the result key of the most refined article text the
// options enable.
func FinalKey(o Options) string {
	switch {
	case o.SEOFocus:
		return KeySEOOptimized
	case o.Humanize:
		return KeyHumanizedContent
	case o.FactCheck:
		return KeyFactChecked
	default:
		return KeyContent
	}
}

type metadataPayload struct {
	Content         *string `json:"content,omitempty"`
	Keyword         string  `json:"keyword"`
	Title           string  `json:"title,omitempty"`
	TargetAudience  string  `json:"targetAudience,omitempty"`
	Category        string  `json:"category,omitempty"`
	AuthorName      string  `json:"authorName,omitempty"`
	PublicationDate string  `json:"publicationDate,omitempty"`
}

func metadataInput(o Options, r scribe.Results) any {
	return metadataPayload{
		Content:         r.Lookup(FinalKey(o)),
		Keyword:         o.Keyword,
		Title:           o.Title,
		TargetAudience:  o.TargetAudience,
		Category:        o.Category,
		AuthorName:      o.AuthorName,
		PublicationDate: o.PublicationDate,
	}
}

type imagesPayload struct {
	Content        *string `json:"content,omitempty"`
	Outline        *string `json:"outline,omitempty"`
	Keyword        string  `json:"keyword"`
	ImageStyle     string  `json:"imageStyle,omitempty"`
	TargetAudience string  `json:"targetAudience,omitempty"`
}

func imagesInput(o Options, r scribe.Results) any {
	return imagesPayload{
		Content:        r.Lookup(FinalKey(o)),
		Outline:        r.Lookup(KeyOutline),
		Keyword:        o.Keyword,
		ImageStyle:     o.ImageStyle,
		TargetAudience: o.TargetAudience,
	}
}
