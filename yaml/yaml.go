// Package yaml loads scribe configuration files: price tables and article
// options.
//
// A price file maps model identifiers to USD rates per million tokens:
//
//	models:
//	  gpt-4o-mini-search-preview-2025-03-11:
//	    input: 2.5
//	    output: 10
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/content"
	"gopkg.in/yaml.v3"
)

type priceFile struct {
	Models map[string]scribe.Rate `yaml:"models"`
}

// ParsePrices decodes a price table. Unknown fields and negative rates are
// rejected.
func ParsePrices(data []byte) (scribe.PriceTable, error) {
	var f priceFile
	if err := decodeStrict(data, &f); err != nil {
		return nil, fmt.Errorf("yaml: parse prices: %w", err)
	}
	table := make(scribe.PriceTable, len(f.Models))
	for model, rate := range f.Models {
		if model == "" {
			return nil, fmt.Errorf("yaml: empty model name: %w", scribe.ErrValidation)
		}
		if rate.Input < 0 || rate.Output < 0 {
			return nil, fmt.Errorf("yaml: negative rate for %s: %w", model, scribe.ErrValidation)
		}
		table[model] = rate
	}
	return table, nil
}

// MarshalPrices encodes t in the format read by ParsePrices.
func MarshalPrices(t scribe.PriceTable) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(priceFile{Models: t}); err != nil {
		return nil, fmt.Errorf("yaml: marshal prices: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml: marshal prices: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadPrices reads a price table from path.
func LoadPrices(path string) (scribe.PriceTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	table, err := ParsePrices(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// LoadPriceGlob reads every file matching pattern, which may use ** for
// recursive matching, and merges them in lexical path order so later files
// override earlier ones. A pattern matching nothing yields an empty table.
func LoadPriceGlob(pattern string) (scribe.PriceTable, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("yaml: invalid glob pattern %q: %w", pattern, scribe.ErrValidation)
	}
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("yaml: glob %q: %w", pattern, err)
	}
	slices.Sort(paths)

	merged := scribe.PriceTable{}
	for _, p := range paths {
		table, err := LoadPrices(p)
		if err != nil {
			return nil, err
		}
		merged = merged.Merge(table)
	}
	return merged, nil
}

// LoadOptions reads article options from path. Fields missing from the file
// keep their [content.DefaultOptions] values.
func LoadOptions(path string) (content.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return content.Options{}, fmt.Errorf("yaml: %w", err)
	}
	o := content.DefaultOptions()
	if err := decodeStrict(data, &o); err != nil {
		return content.Options{}, fmt.Errorf("yaml: parse options %s: %w", path, err)
	}
	return o, nil
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
